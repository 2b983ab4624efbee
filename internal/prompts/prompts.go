// Package prompts holds the prompt templates for the educator assistant
// features. All templates target local LLMs via Ollama and aim for
// consistent, cleanly formatted output for instructors.
package prompts

import (
	"fmt"
	"strings"
)

// Difficulty selects the target level for generated material.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty maps a request string to a Difficulty, defaulting to
// intermediate for unrecognized values.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Beginner:
		return Beginner
	case Advanced:
		return Advanced
	default:
		return Intermediate
	}
}

func (d Difficulty) capitalized() string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SystemPreamble is the shared system preface for all instructor prompts.
func SystemPreamble() string {
	return "You are an AI teaching assistant for university-level Computer Science courses. " +
		"Be accurate, practical, and helpful for instructors. Prefer clear structure, " +
		"concise explanations, and directly usable outputs."
}

// Summarize asks for a teacher-oriented summary of text.
func Summarize(text string) string {
	return "Summarize this text for teachers:\n" + strings.TrimSpace(text)
}

// Flashcards asks for Q&A flashcards based on text.
func Flashcards(text string) string {
	return "Make flashcards (Q&A) for students based on this text:\n" + strings.TrimSpace(text)
}

// Explain asks for a student-level explanation of text.
func Explain(text string) string {
	return "Explain this text simply for students:\n" + strings.TrimSpace(text)
}

// QuizType selects the question format for quiz generation.
type QuizType string

const (
	MultipleChoice QuizType = "mcq"
	ShortAnswer    QuizType = "short"
)

// Quiz asks for numbered questions plus an answer key on a topic.
func Quiz(topic string, difficulty Difficulty, numQuestions int, qtype QuizType) string {
	typeText := "Short Answer"
	if qtype == MultipleChoice {
		typeText = "Multiple Choice"
	}
	if numQuestions <= 0 {
		numQuestions = 5
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", SystemPreamble())
	fmt.Fprintf(&sb, "TASK: Generate %d %s questions for university students on the topic below.\n\n", numQuestions, typeText)
	sb.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- Difficulty: %s\n", difficulty.capitalized())
	sb.WriteString("- Number each question\n")
	sb.WriteString("- For MCQ: Provide 4 options (A-D) and indicate the correct option\n")
	sb.WriteString("- For Short Answer: Provide a concise expected answer\n")
	sb.WriteString("- After questions, include an Answer Key section referencing question numbers\n\n")
	fmt.Fprintf(&sb, "TOPIC:\n%s\n\n", strings.TrimSpace(topic))
	sb.WriteString("OUTPUT FORMAT (Markdown):\n")
	sb.WriteString("## Questions\n")
	sb.WriteString("1. Question text\n")
	sb.WriteString("   A. Option\n   B. Option\n   C. Option\n   D. Option\n\n...\n\n")
	sb.WriteString("## Answer Key\n1. C - brief rationale\n...\n")
	return sb.String()
}

// Lecture asks for a structured Markdown lecture on the input.
func Lecture(topicOrText string, difficulty Difficulty) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", SystemPreamble())
	sb.WriteString("TASK: Generate a well-structured lecture in Markdown for the given input. Assume the audience is university students.\n\n")
	sb.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- Target difficulty: %s\n", difficulty.capitalized())
	sb.WriteString("- Use clear section headings (##) and subheadings (###)\n")
	sb.WriteString("- Include learning objectives, key concepts, examples, and a brief summary\n")
	sb.WriteString("- Where relevant, include short code snippets (fenced with language)\n")
	sb.WriteString("- Keep it factual and actionable for instructors to use directly in class\n\n")
	fmt.Fprintf(&sb, "INPUT:\n%s\n\n", strings.TrimSpace(topicOrText))
	sb.WriteString("OUTPUT FORMAT (Markdown):\n")
	sb.WriteString("# Title\n\n## Learning Objectives\n- objective 1\n- objective 2\n\n")
	sb.WriteString("## Key Concepts\n- concept 1\n- concept 2\n\n")
	sb.WriteString("## Explanations and Examples\n### Concept A\nExplanation...\n\n")
	sb.WriteString("```python\n# minimal example if applicable\n```\n\n### Concept B\nExplanation...\n\n")
	sb.WriteString("## Common Pitfalls\n- pitfall 1 and how to avoid\n\n## Summary\nKey takeaways...\n")
	return sb.String()
}

// Slides asks for slide-ready content from lecture markdown.
func Slides(markdownContent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", SystemPreamble())
	sb.WriteString("TASK: Convert the provided lecture Markdown into slide-ready content.\n")
	sb.WriteString("RULES:\n")
	sb.WriteString("- Output a sequence of slides, each with a Title line and 3-6 concise bullet points\n")
	sb.WriteString("- No prose paragraphs; bullets only\n")
	sb.WriteString("- Keep bullets short and scannable\n\n")
	fmt.Fprintf(&sb, "INPUT MARKDOWN:\n%s\n\n", strings.TrimSpace(markdownContent))
	sb.WriteString("OUTPUT FORMAT:\nSlide 1: Title text\n- bullet\n- bullet\n\nSlide 2: Title text\n- bullet\n- bullet\n")
	return sb.String()
}

// AdjustAction selects how existing content is reworked.
type AdjustAction string

const (
	Simplify AdjustAction = "simplify"
	Expand   AdjustAction = "expand"
)

// Adjust asks for the content to be simplified or expanded in place.
func Adjust(text string, action AdjustAction) string {
	instruction := "Expand the content by adding helpful explanations, clarifications, and brief examples where useful. Keep Markdown intact."
	if action == Simplify {
		instruction = "Simplify the content while preserving meaning. Use shorter sentences, clearer wording, and keep all important details. Keep Markdown intact."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", SystemPreamble())
	fmt.Fprintf(&sb, "ACTION: %s\n", strings.ToUpper(string(action)))
	fmt.Fprintf(&sb, "INSTRUCTION: %s\n\n", instruction)
	fmt.Fprintf(&sb, "CONTENT:\n%s\n", strings.TrimSpace(text))
	return sb.String()
}

// Grading asks for a suggested grade and concise feedback as JSON.
func Grading(question, answer string, isCode bool) string {
	codeNote := "Focus on conceptual correctness and clarity."
	if isCode {
		codeNote = "Focus on code correctness, common errors, and best practices."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", SystemPreamble())
	sb.WriteString("TASK: Grade a student's response to a university-level CS question and provide concise, constructive feedback.\n\n")
	sb.WriteString("GUIDELINES:\n")
	sb.WriteString("- Output JSON only\n")
	sb.WriteString("- Suggested grade as a percentage (0-100)\n")
	sb.WriteString("- 2-3 sentence feedback\n")
	fmt.Fprintf(&sb, "- %s\n\n", codeNote)
	fmt.Fprintf(&sb, "QUESTION:\n%s\n\n", strings.TrimSpace(question))
	fmt.Fprintf(&sb, "STUDENT_RESPONSE:\n%s\n\n", strings.TrimSpace(answer))
	sb.WriteString("OUTPUT JSON SCHEMA:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"grade\": 0-100,\n")
	sb.WriteString("  \"feedback\": \"string\",\n")
	sb.WriteString("  \"detected_issues\": [\"short issue text\"],\n")
	sb.WriteString("  \"strengths\": [\"short strength text\"]\n")
	sb.WriteString("}\n")
	return sb.String()
}

// Admin builds prompts for administrative templates: reminder emails,
// weekly course summaries, and grading rubrics. Unknown templates fall
// back to the bare system preamble.
func Admin(template string, vars map[string]string) string {
	get := func(key, fallback string) string {
		if v, ok := vars[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	base := SystemPreamble()
	switch template {
	case "reminder_email":
		return fmt.Sprintf("%s\n\nWrite a short, professional reminder email to students.\nContext: %s\nSubject: %s\nDue: %s\n\nOutput format:\nSubject: <subject line>\n\nDear Students,\n<body in 3-5 short sentences>\n\nBest regards,\nInstructor\n",
			base, get("details", ""), get("subject", "Assignment"), get("due", "the due date"))
	case "course_summary":
		return fmt.Sprintf("%s\n\nGenerate a concise course summary for the specified week including key topics and action items.\nWeek: %s\nTopics: %s\nFormat as bullet points.",
			base, get("week", "1"), get("topics", ""))
	case "grading_rubric":
		return fmt.Sprintf("%s\n\nCreate a clear grading rubric table in Markdown with point allocations.\nAssignment: %s\nCriteria: %s\nInclude total 100 points and brief descriptors.",
			base, get("assignment", "Assignment"), get("criteria", "correctness, style, documentation, efficiency"))
	}
	return base
}

// Ideas asks for practical project ideas on a topic.
func Ideas(topic string, level Difficulty, variations bool) string {
	withVariations := "No"
	if variations {
		withVariations = "Yes"
	}
	return fmt.Sprintf("%s\n\nTASK: Propose 5 practical project ideas for a CS course.\nTopic: %s\nLevel: %s\nInclude difficulty variations: %s\n\nFORMAT:\n1) Title - one sentence description; optional variations by difficulty\n2) ...\n",
		SystemPreamble(), strings.TrimSpace(topic), level.capitalized(), withVariations)
}

// Help builds the in-app mentor prompt about the tool's own features.
func Help(question string) string {
	return "You are the in-app mentor for the Educator Assistant.\n" +
		"Answer concisely and provide step-by-step guidance for this tool's features: \n" +
		"Content Generation, Grading & Feedback, Quiz Generator, Admin Tools, Project Ideas, History, and PDF Upload.\n\n" +
		fmt.Sprintf("QUESTION: %s\nANSWER:", strings.TrimSpace(question))
}
