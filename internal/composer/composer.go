// Package composer assembles task prompts, injects per-user memory context
// and tone instructions, and runs them against the local model.
package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studymind/studymind/internal/memory"
	"github.com/studymind/studymind/internal/ollama"
	"github.com/studymind/studymind/internal/prompts"
)

// Generator is the interface for raw completions via Ollama.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, opts *ollama.GenerateOptions) (string, error)
}

// MemorySource supplies rendered per-user context and tone preferences.
// Implemented by memory.Manager; nil disables personalization.
type MemorySource interface {
	Context(userID string) string
	Get(userID string) memory.Profile
}

const defaultGenerateTimeout = 120 * time.Second

// Composer runs educator tasks against the local model.
type Composer struct {
	gen     Generator
	model   string
	mem     MemorySource
	timeout time.Duration
}

// New creates a Composer. mem may be nil to disable memory injection;
// timeout <= 0 selects the default.
func New(gen Generator, model string, mem MemorySource, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Composer{gen: gen, model: model, mem: mem, timeout: timeout}
}

// TaskRequest describes one educator task invocation.
type TaskRequest struct {
	UserID string `json:"user_id"`
	Task   string `json:"task"`
	Text   string `json:"text"`

	// Task-specific options.
	Difficulty   string            `json:"difficulty,omitempty"`
	NumQuestions int               `json:"num_questions,omitempty"`
	QuizType     string            `json:"quiz_type,omitempty"`
	Question     string            `json:"question,omitempty"`
	Answer       string            `json:"answer,omitempty"`
	IsCode       bool              `json:"is_code,omitempty"`
	Template     string            `json:"template,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	Variations   bool              `json:"variations,omitempty"`
}

// BuildPrompt maps a task request onto its template. Unrecognized tasks
// fall back to summarization.
func BuildPrompt(req TaskRequest) string {
	difficulty := prompts.ParseDifficulty(req.Difficulty)
	switch req.Task {
	case "summarize":
		return prompts.Summarize(req.Text)
	case "quiz":
		qtype := prompts.ShortAnswer
		if req.QuizType == string(prompts.MultipleChoice) {
			qtype = prompts.MultipleChoice
		}
		return prompts.Quiz(req.Text, difficulty, req.NumQuestions, qtype)
	case "flashcards":
		return prompts.Flashcards(req.Text)
	case "explain":
		return prompts.Explain(req.Text)
	case "grading":
		return prompts.Grading(req.Question, req.Answer, req.IsCode)
	case "lecture":
		return prompts.Lecture(req.Text, difficulty)
	case "slides":
		return prompts.Slides(req.Text)
	case "simplify":
		return prompts.Adjust(req.Text, prompts.Simplify)
	case "expand":
		return prompts.Adjust(req.Text, prompts.Expand)
	case "admin":
		return prompts.Admin(req.Template, req.Variables)
	case "ideas":
		return prompts.Ideas(req.Text, difficulty, req.Variations)
	case "help":
		return prompts.Help(req.Text)
	}
	return prompts.Summarize(req.Text)
}

// personalize prefixes the prompt with the user's rendered memory context
// and tone instruction. Missing user id or empty memory leaves the prompt
// untouched.
func (c *Composer) personalize(userID, prompt string) string {
	if c.mem == nil || userID == "" {
		return prompt
	}

	var sb strings.Builder
	if memCtx := c.mem.Context(userID); memCtx != "" {
		sb.WriteString(memCtx)
	}
	if tone := c.mem.Get(userID).PreferredTone; tone != "" {
		sb.WriteString(memory.ToneInstruction(tone))
	}
	if sb.Len() == 0 {
		return prompt
	}
	sb.WriteString(prompt)
	return sb.String()
}

// RunTask builds the task prompt, personalizes it, and returns the model
// output. For the grading task the structured grade payload is parsed from
// the response as well.
func (c *Composer) RunTask(ctx context.Context, req TaskRequest) (TaskResult, error) {
	prompt := c.personalize(req.UserID, BuildPrompt(req))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output, err := c.gen.Generate(ctx, c.model, prompt, nil)
	if err != nil {
		return TaskResult{}, fmt.Errorf("running task %q: %w", req.Task, err)
	}

	result := TaskResult{Output: output}
	if req.Task == "grading" {
		if grade, ok := parseGrade(output); ok {
			result.Grade = &grade
		}
	}
	return result, nil
}

// Chat runs a conversational turn, with per-user memory context and tone
// prepended the same way tasks get them.
func (c *Composer) Chat(ctx context.Context, userID, message string, history []prompts.HistoryEntry) (string, error) {
	prompt := c.personalize(userID, prompts.Chat(message, history))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output, err := c.gen.Generate(ctx, c.model, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("running chat: %w", err)
	}
	return output, nil
}

// TaskResult holds the model output for a task, plus the parsed grade
// payload for grading tasks when the model produced one.
type TaskResult struct {
	Output string `json:"output"`
	Grade  *Grade `json:"grade,omitempty"`
}
