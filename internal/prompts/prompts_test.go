package prompts

import (
	"strings"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
	}{
		{"beginner", Beginner},
		{"Advanced", Advanced},
		{" ADVANCED ", Advanced},
		{"intermediate", Intermediate},
		{"", Intermediate},
		{"expert", Intermediate},
	}
	for _, tt := range tests {
		if got := ParseDifficulty(tt.in); got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuiz(t *testing.T) {
	got := Quiz("binary search trees", Advanced, 8, MultipleChoice)
	for _, want := range []string{
		"Generate 8 Multiple Choice questions",
		"Difficulty: Advanced",
		"binary search trees",
		"Answer Key",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Quiz prompt missing %q", want)
		}
	}
}

func TestQuiz_DefaultsQuestionCount(t *testing.T) {
	got := Quiz("recursion", Beginner, 0, ShortAnswer)
	if !strings.Contains(got, "Generate 5 Short Answer questions") {
		t.Errorf("Quiz with zero count did not default to 5:\n%s", got)
	}
}

func TestGrading(t *testing.T) {
	got := Grading("Explain mitosis.", "Cells divide.", false)
	for _, want := range []string{
		"QUESTION:\nExplain mitosis.",
		"STUDENT_RESPONSE:\nCells divide.",
		`"grade": 0-100`,
		"conceptual correctness",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Grading prompt missing %q", want)
		}
	}

	code := Grading("Write a loop.", "for {}", true)
	if !strings.Contains(code, "code correctness") {
		t.Error("code grading prompt missing code-focused note")
	}
}

func TestAdmin(t *testing.T) {
	got := Admin("reminder_email", map[string]string{
		"subject": "Lab 3",
		"due":     "Friday",
		"details": "Submit via the portal",
	})
	for _, want := range []string{"reminder email", "Lab 3", "Friday", "Submit via the portal"} {
		if !strings.Contains(got, want) {
			t.Errorf("reminder_email prompt missing %q", want)
		}
	}

	// Missing variables fall back to defaults.
	got = Admin("grading_rubric", nil)
	if !strings.Contains(got, "correctness, style, documentation, efficiency") {
		t.Error("grading_rubric prompt missing default criteria")
	}

	// Unknown templates degrade to the bare preamble.
	if got := Admin("holiday_party", nil); got != SystemPreamble() {
		t.Errorf("unknown template = %q, want bare preamble", got)
	}
}

func TestChat_PlainMessage(t *testing.T) {
	got := Chat("what is a closure?", nil)
	if !strings.Contains(got, "STUDENT MESSAGE: what is a closure?") {
		t.Errorf("chat prompt missing message:\n%s", got)
	}
	if strings.Contains(got, "CONVERSATION HISTORY") {
		t.Error("chat prompt has history section without history")
	}
	if strings.Contains(got, "FILE CONTENT") {
		t.Error("plain message routed to file-analysis prompt")
	}
}

func TestChat_HistoryWindowAndTruncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	history := []HistoryEntry{
		{Role: "user", Content: "oldest turn"},
		{Role: "assistant", Content: "second turn"},
		{Role: "user", Content: "third turn"},
		{Role: "assistant", Content: long},
	}
	got := Chat("next question", history)

	if strings.Contains(got, "oldest turn") {
		t.Error("history window did not drop the oldest turn")
	}
	for _, want := range []string{"second turn", "third turn"} {
		if !strings.Contains(got, want) {
			t.Errorf("chat prompt missing recent turn %q", want)
		}
	}
	if strings.Contains(got, long) {
		t.Error("long history entry not truncated")
	}
	if !strings.Contains(got, "ASSISTANT: "+long[:200]+"...") {
		t.Error("truncated entry missing 200-char prefix")
	}
}

func TestChat_FileUpload(t *testing.T) {
	msg := "File: notes.pdf\nExtracted content:\nMitosis has four phases."
	got := Chat(msg, nil)
	if !strings.Contains(got, "FILE CONTENT AND USER REQUEST:") {
		t.Errorf("file upload not detected:\n%s", got)
	}
	if !strings.Contains(got, "Mitosis has four phases.") {
		t.Error("file content missing from prompt")
	}
}
