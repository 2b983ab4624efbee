package composer

import (
	"encoding/json"
	"strings"
)

// Grade is the structured payload the grading prompt asks the model to emit.
type Grade struct {
	Grade          float64  `json:"grade"`
	Feedback       string   `json:"feedback"`
	DetectedIssues []string `json:"detected_issues,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
}

// parseGrade scans the model output for a JSON object and decodes it as a
// Grade. The model sometimes wraps the JSON in prose or code fences, so the
// span between the first '{' and the last '}' is taken. A missing or
// malformed payload is not an error; the caller falls back to raw output.
func parseGrade(output string) (Grade, bool) {
	start := strings.IndexByte(output, '{')
	end := strings.LastIndexByte(output, '}')
	if start < 0 || end <= start {
		return Grade{}, false
	}

	var g Grade
	if err := json.Unmarshal([]byte(output[start:end+1]), &g); err != nil {
		return Grade{}, false
	}
	return g, true
}
