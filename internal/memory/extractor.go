package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studymind/studymind/internal/ollama"
)

const (
	// minExtractionLength is the shortest message worth a model round trip.
	minExtractionLength = 10

	defaultExtractionTimeout = 30 * time.Second

	// extractionTemperature keeps the model's JSON output consistent.
	extractionTemperature = 0.2
)

// TextGenerator is the interface for raw completions via Ollama.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string, opts *ollama.GenerateOptions) (string, error)
}

// Extractor uses a local LLM to infer structured educator facts from
// free-form messages.
type Extractor struct {
	client  TextGenerator
	model   string
	timeout time.Duration
}

// NewExtractor creates an Extractor using the given client and model name.
func NewExtractor(client TextGenerator, model string) *Extractor {
	return &Extractor{client: client, model: model, timeout: defaultExtractionTimeout}
}

// NewExtractorWithTimeout creates an Extractor with a custom per-call timeout.
func NewExtractorWithTimeout(client TextGenerator, model string, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = defaultExtractionTimeout
	}
	return &Extractor{client: client, model: model, timeout: timeout}
}

// Extract infers a partial profile from message. Messages shorter than ten
// characters skip the model call entirely. On any failure (timeout,
// malformed JSON, transport error) it returns an empty partial; extraction
// failure is never fatal to the caller's flow.
func (e *Extractor) Extract(ctx context.Context, message string) PartialProfile {
	if len(strings.TrimSpace(message)) < minExtractionLength {
		return PartialProfile{}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.Generate(ctx, e.model, extractionPrompt(message), &ollama.GenerateOptions{
		Temperature: extractionTemperature,
	})
	if err != nil {
		slog.Warn("memory extraction call failed", "error", err)
		return PartialProfile{}
	}

	obj, ok := firstJSONObject(raw)
	if !ok {
		slog.Warn("no JSON object in extraction response", "response", raw)
		return PartialProfile{}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		slog.Warn("failed to unmarshal extraction response", "error", err)
		return PartialProfile{}
	}

	return validateExtraction(fields)
}

// extractionPrompt builds the fixed instructional template asking for
// strict JSON output.
func extractionPrompt(message string) string {
	toneOptions := strings.Join(ToneNames(), ", ")
	return fmt.Sprintf(`Analyze this teacher's message and extract relevant information about them.
Return ONLY a valid JSON object with these fields (use empty arrays if nothing found):
- teaching_subjects: list of subjects they teach (e.g., ["biology", "chemistry"])
- grade_levels: list of grade levels or age groups (e.g., ["9th grade", "high school"])
- teaching_style: list of teaching approaches (e.g., ["project-based", "hands-on", "inquiry-based"])
- interests: list of educational interests or focuses (e.g., ["STEM education", "technology integration"])
- goals: list of current goals or challenges (e.g., ["improve engagement", "integrate more technology"])
- preferred_tone: if the teacher expresses a preference for how they want responses (e.g., "casual", "professional", "humorous"), choose ONE from these options: %s. Leave empty if not mentioned.

Important: Only extract information that is explicitly mentioned or clearly implied. Don't make assumptions.

Examples of tone preferences:
- "Can you be more casual?" -> "casual"
- "I prefer a professional approach" -> "professional"
- "Make it fun and witty" -> "humorous"
- "Keep it brief" -> "concise"

Teacher's message: "%s"

Respond with ONLY valid JSON, no explanation or additional text:`, toneOptions, message)
}

// validateExtraction converts raw parsed JSON into a PartialProfile,
// treating the model's output as untrusted: list fields are coerced to
// trimmed, non-empty, case-insensitively unique strings, and any field
// that fails validation defaults to empty. Extracted tones are checked
// against the catalog; unrecognized names are dropped.
func validateExtraction(fields map[string]json.RawMessage) PartialProfile {
	var p PartialProfile
	p.TeachingSubjects = coerceStringList(fields["teaching_subjects"])
	p.GradeLevels = coerceStringList(fields["grade_levels"])
	p.TeachingStyle = coerceStringList(fields["teaching_style"])
	p.Interests = coerceStringList(fields["interests"])
	p.Goals = coerceStringList(fields["goals"])

	var tone string
	if raw, ok := fields["preferred_tone"]; ok {
		if err := json.Unmarshal(raw, &tone); err != nil {
			tone = ""
		}
	}
	tone = strings.ToLower(strings.TrimSpace(tone))
	if tone != "" && !ValidTone(tone) {
		slog.Debug("dropping extracted tone outside catalog", "tone", tone)
		tone = ""
	}
	p.PreferredTone = tone
	return p
}

// coerceStringList parses raw as a list of strings, dropping empty entries
// and case-insensitive duplicates while keeping first-seen casing and order.
// Anything that is not a JSON array of strings yields nil.
func coerceStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, item)
	}
	return out
}

// firstJSONObject returns the first balanced top-level {...} span in s,
// tolerating prose the model may emit around it.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
