package memory

import "fmt"

// Tone is one entry in the fixed response-style catalog.
type Tone struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Instruction string `json:"-"`
}

// DefaultTone is the fallback used when an unrecognized tone name is
// resolved for prompt injection.
const DefaultTone = "professional"

// toneOrder fixes the listing order of the catalog.
var toneOrder = []string{
	"professional",
	"casual",
	"enthusiastic",
	"humorous",
	"concise",
	"encouraging",
	"socratic",
	"storyteller",
}

var tones = map[string]Tone{
	"professional": {
		Name:        "professional",
		Description: "Clear, formal, and structured - perfect for academic settings",
		Instruction: "Respond in a professional, clear, and well-structured manner suitable for academic environments. Use proper terminology and maintain a formal tone.",
	},
	"casual": {
		Name:        "casual",
		Description: "Friendly and conversational - like chatting with a colleague",
		Instruction: "Respond in a friendly, conversational tone as if talking to a colleague over coffee. Keep it approachable and warm while remaining helpful.",
	},
	"enthusiastic": {
		Name:        "enthusiastic",
		Description: "Energetic and motivating - brings excitement to learning",
		Instruction: "Respond with enthusiasm and energy! Use exclamation points, encouraging language, and show genuine excitement about the topic. Make learning feel exciting and achievable!",
	},
	"humorous": {
		Name:        "humorous",
		Description: "Witty and fun - with jokes and personality",
		Instruction: "Respond with wit, humor, and personality. Use analogies, light jokes, and entertaining examples. Make it fun while staying educational. Think of yourself as the cool teacher everyone loves!",
	},
	"concise": {
		Name:        "concise",
		Description: "Brief and to-the-point - no fluff, just facts",
		Instruction: "Respond concisely and directly. Get straight to the point with minimal elaboration. Use bullet points when appropriate and avoid unnecessary details.",
	},
	"encouraging": {
		Name:        "encouraging",
		Description: "Supportive and motivating - builds confidence",
		Instruction: "Respond in a supportive, encouraging manner that builds confidence. Acknowledge challenges, celebrate progress, and maintain a positive, can-do attitude.",
	},
	"socratic": {
		Name:        "socratic",
		Description: "Question-based and thought-provoking - encourages critical thinking",
		Instruction: "Respond by asking thoughtful questions that guide discovery. Encourage critical thinking and self-reflection. Help users arrive at insights themselves.",
	},
	"storyteller": {
		Name:        "storyteller",
		Description: "Narrative-driven with examples and analogies",
		Instruction: "Respond by weaving information into stories, real-world examples, and vivid analogies. Make concepts memorable through narrative and imagery.",
	},
}

// ErrUnknownTone is returned when an explicit tone set names a tone that is
// not in the catalog.
var ErrUnknownTone = fmt.Errorf("unknown tone")

// ValidTone reports whether name is a catalog entry.
func ValidTone(name string) bool {
	_, ok := tones[name]
	return ok
}

// AvailableTones returns the catalog entries in fixed order.
func AvailableTones() []Tone {
	out := make([]Tone, 0, len(toneOrder))
	for _, name := range toneOrder {
		out = append(out, tones[name])
	}
	return out
}

// ToneNames returns the catalog's tone identifiers in fixed order.
func ToneNames() []string {
	out := make([]string, len(toneOrder))
	copy(out, toneOrder)
	return out
}

// ToneDescription returns the human-readable description for a tone, or
// "Unknown tone" for names outside the catalog.
func ToneDescription(name string) string {
	t, ok := tones[name]
	if !ok {
		return "Unknown tone"
	}
	return t.Description
}

// ToneInstruction returns the prompt fragment for a tone, falling back to
// the professional entry for unrecognized names. The returned string is
// empty only if the resolved entry carries no instruction text.
func ToneInstruction(name string) string {
	t, ok := tones[name]
	if !ok {
		t = tones[DefaultTone]
	}
	if t.Instruction == "" {
		return ""
	}
	return "TONE: " + t.Instruction + "\n\n"
}
