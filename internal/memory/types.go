// Package memory manages persisted per-educator context: it extracts
// teaching preferences from free-form messages with a local LLM, merges
// them into a stored profile, and renders the profile back into a
// natural-language context string for prompt injection.
package memory

import "time"

// Profile is the persisted record of an educator's inferred preferences.
// Each list field preserves insertion order and never contains two entries
// that are equal case-insensitively.
type Profile struct {
	TeachingSubjects []string  `json:"teaching_subjects"`
	GradeLevels      []string  `json:"grade_levels"`
	TeachingStyle    []string  `json:"teaching_style"`
	Interests        []string  `json:"interests"`
	Goals            []string  `json:"goals"`
	PreferredTone    string    `json:"preferred_tone"`
	LastUpdated      time.Time `json:"last_updated,omitzero"`
	InteractionCount int       `json:"interaction_count"`
}

// IsEmpty reports whether no summarizable field holds any value.
func (p Profile) IsEmpty() bool {
	return len(p.TeachingSubjects) == 0 &&
		len(p.GradeLevels) == 0 &&
		len(p.TeachingStyle) == 0 &&
		len(p.Interests) == 0 &&
		len(p.Goals) == 0 &&
		p.PreferredTone == ""
}

// PartialProfile is an incomplete profile fragment, produced by one
// extraction call or supplied as a manual update, to be merged into the
// stored profile.
type PartialProfile struct {
	TeachingSubjects []string `json:"teaching_subjects"`
	GradeLevels      []string `json:"grade_levels"`
	TeachingStyle    []string `json:"teaching_style"`
	Interests        []string `json:"interests"`
	Goals            []string `json:"goals"`
	PreferredTone    string   `json:"preferred_tone"`
}

// IsEmpty reports whether the partial carries no values at all.
func (p PartialProfile) IsEmpty() bool {
	return len(p.TeachingSubjects) == 0 &&
		len(p.GradeLevels) == 0 &&
		len(p.TeachingStyle) == 0 &&
		len(p.Interests) == 0 &&
		len(p.Goals) == 0 &&
		p.PreferredTone == ""
}

// Stats summarizes a stored profile for status displays.
type Stats struct {
	Exists           bool      `json:"exists"`
	InteractionCount int       `json:"interaction_count,omitempty"`
	LastUpdated      time.Time `json:"last_updated,omitzero"`
	TotalSubjects    int       `json:"total_subjects,omitempty"`
	TotalGradeLevels int       `json:"total_grade_levels,omitempty"`
	TotalInterests   int       `json:"total_interests,omitempty"`
	HasGoals         bool      `json:"has_goals,omitempty"`
	HasPreferredTone bool      `json:"has_preferred_tone,omitempty"`
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
