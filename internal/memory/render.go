package memory

import (
	"fmt"
	"strings"
)

// RenderContext turns a profile into a natural-language paragraph for
// injection into downstream prompts. It returns "" when every list field
// is empty (a lone preferred tone is not enough context to summarize);
// callers must treat "" as "no context to inject", not an error.
func RenderContext(p Profile) string {
	if len(p.TeachingSubjects) == 0 && len(p.GradeLevels) == 0 &&
		len(p.TeachingStyle) == 0 && len(p.Interests) == 0 && len(p.Goals) == 0 {
		return ""
	}

	var parts []string

	subjects := strings.Join(p.TeachingSubjects, ", ")
	grades := strings.Join(p.GradeLevels, ", ")
	switch {
	case subjects != "" && grades != "":
		parts = append(parts, fmt.Sprintf("This teacher teaches %s to %s students", subjects, grades))
	case subjects != "":
		parts = append(parts, fmt.Sprintf("This teacher teaches %s", subjects))
	case grades != "":
		parts = append(parts, fmt.Sprintf("This teacher works with %s students", grades))
	}

	if len(p.TeachingStyle) > 0 {
		parts = append(parts, fmt.Sprintf("prefers %s teaching approaches", strings.Join(p.TeachingStyle, ", ")))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("is interested in %s", strings.Join(p.Interests, ", ")))
	}
	if len(p.Goals) > 0 {
		parts = append(parts, fmt.Sprintf("Current goals: %s", strings.Join(p.Goals, ", ")))
	}
	if p.PreferredTone != "" {
		parts = append(parts, fmt.Sprintf("Prefers communication that is %s", p.PreferredTone))
	}

	if len(parts) == 0 {
		return ""
	}
	return "EDUCATOR CONTEXT: " + strings.Join(parts, ". ") + ".\n\n"
}
