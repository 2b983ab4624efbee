package memory

import (
	"strings"
	"time"
)

// Merge combines a freshly extracted partial into an existing profile.
//
// For each list field, entries from partial whose lowercased form is not
// already present are appended in partial's order; existing order is never
// disturbed and original casing is kept. The preferred tone is overwritten
// only by a non-empty value different from the current one. LastUpdated is
// refreshed iff any field changed or the profile had no prior timestamp.
// InteractionCount increments unconditionally: it counts interactions
// processed, not content deltas.
func Merge(existing Profile, partial PartialProfile, now time.Time) Profile {
	merged := existing
	changed := applyPartial(&merged, partial)

	if changed || merged.LastUpdated.IsZero() {
		merged.LastUpdated = now
	}
	merged.InteractionCount++
	return merged
}

// applyPartial applies partial's fields to p in place and reports whether
// anything changed. Shared by interaction merges and manual updates.
func applyPartial(p *Profile, partial PartialProfile) bool {
	changed := false

	fields := []struct {
		dst *[]string
		src []string
	}{
		{&p.TeachingSubjects, partial.TeachingSubjects},
		{&p.GradeLevels, partial.GradeLevels},
		{&p.TeachingStyle, partial.TeachingStyle},
		{&p.Interests, partial.Interests},
		{&p.Goals, partial.Goals},
	}
	for _, f := range fields {
		if appendUnique(f.dst, f.src) {
			changed = true
		}
	}

	if partial.PreferredTone != "" && partial.PreferredTone != p.PreferredTone {
		p.PreferredTone = partial.PreferredTone
		changed = true
	}
	return changed
}

// appendUnique appends entries from src not already in dst when compared
// case-insensitively, reporting whether dst grew. dst is copied before the
// first append so callers sharing the original slice are not affected.
func appendUnique(dst *[]string, src []string) bool {
	if len(src) == 0 {
		return false
	}

	seen := make(map[string]struct{}, len(*dst)+len(src))
	for _, item := range *dst {
		seen[strings.ToLower(item)] = struct{}{}
	}

	grew := false
	out := *dst
	for _, item := range src {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		if _, dup := seen[lower]; dup {
			continue
		}
		if !grew {
			out = append([]string(nil), *dst...)
		}
		out = append(out, item)
		seen[lower] = struct{}{}
		grew = true
	}
	if grew {
		*dst = out
	}
	return grew
}
