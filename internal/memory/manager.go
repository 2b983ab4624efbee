package memory

import (
	"context"
	"fmt"
)

// InfoExtractor infers a partial profile from a free-form message.
// Implemented by Extractor.
type InfoExtractor interface {
	Extract(ctx context.Context, message string) PartialProfile
}

// Manager orchestrates the memory subsystem: it loads the stored profile,
// extracts new facts from a message, merges them, persists the result, and
// renders context strings for prompt injection.
type Manager struct {
	store     *Store
	extractor InfoExtractor
	clock     Clock
}

// NewManager creates a Manager over the given store and extractor.
func NewManager(store *Store, extractor InfoExtractor) *Manager {
	return &Manager{store: store, extractor: extractor, clock: realClock{}}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store *Store, extractor InfoExtractor, clock Clock) *Manager {
	return &Manager{store: store, extractor: extractor, clock: clock}
}

// ProcessInteraction updates userID's memory from message and returns the
// merged profile. Extraction failures degrade to a no-op merge (the
// interaction count still advances); a failed save is surfaced because it
// represents genuine data loss risk.
func (m *Manager) ProcessInteraction(ctx context.Context, userID, message string) (Profile, error) {
	existing := m.store.Load(userID)
	partial := m.extractor.Extract(ctx, message)
	merged := Merge(existing, partial, m.clock.Now())

	if err := m.store.Save(userID, merged); err != nil {
		return merged, fmt.Errorf("saving memory for %s: %w", userID, err)
	}
	return merged, nil
}

// Get returns the stored profile for userID, zero-valued if none exists.
func (m *Manager) Get(userID string) Profile {
	return m.store.Load(userID)
}

// Context returns the rendered natural-language context for userID, or ""
// when there is nothing to inject.
func (m *Manager) Context(userID string) string {
	return RenderContext(m.store.Load(userID))
}

// SetTone explicitly sets userID's preferred tone. Unlike extracted tones,
// an explicit set is validated strictly against the catalog and rejected
// with ErrUnknownTone before any mutation occurs.
func (m *Manager) SetTone(userID, tone string) (Profile, error) {
	if !ValidTone(tone) {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownTone, tone)
	}

	p := m.store.Load(userID)
	if p.PreferredTone != tone || p.LastUpdated.IsZero() {
		p.PreferredTone = tone
		p.LastUpdated = m.clock.Now()
	}
	if err := m.store.Save(userID, p); err != nil {
		return p, fmt.Errorf("saving memory for %s: %w", userID, err)
	}
	return p, nil
}

// UpdateFields applies a manual partial update to userID's profile using
// the same dedup rules as an interaction merge, without advancing the
// interaction count. A non-empty tone in the update is validated strictly.
func (m *Manager) UpdateFields(userID string, partial PartialProfile) (Profile, error) {
	if partial.PreferredTone != "" && !ValidTone(partial.PreferredTone) {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownTone, partial.PreferredTone)
	}

	p := m.store.Load(userID)
	if applyPartial(&p, partial) || p.LastUpdated.IsZero() {
		p.LastUpdated = m.clock.Now()
	}
	if err := m.store.Save(userID, p); err != nil {
		return p, fmt.Errorf("saving memory for %s: %w", userID, err)
	}
	return p, nil
}

// Clear deletes userID's stored profile. A subsequent load returns the
// empty structure, not an error.
func (m *Manager) Clear(userID string) error {
	if err := m.store.Delete(userID); err != nil {
		return fmt.Errorf("clearing memory for %s: %w", userID, err)
	}
	return nil
}

// UserIDs returns the ids of all users with stored memory.
func (m *Manager) UserIDs() []string {
	return m.store.UserIDs()
}

// Stats summarizes what is stored for userID.
func (m *Manager) Stats(userID string) Stats {
	p := m.store.Load(userID)
	if p.IsEmpty() && p.InteractionCount == 0 && p.LastUpdated.IsZero() {
		return Stats{Exists: false}
	}
	return Stats{
		Exists:           true,
		InteractionCount: p.InteractionCount,
		LastUpdated:      p.LastUpdated,
		TotalSubjects:    len(p.TeachingSubjects),
		TotalGradeLevels: len(p.GradeLevels),
		TotalInterests:   len(p.Interests),
		HasGoals:         len(p.Goals) > 0,
		HasPreferredTone: p.PreferredTone != "",
	}
}
