// Package state owns the in-memory session state: the scanned study list and
// the report metadata. All mutation goes through the container, and every
// mutation triggers a best-effort save through the store; rendering never
// talks to storage directly.
package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"rvu-tracker/internal/models"
	"rvu-tracker/internal/store"
)

type Container struct {
	mu      sync.RWMutex
	studies []models.ScannedStudy
	meta    models.ReportMeta
	store   store.Store
	log     zerolog.Logger
}

func New(st store.Store, logger zerolog.Logger) *Container {
	return &Container{store: st, log: logger}
}

// Restore loads the persisted snapshot, if any. A load failure starts the
// session empty; it is logged, not fatal.
func (c *Container) Restore(ctx context.Context) {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to restore persisted state, starting empty")
		return
	}
	c.mu.Lock()
	c.studies = snap.Studies
	c.meta = snap.Meta
	c.mu.Unlock()
}

// AddStudies appends a matched batch.
func (c *Container) AddStudies(ctx context.Context, batch []models.ScannedStudy) {
	if len(batch) == 0 {
		return
	}
	c.mu.Lock()
	c.studies = append(c.studies, batch...)
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// DeleteStudy removes a single row by identifier (ungrouped mode). It reports
// whether a row was removed.
func (c *Container) DeleteStudy(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.studies {
		if s.ID == id {
			c.studies = append(c.studies[:i], c.studies[i+1:]...)
			c.persistLocked(ctx)
			return true
		}
	}
	return false
}

// DeleteGroup removes every row sharing the code+name key (grouped mode) and
// returns how many rows were removed.
func (c *Container) DeleteGroup(ctx context.Context, code, name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.studies[:0]
	removed := 0
	for _, s := range c.studies {
		if s.Code == code && s.Name == name {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	c.studies = kept
	if removed > 0 {
		c.persistLocked(ctx)
	}
	return removed
}

// Studies returns a copy of the ungrouped list in insertion order.
func (c *Container) Studies() []models.ScannedStudy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ScannedStudy, len(c.studies))
	copy(out, c.studies)
	return out
}

// Grouped returns the list folded by code+name.
func (c *Container) Grouped() []models.ScannedStudy {
	return Group(c.Studies())
}

func (c *Container) Meta() models.ReportMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meta
}

func (c *Container) SetMeta(ctx context.Context, meta models.ReportMeta) {
	c.mu.Lock()
	c.meta = meta
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// Summarize recomputes the aggregate figures at the given RVU conversion
// rate.
func (c *Container) Summarize(rate float64) models.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sum models.Summary
	for _, s := range c.studies {
		sum.TotalRVU += s.TotalRVU()
		sum.StudyCount += s.Quantity
	}
	sum.TotalEarnings = sum.TotalRVU * rate
	return sum
}

// persistLocked snapshots current state to the store. Best-effort: failure is
// logged and the in-memory state stands.
func (c *Container) persistLocked(ctx context.Context) {
	snap := store.Snapshot{
		Studies: make([]models.ScannedStudy, len(c.studies)),
		Meta:    c.meta,
	}
	copy(snap.Studies, c.studies)
	if err := c.store.Save(ctx, snap); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist state")
	}
}

type groupKey struct {
	code string
	name string
}

// Group folds rows by code+name: quantities sum, confidence takes the
// maximum, original text is discarded. Output order follows first appearance,
// but quantity and confidence per key are insertion-order independent.
func Group(studies []models.ScannedStudy) []models.ScannedStudy {
	var out []models.ScannedStudy
	index := make(map[groupKey]int)

	for _, s := range studies {
		key := groupKey{code: s.Code, name: s.Name}
		if i, ok := index[key]; ok {
			out[i].Quantity += s.Quantity
			if s.Confidence > out[i].Confidence {
				out[i].Confidence = s.Confidence
			}
			continue
		}
		index[key] = len(out)
		out = append(out, models.ScannedStudy{
			Code:       s.Code,
			Name:       s.Name,
			RVU:        s.RVU,
			Quantity:   s.Quantity,
			Confidence: s.Confidence,
		})
	}
	return out
}
