package match

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rvu-tracker/internal/models"
)

// maxThreshold caps the required overlap for long catalog names: a candidate
// needs min(maxThreshold, entry token count) shared tokens to match.
const maxThreshold = 4

type entry struct {
	proc      models.Procedure
	tokens    map[string]struct{}
	threshold int
}

// Matcher scores extracted worklist items against the catalog. Entries keep
// catalog order, so equal scores resolve to the earliest entry.
type Matcher struct {
	entries    []entry
	byStripped map[string]int
	log        zerolog.Logger
}

func New(procs []models.Procedure, logger zerolog.Logger) *Matcher {
	m := &Matcher{
		entries:    make([]entry, 0, len(procs)),
		byStripped: make(map[string]int, len(procs)),
		log:        logger,
	}
	for i, p := range procs {
		tokens := TokenSet(p.Name)
		threshold := len(tokens)
		if threshold > maxThreshold {
			threshold = maxThreshold
		}
		m.entries = append(m.entries, entry{proc: p, tokens: tokens, threshold: threshold})
		if stripped := Strip(p.Name); stripped != "" {
			if _, dup := m.byStripped[stripped]; !dup {
				m.byStripped[stripped] = i
			}
		}
	}
	return m
}

// Match reconciles one extracted item against the catalog. The second return
// is false when no catalog entry qualifies; such items are dropped by the
// caller.
func (m *Matcher) Match(item models.ExtractedItem) (models.ScannedStudy, bool) {
	source := item.OriginalText
	if strings.TrimSpace(source) == "" {
		source = item.Name
	}
	tokens := TokenSet(source)

	best, bestScore := -1, 0
	for i := range m.entries {
		score := overlap(tokens, m.entries[i].tokens)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore >= m.entries[best].threshold {
		return m.study(item, m.entries[best].proc), true
	}

	// Fallback: exact match on the fully stripped alphanumeric name.
	for _, s := range []string{Strip(item.Name), Strip(item.OriginalText)} {
		if s == "" {
			continue
		}
		if i, ok := m.byStripped[s]; ok {
			return m.study(item, m.entries[i].proc), true
		}
	}

	return models.ScannedStudy{}, false
}

// MatchBatch matches every item, silently dropping the unmatched ones.
func (m *Matcher) MatchBatch(items []models.ExtractedItem) []models.ScannedStudy {
	studies := make([]models.ScannedStudy, 0, len(items))
	for _, item := range items {
		study, ok := m.Match(item)
		if !ok {
			m.log.Debug().
				Str("name", item.Name).
				Str("original_text", item.OriginalText).
				Msg("dropping extracted item with no catalog match")
			continue
		}
		studies = append(studies, study)
	}
	return studies
}

func (m *Matcher) study(item models.ExtractedItem, proc models.Procedure) models.ScannedStudy {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	conf := item.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}
	return models.ScannedStudy{
		ID:           uuid.NewString(),
		Code:         proc.Code,
		Name:         proc.Name,
		RVU:          proc.RVU,
		Quantity:     qty,
		Confidence:   conf,
		OriginalText: item.OriginalText,
	}
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
