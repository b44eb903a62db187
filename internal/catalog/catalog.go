// Package catalog loads the embedded reference procedure list. The catalog is
// the controlled vocabulary that extracted worklist items are reconciled
// against; entries carry the CPT code and RVU weight attached to matches.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"rvu-tracker/internal/models"
)

//go:embed procedures.json
var proceduresJSON []byte

type Catalog struct {
	procs  []models.Procedure
	byCode map[string]models.Procedure
}

// Load parses the embedded procedure list. Order is preserved as the
// deterministic tie-break order for matching.
func Load() (*Catalog, error) {
	var procs []models.Procedure
	if err := json.Unmarshal(proceduresJSON, &procs); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	if len(procs) == 0 {
		return nil, fmt.Errorf("embedded catalog is empty")
	}

	byCode := make(map[string]models.Procedure, len(procs))
	for _, p := range procs {
		if p.Code == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog entry missing code or name: %+v", p)
		}
		byCode[p.Code] = p
	}

	return &Catalog{procs: procs, byCode: byCode}, nil
}

// All returns the catalog entries in stable order.
func (c *Catalog) All() []models.Procedure {
	out := make([]models.Procedure, len(c.procs))
	copy(out, c.procs)
	return out
}

func (c *Catalog) ByCode(code string) (models.Procedure, bool) {
	p, ok := c.byCode[code]
	return p, ok
}

func (c *Catalog) Len() int {
	return len(c.procs)
}

// ReferenceList renders the catalog as the plain-text block embedded in the
// extraction system instruction, one "CODE | NAME" line per entry.
func (c *Catalog) ReferenceList() string {
	var sb strings.Builder
	for _, p := range c.procs {
		sb.WriteString(p.Code)
		sb.WriteString(" | ")
		sb.WriteString(p.Name)
		sb.WriteString("\n")
	}
	return sb.String()
}
