package main

import (
	"fmt"
	"html"
	"net/http"
	"slices"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

type CatalogSearchSignals struct {
	CatalogSearch string `json:"catalogSearch"`
}

// Levenshtein calculates the Levenshtein distance between two strings.
func Levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	n, m := len(r1), len(r2)
	if n > m {
		r1, r2 = r2, r1
		n, m = m, n
	}

	currentRow := make([]int, n+1)
	for i := 0; i <= n; i++ {
		currentRow[i] = i
	}

	for i := 1; i <= m; i++ {
		previousRow := currentRow
		currentRow = make([]int, n+1)
		currentRow[0] = i
		for j := 1; j <= n; j++ {
			add, del, change := previousRow[j]+1, currentRow[j-1]+1, previousRow[j-1]
			if r1[j-1] != r2[i-1] {
				change++
			}
			currentRow[j] = min(add, min(del, change))
		}
	}
	return currentRow[n]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// handleCatalogSearch drives the live filter on the catalog page. Contained
// substrings rank first, near misses by edit distance after.
func (s *server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	signals := &CatalogSearchSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := strings.ToLower(strings.TrimSpace(signals.CatalogSearch))

	type ScoredProcedure struct {
		Code  string
		Name  string
		RVU   float64
		Score int
	}

	var results []ScoredProcedure
	for _, p := range s.catalog.All() {
		if query == "" {
			results = append(results, ScoredProcedure{Code: p.Code, Name: p.Name, RVU: p.RVU, Score: 0})
			continue
		}

		name := strings.ToLower(p.Name)
		code := strings.ToLower(p.Code)

		score := 1000
		if strings.Contains(name, query) || strings.Contains(code, query) {
			score = 0
		} else {
			dist := min(Levenshtein(query, name), Levenshtein(query, code))
			if dist < 5 {
				score = dist
			}
		}

		if score < 1000 {
			results = append(results, ScoredProcedure{Code: p.Code, Name: p.Name, RVU: p.RVU, Score: score})
		}
	}

	slices.SortFunc(results, func(a, b ScoredProcedure) int {
		return a.Score - b.Score
	})

	if len(results) > 15 {
		results = results[:15]
	}

	var sb strings.Builder
	sb.WriteString(`<tbody id="catalog-results">`)
	for _, res := range results {
		sb.WriteString(fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%s</td>
				<td class="num">%.2f</td>
			</tr>`, html.EscapeString(res.Code), html.EscapeString(res.Name), res.RVU))
	}
	if len(results) == 0 {
		sb.WriteString(`<tr><td colspan="3" class="empty">No matching procedures</td></tr>`)
	}
	sb.WriteString(`</tbody>`)

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(sb.String())
}
