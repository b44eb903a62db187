// Package report renders the exportable productivity report. The document is
// assembled as a pdfcpu create-JSON description (metadata header, summary
// table, line-item table) and rendered with pdfcpu; the source worklist image
// can be appended as a trailing page.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"rvu-tracker/internal/models"
)

// rowsPerPage caps the line-item table so long worklists continue on
// follow-on pages.
const rowsPerPage = 25

type Options struct {
	Meta        models.ReportMeta
	Summary     models.Summary
	Rows        []models.ScannedStudy
	Grouped     bool
	Rate        float64
	GeneratedAt time.Time
}

// Render writes the finished PDF. When sourceImage is non-empty it is
// appended as an additional page.
func Render(w io.Writer, opts Options, sourceImage []byte) error {
	desc, err := createJSON(opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, nil); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if len(sourceImage) == 0 {
		_, err := io.Copy(w, &buf)
		return err
	}

	imp, err := api.Import("form:A4, pos:c, sc:.9 rel", types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to configure image page: %w", err)
	}
	if err := api.ImportImages(bytes.NewReader(buf.Bytes()), w, []io.Reader{bytes.NewReader(sourceImage)}, imp, nil); err != nil {
		return fmt.Errorf("failed to append source image: %w", err)
	}
	return nil
}

// createJSON builds the pdfcpu page description for the report.
func createJSON(opts Options) ([]byte, error) {
	pages := map[string]any{}

	tables := []any{summaryTable(opts)}
	if len(opts.Rows) > 0 {
		tables = append(tables, lineItemTable(opts.Rows[:min(len(opts.Rows), rowsPerPage)], 300))
	}
	pages["1"] = map[string]any{
		"content": map[string]any{
			"text":  headerText(opts),
			"table": tables,
		},
	}

	for i, page := rowsPerPage, 2; i < len(opts.Rows); i, page = i+rowsPerPage, page+1 {
		chunk := opts.Rows[i:min(len(opts.Rows), i+rowsPerPage)]
		pages[strconv.Itoa(page)] = map[string]any{
			"content": map[string]any{
				"table": []any{lineItemTable(chunk, 60)},
			},
		}
	}

	doc := map[string]any{
		"paper":  "A4",
		"origin": "upperLeft",
		"pages":  pages,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report description: %w", err)
	}
	return raw, nil
}

func headerText(opts Options) []any {
	mode := "ungrouped"
	if opts.Grouped {
		mode = "grouped"
	}
	return []any{
		textBox("RVU Productivity Report", 40, 46, "Helvetica-Bold", 18),
		textBox(fmt.Sprintf("Physician: %s", opts.Meta.Physician), 40, 80, "Helvetica", 11),
		textBox(fmt.Sprintf("Group: %s", opts.Meta.Group), 40, 96, "Helvetica", 11),
		textBox(fmt.Sprintf("Hospital: %s", opts.Meta.Hospital), 40, 112, "Helvetica", 11),
		textBox(fmt.Sprintf("Generated: %s  (%s view, rate $%.2f/RVU)",
			opts.GeneratedAt.Format("Jan 2, 2006 15:04"), mode, opts.Rate), 40, 128, "Helvetica", 9),
	}
}

func textBox(value string, x, y float64, font string, size int) map[string]any {
	return map[string]any{
		"value": value,
		"pos":   []float64{x, y},
		"font":  map[string]any{"name": font, "size": size},
	}
}

func summaryTable(opts Options) map[string]any {
	values := [][]string{{
		fmt.Sprintf("%.2f", opts.Summary.TotalRVU),
		fmt.Sprintf("$%.2f", opts.Summary.TotalEarnings),
		strconv.Itoa(opts.Summary.StudyCount),
	}}
	return table(values, []string{"Total RVU", "Est. Earnings", "Studies"}, []int{34, 33, 33}, 160)
}

func lineItemTable(rows []models.ScannedStudy, y float64) map[string]any {
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, []string{
			r.Code,
			r.Name,
			strconv.Itoa(r.Quantity),
			fmt.Sprintf("%.2f", r.RVU),
			fmt.Sprintf("%.2f", r.TotalRVU()),
			fmt.Sprintf("%.0f%%", r.Confidence*100),
		})
	}
	return table(values, []string{"Code", "Procedure", "Qty", "RVU", "Total RVU", "Conf."}, []int{10, 45, 9, 12, 14, 10}, y)
}

func table(values [][]string, header []string, colWidths []int, y float64) map[string]any {
	return map[string]any{
		"pos":        []float64{40, y},
		"width":      515,
		"rows":       len(values),
		"cols":       len(header),
		"colWidths":  colWidths,
		"lheight":    16,
		"grid":       true,
		"font":       map[string]any{"name": "Helvetica", "size": 9},
		"header": map[string]any{
			"values": header,
			"font":   map[string]any{"name": "Helvetica-Bold", "size": 9},
		},
		"values": values,
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
