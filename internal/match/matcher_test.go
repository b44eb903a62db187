package match

import (
	"testing"

	"github.com/rs/zerolog"

	"rvu-tracker/internal/catalog"
	"rvu-tracker/internal/models"
)

func newMatcher(procs []models.Procedure) *Matcher {
	return New(procs, zerolog.Nop())
}

func TestMatchFullOverlap(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "70450", Name: "CT Head without contrast", RVU: 0.85},
	})

	study, ok := m.Match(models.ExtractedItem{
		Name:         "CT Head",
		OriginalText: "CT Head W/O Contrast",
		Quantity:     1,
		Confidence:   0.95,
	})
	if !ok {
		t.Fatal("Expected match for CT Head W/O Contrast")
	}
	if study.Code != "70450" || study.RVU != 0.85 {
		t.Errorf("Matched wrong entry: %+v", study)
	}
	if study.ID == "" {
		t.Error("Expected generated study ID")
	}
	if study.OriginalText != "CT Head W/O Contrast" {
		t.Errorf("Original text not preserved: %q", study.OriginalText)
	}
}

// A 3-token catalog name needs all 3 tokens shared (min(4,3)=3); 2 shared
// tokens must not match.
func TestMatchThreshold(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "76536", Name: "Ultrasound Thyroid complete"},
	})

	if _, ok := m.Match(models.ExtractedItem{OriginalText: "US Thyroid complete"}); !ok {
		t.Error("Expected match with all 3 tokens shared")
	}
	if _, ok := m.Match(models.ExtractedItem{OriginalText: "US Thyroid"}); ok {
		t.Error("Expected no match with only 2 of 3 tokens shared")
	}
}

// Long catalog names cap the requirement at 4 shared tokens.
func TestMatchThresholdCap(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "74178", Name: "CT Abdomen Pelvis without and with contrast"},
	})

	// 4 of the 6 significant tokens.
	if _, ok := m.Match(models.ExtractedItem{OriginalText: "CT Abdomen Pelvis Contrast"}); !ok {
		t.Error("Expected match with 4 shared tokens against long name")
	}
	if _, ok := m.Match(models.ExtractedItem{OriginalText: "CT Abdomen Pelvis"}); ok {
		t.Error("Expected no match with only 3 shared tokens")
	}
}

func TestMatchTieBreakStableOrder(t *testing.T) {
	procs := []models.Procedure{
		{Code: "FIRST", Name: "CT Head without contrast"},
		{Code: "SECOND", Name: "Head CT contrast without"},
	}
	m := newMatcher(procs)

	for i := 0; i < 10; i++ {
		study, ok := m.Match(models.ExtractedItem{OriginalText: "CT Head W/O Contrast"})
		if !ok {
			t.Fatal("Expected match")
		}
		if study.Code != "FIRST" {
			t.Fatalf("Tie must resolve to earliest catalog entry, got %s", study.Code)
		}
	}
}

func TestMatchFallbackExactStripped(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "70496", Name: "CT Angiography Head"},
	})

	// Token overlap fails (1 of 3) but the extracted name strips to an exact
	// catalog match.
	study, ok := m.Match(models.ExtractedItem{
		Name:         "CT-Angiography: Head",
		OriginalText: "CTA Head",
	})
	if !ok {
		t.Fatal("Expected fallback exact match")
	}
	if study.Code != "70496" {
		t.Errorf("Matched wrong entry: %+v", study)
	}
}

func TestMatchDropsUnmatchable(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "70450", Name: "CT Head without contrast"},
	})

	if _, ok := m.Match(models.ExtractedItem{OriginalText: "Echocardiogram complete"}); ok {
		t.Error("Expected no match for out-of-catalog text")
	}
}

func TestMatchClampsQuantityAndConfidence(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "70450", Name: "CT Head without contrast"},
	})

	study, ok := m.Match(models.ExtractedItem{
		OriginalText: "CT Head without contrast",
		Quantity:     0,
		Confidence:   1.7,
	})
	if !ok {
		t.Fatal("Expected match")
	}
	if study.Quantity != 1 {
		t.Errorf("Expected quantity coerced to 1, got %d", study.Quantity)
	}
	if study.Confidence != 1 {
		t.Errorf("Expected confidence clamped to 1, got %f", study.Confidence)
	}
}

func TestMatchBatchSilentDrop(t *testing.T) {
	m := newMatcher([]models.Procedure{
		{Code: "71046", Name: "XRay Chest 2 views"},
	})

	studies := m.MatchBatch([]models.ExtractedItem{
		{OriginalText: "CXR 2 views"},       // unmatched, dropped
		{OriginalText: "XR Chest 2 views"},  // matched
		{OriginalText: "Barium swallow"},    // unmatched, dropped
	})
	if len(studies) != 1 {
		t.Fatalf("Expected 1 study, got %d: %+v", len(studies), studies)
	}
	if studies[0].Code != "71046" {
		t.Errorf("Matched wrong entry: %+v", studies[0])
	}
}

func TestMatchAgainstEmbeddedCatalog(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("Catalog load failed: %v", err)
	}
	m := newMatcher(c.All())

	cases := map[string]string{
		"CT Head W/O Contrast":       "70450",
		"CT Abd/Pelv w contrast":     "74177",
		"MR Brain without contrast":  "70551",
		"US Abd complete":            "76700",
		"X-Ray Chest 2 views":        "71046",
		"Mammo Screening bilat":      "77067",
	}
	for text, wantCode := range cases {
		study, ok := m.Match(models.ExtractedItem{OriginalText: text})
		if !ok {
			t.Errorf("Expected match for %q", text)
			continue
		}
		if study.Code != wantCode {
			t.Errorf("%q matched %s, want %s", text, study.Code, wantCode)
		}
	}
}
