package store

import (
	"context"
	"path/filepath"
	"testing"

	"rvu-tracker/internal/models"
)

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)
	ctx := context.Background()

	snap := Snapshot{
		Studies: []models.ScannedStudy{
			{ID: "a", Code: "70450", Name: "CT Head without contrast", RVU: 0.85, Quantity: 2, Confidence: 0.9, OriginalText: "CT Head W/O"},
		},
		Meta: models.ReportMeta{Physician: "Dr. Reed", Group: "Radiology Partners", Hospital: "General"},
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Studies) != 1 || got.Studies[0] != snap.Studies[0] {
		t.Errorf("Studies mismatch: %+v", got.Studies)
	}
	if got.Meta != snap.Meta {
		t.Errorf("Meta mismatch: %+v", got.Meta)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Missing snapshot must load as empty, got error: %v", err)
	}
	if len(snap.Studies) != 0 || snap.Meta != (models.ReportMeta{}) {
		t.Errorf("Expected empty snapshot, got %+v", snap)
	}
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	snap := Snapshot{Meta: models.ReportMeta{Physician: "Dr. Okafor"}}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Meta.Physician != "Dr. Okafor" {
		t.Errorf("Meta mismatch: %+v", got.Meta)
	}
}
