package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"rvu-tracker/internal/catalog"
	"rvu-tracker/internal/extraction"
	"rvu-tracker/internal/match"
	"rvu-tracker/internal/state"
	"rvu-tracker/internal/store"
)

func searchServer(t *testing.T) *server {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	logger := zerolog.Nop()
	return &server{
		cfg:       Config{ConversionRate: defaultConversionRate},
		log:       logger,
		catalog:   cat,
		matcher:   match.New(cat.All(), logger),
		extractor: extraction.Disabled{},
		state:     state.New(store.NewMemoryStore(), logger),
	}
}

func searchRequest(t *testing.T, query string) *http.Request {
	t.Helper()
	signals := map[string]string{"catalogSearch": query}
	signalsJSON, _ := json.Marshal(signals)
	q := url.Values{}
	q.Set("datastar", string(signalsJSON))

	req, err := http.NewRequest("GET", "/api/catalog/search?"+q.Encode(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestHandleCatalogSearch_Substring(t *testing.T) {
	srv := searchServer(t)

	rr := httptest.NewRecorder()
	srv.handleCatalogSearch(rr, searchRequest(t, "mammogram"))

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Mammogram Screening bilateral") {
		t.Errorf("expected mammogram entries in results, got: %s", body)
	}
	if strings.Contains(body, "CT Head") {
		t.Errorf("unrelated entries leaked into results: %s", body)
	}
}

func TestHandleCatalogSearch_FuzzyCode(t *testing.T) {
	srv := searchServer(t)

	// One character off a real code still finds it by edit distance.
	rr := httptest.NewRecorder()
	srv.handleCatalogSearch(rr, searchRequest(t, "70451"))

	if !strings.Contains(rr.Body.String(), "70450") {
		t.Errorf("expected fuzzy code match for 70451, got: %s", rr.Body.String())
	}
}

func TestHandleCatalogSearch_NoResults(t *testing.T) {
	srv := searchServer(t)

	rr := httptest.NewRecorder()
	srv.handleCatalogSearch(rr, searchRequest(t, "zzzzzzzzzzzzzzzz"))

	if !strings.Contains(rr.Body.String(), "No matching procedures") {
		t.Errorf("expected empty-state row, got: %s", rr.Body.String())
	}
}

func TestHandleCatalogSearch_EmptyQueryLimited(t *testing.T) {
	srv := searchServer(t)

	rr := httptest.NewRecorder()
	srv.handleCatalogSearch(rr, searchRequest(t, ""))

	// The full catalog is larger than the page; results cap at 15 rows.
	if got := strings.Count(rr.Body.String(), "<tr>"); got != 15 {
		t.Errorf("expected 15 rows for empty query, got %d", got)
	}
}
