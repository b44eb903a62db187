package main

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"rvu-tracker/internal/imaging"
	"rvu-tracker/internal/models"
	"rvu-tracker/internal/report"
)

// maxUploadBytes bounds worklist screenshot uploads.
const maxUploadBytes = 16 << 20

type DashboardData struct {
	Summary  models.Summary
	Rows     []models.ScannedStudy
	Grouped  bool
	Meta     models.ReportMeta
	Rate     float64
	Error    string
	HasImage bool
}

type CatalogData struct {
	Procedures []models.Procedure
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	grouped := r.URL.Query().Get("view") == "grouped"
	var rows []models.ScannedStudy
	if grouped {
		rows = s.state.Grouped()
	} else {
		rows = s.state.Studies()
	}

	data := DashboardData{
		Summary:  s.state.Summarize(s.cfg.ConversionRate),
		Rows:     rows,
		Grouped:  grouped,
		Meta:     s.state.Meta(),
		Rate:     s.cfg.ConversionRate,
		Error:    r.URL.Query().Get("err"),
		HasImage: s.sourceImage().Data != nil,
	}
	s.render(w, r, data, "ui/templates/dashboard.html")
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, CatalogData{Procedures: s.catalog.All()}, "ui/templates/catalog.html")
}

// handleScan runs the full pipeline for one uploaded screenshot. Input errors
// bounce back to the dashboard with an inline message; extraction failures
// are absorbed and yield an empty batch.
func (s *server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.redirectWithError(w, r, "upload too large or malformed")
		return
	}

	file, _, err := r.FormFile("worklist")
	if err != nil {
		s.redirectWithError(w, r, "no worklist image attached")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		s.redirectWithError(w, r, "failed to read upload")
		return
	}

	payload, err := imaging.Prepare(raw)
	if err != nil {
		if errors.Is(err, imaging.ErrNotImage) {
			s.redirectWithError(w, r, "that file is not a supported image")
			return
		}
		s.log.Error().Err(err).Msg("image conversion failed")
		s.redirectWithError(w, r, "failed to convert image")
		return
	}
	s.setSourceImage(payload)

	items, err := s.extractor.Extract(r.Context(), payload.MIME, payload.Data, s.catalog.ReferenceList())
	if err != nil {
		s.log.Error().Err(err).Msg("worklist extraction failed")
		items = nil
	}

	studies := s.matcher.MatchBatch(items)
	s.state.AddStudies(r.Context(), studies)
	s.log.Info().
		Int("extracted", len(items)).
		Int("matched", len(studies)).
		Msg("scan processed")

	s.redirectToDashboard(w, r, "")
}

func (s *server) handleDeleteStudy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if id := r.FormValue("id"); id != "" {
		s.state.DeleteStudy(r.Context(), id)
	}
	s.redirectToDashboard(w, r, "")
}

func (s *server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.state.DeleteGroup(r.Context(), r.FormValue("code"), r.FormValue("name"))
	s.redirectToDashboard(w, r, "")
}

func (s *server) handleReportMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.state.SetMeta(r.Context(), models.ReportMeta{
		Physician: r.FormValue("physician"),
		Group:     r.FormValue("group"),
		Hospital:  r.FormValue("hospital"),
	})
	s.redirectToDashboard(w, r, "")
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	grouped := r.URL.Query().Get("view") == "grouped"
	var rows []models.ScannedStudy
	if grouped {
		rows = s.state.Grouped()
	} else {
		rows = s.state.Studies()
	}

	var sourceImage []byte
	if r.URL.Query().Get("image") == "1" {
		sourceImage = s.sourceImage().Data
	}

	opts := report.Options{
		Meta:        s.state.Meta(),
		Summary:     s.state.Summarize(s.cfg.ConversionRate),
		Rows:        rows,
		Grouped:     grouped,
		Rate:        s.cfg.ConversionRate,
		GeneratedAt: time.Now(),
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="rvu-report.pdf"`)
	if err := report.Render(w, opts, sourceImage); err != nil {
		s.log.Error().Err(err).Msg("report rendering failed")
		http.Error(w, "Report Error", http.StatusInternalServerError)
	}
}

func (s *server) handleSourceImage(w http.ResponseWriter, r *http.Request) {
	img := s.sourceImage()
	if img.Data == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", img.MIME)
	w.Write(img.Data)
}

func (s *server) setSourceImage(p imaging.Payload) {
	s.imageMu.Lock()
	s.lastImage = p
	s.imageMu.Unlock()
}

func (s *server) sourceImage() imaging.Payload {
	s.imageMu.RLock()
	defer s.imageMu.RUnlock()
	return s.lastImage
}

func (s *server) redirectToDashboard(w http.ResponseWriter, r *http.Request, errMsg string) {
	target := "/"
	q := url.Values{}
	if view := r.FormValue("view"); view != "" {
		q.Set("view", view)
	} else if view := r.URL.Query().Get("view"); view != "" {
		q.Set("view", view)
	}
	if errMsg != "" {
		q.Set("err", errMsg)
	}
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *server) redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	s.redirectToDashboard(w, r, msg)
}
