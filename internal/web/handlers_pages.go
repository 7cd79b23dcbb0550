package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/web/templates"
)

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderUploadPage(w, r, nil, http.StatusOK)
}

// handleUploadPage accepts the upload form and redirects to the new dataset.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.uploadFromRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/datasets/"+sess.ID, http.StatusSeeOther)
}

// handleDatasetPage renders the dashboard for one dataset.
func (s *Server) handleDatasetPage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.renderDataset(w, r, sess, sess.LastRequest, nil)
}

// handleSelectColumnsPage applies the column checkboxes. An invalid
// selection re-renders the page with a warning and the previous selection.
func (s *Server) handleSelectColumnsPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.service.SelectColumns(id, r.PostForm["columns"]); err != nil {
		s.renderDatasetError(w, r, id, chart.Request{}, err)
		return
	}
	http.Redirect(w, r, "/datasets/"+id, http.StatusSeeOther)
}

// handleChartPage draws the requested chart. Warnings and render failures
// re-render the page with the message and no chart.
func (s *Server) handleChartPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err)
		return
	}

	req := chartRequestFromForm(r)
	if _, err := s.service.RenderChart(r.Context(), id, req); err != nil {
		s.renderDatasetError(w, r, id, req, err)
		return
	}
	http.Redirect(w, r, "/datasets/"+id, http.StatusSeeOther)
}

// renderDatasetError shows err on the dataset page, or falls back to the
// upload page when the session itself is gone.
func (s *Server) renderDatasetError(w http.ResponseWriter, r *http.Request, id string, req chart.Request, err error) {
	sess, lookupErr := s.service.Session(id)
	if lookupErr != nil {
		s.respondError(w, r, lookupErr)
		return
	}
	msg := logError(r, err)
	if req.Kind == 0 {
		req = sess.LastRequest
	}
	// The failed request produced no image; do not show an older one beside the message.
	sess.LastChart = nil
	s.renderDatasetStatus(w, r, sess, req, &msg, statusFor(msg))
}

func (s *Server) renderDataset(w http.ResponseWriter, r *http.Request, sess core.Session, req chart.Request, msg *core.UserMessage) {
	s.renderDatasetStatus(w, r, sess, req, msg, http.StatusOK)
}

func (s *Server) renderDatasetStatus(w http.ResponseWriter, r *http.Request, sess core.Session, req chart.Request, msg *core.UserMessage, status int) {
	preview, err := s.service.Preview(sess.ID, parseIntParam(r, "rows", 0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	summaries, err := s.service.Describe(sess.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	page := templates.DatasetPage(templates.DatasetView{
		Session:   sess,
		Preview:   preview,
		Summaries: summaries,
		Numeric:   sess.Original.NumericColumns(),
		Message:   msg,
		Request:   req,
	})
	templ.Handler(page, templ.WithStatus(status), templ.WithErrorHandler(renderFailed)).ServeHTTP(w, r)
}

// handleCloseDatasetPage discards the dataset and returns to the upload form.
func (s *Server) handleCloseDatasetPage(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleExportCSV downloads the working table as processed_data.csv.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportCSV(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeDownload(w, "text/csv; charset=utf-8", "processed_data.csv", data)
}

// handleExportPNG downloads the last rendered chart as chart.png.
func (s *Server) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportChartPNG(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeDownload(w, "image/png", "chart.png", data)
}

// handleHealth reports liveness and upload capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"uploads":  s.service.UploadLimiterStatus(),
	})
}
