package web

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// ColumnInfo describes one column of an uploaded table.
type ColumnInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Numeric bool   `json:"numeric"`
}

// DatasetResponse is the API view of a session.
type DatasetResponse struct {
	ID              string         `json:"id"`
	FileName        string         `json:"file_name"`
	Rows            int            `json:"rows"`
	Columns         []ColumnInfo   `json:"columns"`
	NumericColumns  []string       `json:"numeric_columns"`
	SelectedColumns []string       `json:"selected_columns"`
	Preview         [][]string     `json:"preview"`
	HasChart        bool           `json:"has_chart"`
	LastRequest     *chart.Request `json:"last_request,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// SummaryResponse is one describe() column. NaN statistics are null.
type SummaryResponse struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q1     *float64 `json:"25%"`
	Median *float64 `json:"50%"`
	Q3     *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

// BoxResponse carries the box plot statistics.
type BoxResponse struct {
	Q1          float64 `json:"q1"`
	Median      float64 `json:"median"`
	Q3          float64 `json:"q3"`
	IQR         float64 `json:"iqr"`
	LowerFence  float64 `json:"lower_fence"`
	UpperFence  float64 `json:"upper_fence"`
	WhiskerLow  float64 `json:"whisker_low"`
	WhiskerHigh float64 `json:"whisker_high"`
}

// CorrelationResponse is a correlation matrix; undefined cells are null.
type CorrelationResponse struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// ChartResponse describes a rendered chart. The image itself is fetched
// from ImageURL.
type ChartResponse struct {
	Kind        chart.Kind           `json:"kind"`
	Title       string               `json:"title"`
	ImageURL    string               `json:"image_url"`
	Box         *BoxResponse         `json:"box,omitempty"`
	Outliers    [][]string           `json:"outliers,omitempty"`
	Correlation *CorrelationResponse `json:"correlation,omitempty"`
}

// ChartKindResponse lists one chart kind and how many columns it needs.
type ChartKindResponse struct {
	Kind    chart.Kind `json:"kind"`
	Label   string     `json:"label"`
	Columns int        `json:"columns"`
}

// ChartRequest is the body of POST /api/datasets/{id}/chart. Kind is
// parsed leniently so an unknown kind is reported like any other invalid
// selection.
type ChartRequest struct {
	Kind string `json:"kind"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

// SelectColumnsRequest is the body of PUT /api/datasets/{id}/columns.
type SelectColumnsRequest struct {
	Columns []string `json:"columns"`
}

// handleChartKinds lists the supported chart kinds.
func (s *Server) handleChartKinds(w http.ResponseWriter, r *http.Request) {
	kinds := chart.Kinds()
	out := make([]ChartKindResponse, len(kinds))
	for i, k := range kinds {
		out[i] = ChartKindResponse{Kind: k, Label: k.Label(), Columns: int(k.Arity())}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUploadStatus reports upload slot usage.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.UploadLimiterStatus())
}

// handleUploadAPI accepts a multipart upload and returns the new dataset.
func (s *Server) handleUploadAPI(w http.ResponseWriter, r *http.Request) {
	sess, err := s.uploadFromRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/datasets/"+sess.ID)
	s.writeDataset(w, r, sess, http.StatusCreated)
}

// handleGetDataset returns a dataset with its preview.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeDataset(w, r, sess, http.StatusOK)
}

// handleCloseDatasetAPI discards a dataset.
func (s *Server) handleCloseDatasetAPI(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSelectColumnsAPI replaces the column selection.
func (s *Server) handleSelectColumnsAPI(w http.ResponseWriter, r *http.Request) {
	var body SelectColumnsRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.service.SelectColumns(chi.URLParam(r, "id"), body.Columns)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeDataset(w, r, sess, http.StatusOK)
}

// handleDescribe returns describe() statistics for the working table.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.service.Describe(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := make([]SummaryResponse, len(summaries))
	for i, sm := range summaries {
		out[i] = SummaryResponse{
			Column: sm.Column,
			Count:  sm.Count,
			Mean:   nullable(sm.Mean),
			Std:    nullable(sm.Std),
			Min:    nullable(sm.Min),
			Q1:     nullable(sm.Q1),
			Median: nullable(sm.Median),
			Q3:     nullable(sm.Q3),
			Max:    nullable(sm.Max),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleChartAPI renders a chart from a JSON ChartRequest.
func (s *Server) handleChartAPI(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body ChartRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	kind, _ := chart.ParseKind(body.Kind)

	res, err := s.service.RenderChart(r.Context(), id, chart.Request{Kind: kind, X: body.X, Y: body.Y})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chartResponse(id, res))
}

func (s *Server) writeDataset(w http.ResponseWriter, r *http.Request, sess core.Session, status int) {
	preview, err := s.service.Preview(sess.ID, parseIntParam(r, "rows", 0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	names := sess.Original.Names()
	cols := make([]ColumnInfo, len(names))
	for i, name := range names {
		typ, _ := sess.Original.ColumnType(name)
		cols[i] = ColumnInfo{Name: name, Type: typ, Numeric: sess.Original.IsNumeric(name)}
	}

	resp := DatasetResponse{
		ID:              sess.ID,
		FileName:        sess.FileName,
		Rows:            sess.Original.Rows(),
		Columns:         cols,
		NumericColumns:  sess.Original.NumericColumns(),
		SelectedColumns: nonNil(sess.Selected),
		Preview:         preview.Records(),
		HasChart:        sess.LastChart != nil,
		CreatedAt:       sess.CreatedAt,
	}
	if sess.LastChart != nil {
		req := sess.LastRequest
		resp.LastRequest = &req
	}
	writeJSON(w, status, resp)
}

func chartResponse(id string, res *chart.Result) ChartResponse {
	out := ChartResponse{
		Kind:     res.Kind,
		Title:    res.Title,
		ImageURL: "/api/datasets/" + id + "/chart.png",
	}
	if b := res.Box; b != nil {
		out.Box = &BoxResponse{
			Q1:          b.Q1,
			Median:      b.Median,
			Q3:          b.Q3,
			IQR:         b.IQR(),
			LowerFence:  b.LowerFence,
			UpperFence:  b.UpperFence,
			WhiskerLow:  b.WhiskerLow,
			WhiskerHigh: b.WhiskerHigh,
		}
	}
	if res.Outliers != nil {
		out.Outliers = res.Outliers.Records()
	}
	if m := res.Matrix; m != nil {
		out.Correlation = correlationResponse(m)
	}
	return out
}

func correlationResponse(m *dataset.CorrMatrix) *CorrelationResponse {
	values := make([][]*float64, len(m.Columns))
	for i := range m.Columns {
		values[i] = make([]*float64, len(m.Columns))
		for j := range m.Columns {
			values[i][j] = nullable(m.At(i, j))
		}
	}
	return &CorrelationResponse{Columns: m.Columns, Values: values}
}

// decodeJSON reads a JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		logError(r, err)
		respondErrorJSON(w, core.UserMessage{
			Message: "The request body is not valid JSON for this endpoint",
			Action:  "Check the field names and values",
			Code:    "REQ001",
			Detail:  err.Error(),
			Warning: true,
		}, http.StatusBadRequest)
		return false
	}
	return true
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
