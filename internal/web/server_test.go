package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datadash/internal/config"
	"github.com/JonMunkholm/datadash/internal/core"
)

const salesCSV = "label,price,qty\n" +
	"a,1,10\n" +
	"b,2,11\n" +
	"c,100,12\n" +
	"d,3,13\n" +
	"e,4,14\n" +
	"f,5,15\n"

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	base := map[string]string{
		"RATE_LIMIT_ENABLED": "false",
		"CHART_WIDTH":        "320",
		"CHART_HEIGHT":       "240",
	}
	for k, v := range env {
		base[k] = v
	}
	cfg, err := config.LoadFrom(func(key string) (string, bool) {
		v, ok := base[key]
		return v, ok
	})
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, env map[string]string) *Server {
	t.Helper()
	cfg := testConfig(t, env)
	return NewServer(core.NewService(core.OptionsFromConfig(cfg)), cfg)
}

func multipartBody(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadAPI(t *testing.T, s *Server, name, content string) DatasetResponse {
	t.Helper()
	body, ct := multipartBody(t, name, content)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", ct)
	rec := serve(s, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ds DatasetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	return ds
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er), rec.Body.String())
	return er
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthAndIndex(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)
	assert.Contains(t, rec.Body.String(), ".csv, .json, .xlsx")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadPageFlow(t *testing.T) {
	s := newTestServer(t, nil)

	body, ct := multipartBody(t, "sales.csv", salesCSV)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := serve(s, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/datasets/"))

	rec = serve(s, httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "sales.csv")
	assert.Contains(t, page, "6 rows, 3 columns, 2 numeric")
	assert.Contains(t, page, "Descriptive statistics")
	assert.Contains(t, page, "No chart drawn yet.")

	// Chart form posts redirect back on success.
	form := strings.NewReader("kind=box&x=price")
	req = httptest.NewRequest(http.MethodPost, loc+"/chart", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(s, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = serve(s, httptest.NewRequest(http.MethodGet, loc, nil))
	assert.Contains(t, rec.Body.String(), "Outliers")
	assert.Contains(t, rec.Body.String(), "chart.png?v=")

	// An empty selection keeps the page with a warning.
	req = httptest.NewRequest(http.MethodPost, loc+"/columns", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(s, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "SEL001")
	assert.Contains(t, rec.Body.String(), "sales.csv")
}

func TestUploadPageErrors(t *testing.T) {
	s := newTestServer(t, map[string]string{"UPLOAD_MAX_FILE_SIZE": "64"})

	tests := []struct {
		name     string
		file     string
		content  string
		wantCode int
		wantText string
	}{
		{"unsupported format", "notes.txt", "hello", http.StatusUnsupportedMediaType, "LOAD001"},
		{"parse failure", "broken.json", "[1, 2", http.StatusUnprocessableEntity, "LOAD002"},
		{"too large", "big.csv", "a\n" + strings.Repeat("1\n", 100), http.StatusRequestEntityTooLarge, "FILE001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.file, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", ct)
			rec := serve(s, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE004")
}

func TestAPIDatasetLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	ds := uploadAPI(t, s, "sales.csv", salesCSV)
	base := "/api/datasets/" + ds.ID

	assert.Equal(t, 6, ds.Rows)
	assert.Equal(t, []string{"price", "qty"}, ds.NumericColumns)
	assert.Equal(t, []string{"price", "qty"}, ds.SelectedColumns)
	assert.Equal(t, []string{"price", "qty"}, ds.Preview[0])
	assert.Len(t, ds.Preview, 6) // header plus five preview rows
	assert.False(t, ds.HasChart)

	t.Run("chart png before render", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, base+"/chart.png", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "CHART004", decodeError(t, rec).Code)
	})

	t.Run("box plot with outliers", func(t *testing.T) {
		rec := serve(s, jsonRequest(http.MethodPost, base+"/chart", `{"kind":"box","x":"price"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var cr ChartResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cr))
		assert.Equal(t, base+"/chart.png", cr.ImageURL)
		require.NotNil(t, cr.Box)
		assert.Equal(t, [][]string{{"price", "qty"}, {"100", "12"}}, cr.Outliers)

		rec = serve(s, httptest.NewRequest(http.MethodGet, base+"/chart.png", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="chart.png"`)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("unknown kind is a warning", func(t *testing.T) {
		rec := serve(s, jsonRequest(http.MethodPost, base+"/chart", `{"kind":"radar","x":"price"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		er := decodeError(t, rec)
		assert.Equal(t, "CHART003", er.Code)
		assert.True(t, er.Warning)
	})

	t.Run("select columns", func(t *testing.T) {
		rec := serve(s, jsonRequest(http.MethodPut, base+"/columns", `{"columns":[]}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "SEL001", decodeError(t, rec).Code)

		rec = serve(s, jsonRequest(http.MethodPut, base+"/columns", `{"columns":["label"]}`))
		assert.Equal(t, "SEL003", decodeError(t, rec).Code)

		rec = serve(s, jsonRequest(http.MethodPut, base+"/columns", `{"columns":["qty"]}`))
		require.Equal(t, http.StatusOK, rec.Code)
		var got DatasetResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, []string{"qty"}, got.SelectedColumns)
		assert.False(t, got.HasChart)
	})

	t.Run("export csv of working table", func(t *testing.T) {
		rec := serve(s, httptest.NewRequest(http.MethodGet, base+"/processed_data.csv", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="processed_data.csv"`)
		assert.Equal(t, "qty\n10\n11\n12\n13\n14\n15\n", rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(s, jsonRequest(http.MethodPut, base+"/columns", `{"cols":`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "REQ001", decodeError(t, rec).Code)
	})
}

func TestAPIPieTooManyCategories(t *testing.T) {
	s := newTestServer(t, nil)
	var b strings.Builder
	b.WriteString("v\n")
	for i := 0; i < 11; i++ {
		b.WriteString(strings.Repeat("1", i+1) + "\n")
	}
	ds := uploadAPI(t, s, "many.csv", b.String())

	rec := serve(s, jsonRequest(http.MethodPost, "/api/datasets/"+ds.ID+"/chart", `{"kind":"pie","x":"v"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	er := decodeError(t, rec)
	assert.Equal(t, "CHART001", er.Code)
	assert.NotEmpty(t, er.Detail)
}

func TestAPIDescribeNullsNaN(t *testing.T) {
	s := newTestServer(t, nil)
	ds := uploadAPI(t, s, "one.csv", "x\n4\n")

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+ds.ID+"/describe", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"std":null`)
	assert.Contains(t, rec.Body.String(), `"mean":4`)
}

func TestAPICorrelation(t *testing.T) {
	s := newTestServer(t, nil)
	ds := uploadAPI(t, s, "sales.csv", salesCSV)

	rec := serve(s, jsonRequest(http.MethodPost, "/api/datasets/"+ds.ID+"/chart", `{"kind":"correlation_heatmap"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cr ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cr))
	require.NotNil(t, cr.Correlation)
	assert.Equal(t, []string{"price", "qty"}, cr.Correlation.Columns)
	require.NotNil(t, cr.Correlation.Values[0][0])
	assert.InDelta(t, 1.0, *cr.Correlation.Values[0][0], 1e-12)
}

func TestAPISessionNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/datasets/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SES001", decodeError(t, rec).Code)
}

func TestAPIChartKindsAndStatus(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/chart-kinds", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var kinds []ChartKindResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kinds))
	require.Len(t, kinds, 7)
	assert.Equal(t, "Histogram", kinds[0].Label)
	assert.Equal(t, 1, kinds[0].Columns)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/uploads/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"max_concurrent":4`)
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": "secret"})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/chart-kinds", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/chart-kinds", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)

	// Pages are not behind the API key.
	assert.Equal(t, http.StatusOK, serve(s, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestCloseDataset(t *testing.T) {
	s := newTestServer(t, nil)

	ds := uploadAPI(t, s, "sales.csv", salesCSV)
	rec := serve(s, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+ds.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+ds.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SES001", decodeError(t, rec).Code)

	ds = uploadAPI(t, s, "sales.csv", salesCSV)
	page := "/datasets/" + ds.ID
	assert.Contains(t, serve(s, httptest.NewRequest(http.MethodGet, page, nil)).Body.String(), page+"/close")

	rec = serve(s, httptest.NewRequest(http.MethodPost, page+"/close", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = serve(s, httptest.NewRequest(http.MethodGet, page, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SES001")
}

func TestChartFormNamesTwoColumnKinds(t *testing.T) {
	s := newTestServer(t, nil)
	ds := uploadAPI(t, s, "sales.csv", salesCSV)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/datasets/"+ds.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Y column (scatter plot and density heatmap)")
}
