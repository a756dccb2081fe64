package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop(), PreviewRows: 5}
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.POST("/api/report", h.Report)
	r.POST("/api/report/export", h.Export)
	return r
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("calllog", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const sampleCSV = "bot,mobile_number,outcome,contacted,date,recording_url\n" +
	"A,111, Converted ,1,2024-01-01,\n" +
	"A,111,lost,1,2024-01-02,http://x\n"

func TestHealthz(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/report", "calls.csv", sampleCSV))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Report struct {
			Bots    []string `json:"bots"`
			Summary []struct {
				Metric string             `json:"metric"`
				Values map[string]float64 `json:"values"`
			} `json:"summary"`
			RowsIn      int `json:"rows_in"`
			RowsDropped int `json:"rows_dropped"`
		} `json:"report"`
		Preview struct {
			Rows [][]string `json:"rows"`
		} `json:"preview"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Report.Bots) != 1 || resp.Report.Bots[0] != "A" {
		t.Fatalf("expected bots [A], got %v", resp.Report.Bots)
	}
	if resp.Report.RowsIn != 2 || resp.Report.RowsDropped != 0 {
		t.Fatalf("unexpected row accounting: %+v", resp.Report)
	}
	if resp.Report.Summary[0].Metric != "Unique leads" || resp.Report.Summary[0].Values["A"] != 1 {
		t.Fatalf("unexpected first metric row: %+v", resp.Report.Summary[0])
	}
	if len(resp.Preview.Rows) != 2 {
		t.Fatalf("expected 2 preview rows, got %d", len(resp.Preview.Rows))
	}
}

func TestReportEndpointSchemaError(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	csv := "bot,mobile_number,outcome,contacted\nA,1,x,1\n"
	r.ServeHTTP(w, uploadRequest(t, "/api/report", "calls.csv", csv))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "date") || !strings.Contains(body, "recording_url") {
		t.Fatalf("expected both missing columns named, got %s", body)
	}
}

func TestReportEndpointRejectsUnknownExtension(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/report", "calls.txt", sampleCSV))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReportEndpointMissingFile(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReportEndpointValidatesPreview(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/report?preview=1000", "calls.csv", sampleCSV))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range preview, got %d", w.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/report/export", "calls.csv", sampleCSV))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Styled_Call_Report.xlsx") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("expected workbook bytes")
	}
}
