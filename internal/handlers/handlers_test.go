package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/repositories"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error
	inputs []services.AnalysisInput
}

func (f *fakeAnalyzer) Analyze(_ context.Context, input services.AnalysisInput) (*models.AnalysisResult, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type testServer struct {
	app      *fiber.App
	repo     repositories.SessionRepository
	analyzer *fakeAnalyzer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalog, err := services.LoadPromptCatalog()
	require.NoError(t, err)

	repo := repositories.NewSessionRepository()
	analyzer := &fakeAnalyzer{result: &models.AnalysisResult{
		ID:           uuid.New(),
		ModeKey:      services.ModeQuickScan,
		ModeTitle:    "Quick Scan",
		Response:     "Strong match for the role.",
		PageCount:    1,
		DownloadName: "resume_analysis_quick_scan_20240102_150405.txt",
		CreatedAt:    time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
	}}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Handlers{
		Analyze: NewAnalyzeHandler(repo, services.NewStorageService(1024), analyzer, 10),
		Session: NewSessionHandler(repo),
		Result:  NewResultHandler(repo, 5),
		Modes:   NewModesHandler(catalog),
	})

	return &testServer{app: app, repo: repo, analyzer: analyzer}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func analyzeRequest(t *testing.T, sessionID string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"job_description": "Senior Go engineer",
		"mode":            services.ModeQuickScan,
	}
}

func errorBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.SessionResponse
	require.NoError(t, json.Unmarshal(body, &created))
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.ID, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session models.Session
	require.NoError(t, json.Unmarshal(body, &session))
	assert.Equal(t, created.ID, session.ID.String())
	assert.Empty(t, session.History)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+created.ID, nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Zero(t, s.repo.Count())
}

func TestSessionErrors(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, errorBody(t, body)["error"], "session not found")

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid session ID format", errorBody(t, body)["error"])
}

func TestAnalyze_Success(t *testing.T) {
	s := newTestServer(t)
	session := s.repo.Create()

	resp, body := s.do(t, analyzeRequest(t, session.ID.String(), validFields(), "resume.pdf", []byte("%PDF-1.4")))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Saved)
	assert.Equal(t, "Strong match for the role.", out.Result.Response)

	require.Len(t, s.analyzer.inputs, 1)
	input := s.analyzer.inputs[0]
	assert.Equal(t, "Senior Go engineer", input.JobDescription)
	assert.Equal(t, services.ModeQuickScan, input.Mode)
	assert.Equal(t, "resume.pdf", input.Document.Filename)

	stored, err := s.repo.FindByID(session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Current)
	require.Len(t, stored.History, 1)
	assert.Equal(t, "Quick Scan", stored.History[0].ModeTitle)
	assert.Equal(t, "Strong mat...", stored.History[0].Response)
	assert.Equal(t, "2024-01-02 15:04:05", stored.History[0].Timestamp)
}

func TestAnalyze_WithoutSaving(t *testing.T) {
	s := newTestServer(t)
	session := s.repo.Create()

	fields := validFields()
	fields["save_to_history"] = "false"

	resp, body := s.do(t, analyzeRequest(t, session.ID.String(), fields, "resume.pdf", []byte("%PDF-1.4")))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Saved)

	stored, err := s.repo.FindByID(session.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Current)
	assert.Empty(t, stored.History)
}

func TestAnalyze_Validation(t *testing.T) {
	s := newTestServer(t)
	session := s.repo.Create()

	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{"missing job description", map[string]string{"mode": services.ModeQuickScan}, "job_description"},
		{"unknown mode", map[string]string{"job_description": "x", "mode": "deep_dive"}, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, analyzeRequest(t, session.ID.String(), tt.fields, "resume.pdf", []byte("%PDF")))
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, errorBody(t, body)["error"], tt.want)
		})
	}
	assert.Empty(t, s.analyzer.inputs)
}

func TestAnalyze_UploadErrors(t *testing.T) {
	s := newTestServer(t)
	session := s.repo.Create()

	resp, _ := s.do(t, analyzeRequest(t, session.ID.String(), validFields(), "", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := s.do(t, analyzeRequest(t, session.ID.String(), validFields(), "resume.docx", []byte("x")))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorBody(t, body)["error"], "invalid upload")

	resp, _ = s.do(t, analyzeRequest(t, session.ID.String(), validFields(), "resume.pdf", bytes.Repeat([]byte("a"), 2048)))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, s.analyzer.inputs)
}

func TestAnalyze_UnknownSession(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, analyzeRequest(t, uuid.NewString(), validFields(), "resume.pdf", []byte("%PDF")))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAnalyze_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty document", &services.EmptyDocumentError{}, fiber.StatusUnprocessableEntity},
		{"unreadable pdf", &services.DocumentParseError{Message: "failed to open PDF"}, fiber.StatusBadRequest},
		{"inference", &services.TransientInferenceError{Attempts: 3, Err: errors.New("503")}, fiber.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, fiber.StatusGatewayTimeout},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
		{"missing rasterizer", fmt.Errorf("page rasterizer unavailable: %w", exec.ErrNotFound), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.analyzer.err = tt.err
			session := s.repo.Create()

			resp, body := s.do(t, analyzeRequest(t, session.ID.String(), validFields(), "resume.pdf", []byte("%PDF")))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, float64(tt.status), errorBody(t, body)["code"])

			stored, err := s.repo.FindByID(session.ID)
			require.NoError(t, err)
			assert.Nil(t, stored.Current)
			assert.Empty(t, stored.History)
		})
	}
}

func TestHistory(t *testing.T) {
	s := newTestServer(t)
	session := s.repo.Create()
	for i := range 7 {
		require.NoError(t, s.repo.AppendHistory(session.ID, models.HistoryEntry{Response: string(rune('a' + i))}))
	}

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+session.ID.String()+"/history", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history models.HistoryResponse
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history.Entries, 5)
	assert.Equal(t, "g", history.Entries[0].Response)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+session.ID.String()+"/history?limit=2", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &history))
	assert.Len(t, history.Entries, 2)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+session.ID.String()+"/history?limit=0", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+session.ID.String()+"/history", nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	recent, err := s.repo.RecentHistory(session.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestReport(t *testing.T) {
	s := newTestServer(t)
	session := s.repo.Create()
	url := "/api/v1/sessions/" + session.ID.String() + "/report"

	resp, _ := s.do(t, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	require.NoError(t, s.repo.SetCurrent(session.ID, &models.AnalysisResult{
		Response:     "Full analysis text",
		DownloadName: "resume_analysis_quick_scan_20240102_150405.txt",
	}))

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Full analysis text", string(body))
	assert.Equal(t, `attachment; filename="resume_analysis_quick_scan_20240102_150405.txt"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	resp, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+session.ID.String()+"/current", nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestModes(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/modes", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.ModesResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Modes, 3)
	assert.Equal(t, services.ModeQuickScan, out.Modes[0].Key)
	assert.Empty(t, out.Modes[0].Prompt)
	assert.NotContains(t, string(body), "QUICK SCAN - Provide")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "healthy")
}
