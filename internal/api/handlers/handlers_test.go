package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/services"
	"github.com/yoockh/skillproctor/internal/utils"
)

// Embedding the interface leaves unused methods nil; tests only call what
// they override.
type fakeCandidates struct {
	services.CandidateService
	intake  *services.IntakeInput
	resetOK bool
}

func (f *fakeCandidates) Intake(_ context.Context, in services.IntakeInput) (*services.IntakeResult, error) {
	f.intake = &in
	return &services.IntakeResult{CandidateID: "cand-1"}, nil
}

func (f *fakeCandidates) Reset(context.Context) error {
	f.resetOK = true
	return nil
}

type fakeMCQ struct {
	services.MCQService
	candidateID string
	sessionID   string
	answers     models.MCQAnswers
	err         error
}

func (f *fakeMCQ) Submit(_ context.Context, candidateID, sessionID string, answers models.MCQAnswers) (*services.MCQOutcome, error) {
	f.candidateID, f.sessionID, f.answers = candidateID, sessionID, answers
	if f.err != nil {
		return nil, f.err
	}
	return &services.MCQOutcome{Status: models.SessionCompleted}, nil
}

func testRouter(userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("role", role)
		}
		c.Next()
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestSubmitMCQActsOnTokenCandidate(t *testing.T) {
	mcq := &fakeMCQ{}
	h := NewStudentHandler(nil, mcq, nil, nil)
	r := testRouter("cand-7", "candidate")
	r.POST("/submit-mcq", h.SubmitMCQ)

	body := `{"test_id":"mcq-1","answers":{"1":2,"2":0},"candidate_id":"someone-else"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit-mcq", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cand-7", mcq.candidateID)
	assert.Equal(t, "mcq-1", mcq.sessionID)
	assert.Equal(t, models.MCQAnswers{"1": 2, "2": 0}, mcq.answers)
}

func TestSubmitMCQErrors(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		body     string
		svcErr   error
		want     int
		wantCode utils.Code
	}{
		{name: "no caller", body: `{"test_id":"x"}`, want: http.StatusUnauthorized, wantCode: utils.CodeUnauthorized},
		{name: "bad json", userID: "c", body: `{`, want: http.StatusBadRequest, wantCode: utils.CodeInvalidArgument},
		{name: "missing test id", userID: "c", body: `{}`, want: http.StatusBadRequest, wantCode: utils.CodeInvalidArgument},
		{
			name: "already completed", userID: "c", body: `{"test_id":"x"}`,
			svcErr: utils.E(utils.CodeConflict, "MCQService.Submit", "test already submitted", nil),
			want:   http.StatusConflict, wantCode: utils.CodeConflict,
		},
		{
			name: "bare repository error", userID: "c", body: `{"test_id":"x"}`,
			svcErr: errors.New("connection reset"),
			want:   http.StatusInternalServerError, wantCode: utils.CodeInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStudentHandler(nil, &fakeMCQ{err: tt.svcErr}, nil, nil)
			r := testRouter(tt.userID, "candidate")
			r.POST("/submit-mcq", h.SubmitMCQ)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit-mcq", strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func multipartBody(t *testing.T, field, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadResume(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n%%EOF\n")

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     int
	}{
		{name: "pdf", filename: "ada.pdf", data: pdf, want: http.StatusCreated},
		{name: "wrong extension", filename: "ada.docx", data: pdf, want: http.StatusBadRequest},
		{name: "not really a pdf", filename: "ada.pdf", data: []byte("hello, I am plain text"), want: http.StatusBadRequest},
		{name: "empty", filename: "ada.pdf", data: nil, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := &fakeCandidates{}
			h := NewAdminHandler(cands, nil, nil)
			r := testRouter("admin-1", "admin")
			r.POST("/upload-resume", h.UploadResume)

			body, ct := multipartBody(t, "file", tt.filename, tt.data, map[string]string{
				"name":  " Ada Lovelace ",
				"email": "ada@example.com",
			})
			req := httptest.NewRequest(http.MethodPost, "/upload-resume", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want != http.StatusCreated {
				assert.Nil(t, cands.intake)
				return
			}
			require.NotNil(t, cands.intake)
			assert.Equal(t, "Ada Lovelace", cands.intake.Name)
			assert.Equal(t, "ada@example.com", cands.intake.Email)
			assert.Equal(t, "application/pdf", cands.intake.ContentType)
			assert.Equal(t, pdf, cands.intake.Data)
		})
	}
}

func TestResetDatabaseRequiresConfirmation(t *testing.T) {
	cands := &fakeCandidates{}
	h := NewAdminHandler(cands, nil, nil)
	r := testRouter("admin-1", "admin")
	r.POST("/reset", h.ResetDatabase)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", strings.NewReader(`{"confirm":"yes"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, cands.resetOK)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", strings.NewReader(`{"confirm":"RESET"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, cands.resetOK)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"mongo":    func(context.Context) error { return errors.New("no reachable servers") },
	})
	r := testRouter("", "")
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","dependencies":{"mongo":"no reachable servers","postgres":"ok"}}`, w.Body.String())
}
