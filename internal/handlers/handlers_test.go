// handlers_test.go drives the handlers through a Gin engine with a fake backend.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/middleware"
	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/preferences"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

const videoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAPI answers every lookup with two languages and a short transcript.
type fakeAPI struct{}

func (fakeAPI) FetchLanguages(ctx context.Context, url string) transcript.Discovery {
	return transcript.Discovery{Status: models.APIStatusSuccess, Languages: []models.LanguageOption{
		{Code: "en", DisplayName: "English"},
		{Code: "de", DisplayName: "German", IsManual: true},
	}}
}

func (fakeAPI) FetchTranscript(ctx context.Context, url, language string) (*transcript.Result, error) {
	switch language {
	case "de":
		return &transcript.Result{Language: "de", Transcript: "[00:01] Anna: Hallo <b>Welt</b>"}, nil
	case "en":
		return &transcript.Result{Language: "en", Transcript: "[00:01] Anna: Hello world"}, nil
	}
	return nil, &transcript.APIError{Status: models.APIStatusNoTranscripts, Detail: "none here"}
}

// testServer wires the handlers like the router does, minus rate limiting.
type testServer struct {
	engine *gin.Engine
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	sessions := workflow.NewRegistry(time.Hour, func(visitorID string, _ config.Origin) (*workflow.Controller, error) {
		return workflow.New(fakeAPI{}, nil, visitorID), nil
	})
	h := NewHandler(sessions, preferences.NewService(nil, nil))

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.GET("/api/v1/health", h.HealthCheck)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)
	v := r.Group("/")
	v.Use(middleware.Visitor("secret", time.Hour))
	v.GET("/", h.Page)
	v.POST("/transcript", h.SubmitForm)
	v.POST("/transcript/language", h.SwitchLanguageForm)
	v.GET("/transcript/download", h.DownloadTranscript)
	v.POST("/preferences/font-size", h.FontSizeForm)
	v.GET("/api/v1/session", h.GetSession)
	v.DELETE("/api/v1/session", h.ResetSession)
	v.POST("/api/v1/lookup", h.Lookup)
	v.POST("/api/v1/language", h.SwitchLanguage)
	v.POST("/api/v1/copy", h.CopyTranscript)
	v.GET("/api/v1/preferences", h.GetPreferences)
	v.PUT("/api/v1/preferences", h.UpdatePreferences)

	return &testServer{engine: r}
}

// do sends a request as the same visitor every time.
func (s *testServer) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.VisitorCookie {
			s.cookie = ck
		}
	}
	return w
}

func (s *testServer) json(method, target, body string) *httptest.ResponseRecorder {
	return s.do(method, target, "application/json", body)
}

func (s *testServer) form(target string, values url.Values) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, target, "application/x-www-form-urlencoded", values.Encode())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.json(http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	health := decode[models.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memory: healthy", health.Preferences)
}

func TestLookupAndSwitch(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/api/v1/lookup", `{"url":"`+videoURL+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decode[workflow.Snapshot](t, w)
	assert.Equal(t, workflow.StateDisplaying, snap.State)
	assert.Equal(t, "de", snap.CurrentLanguage)
	assert.True(t, snap.ShowSelector)

	w = s.json(http.MethodPost, "/api/v1/language", `{"language":"en"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "en", decode[workflow.Snapshot](t, w).CurrentLanguage)

	w = s.json(http.MethodPost, "/api/v1/language", `{"language":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_language", decode[models.ErrorResponse](t, w).Error)

	w = s.json(http.MethodGet, "/api/v1/session", "")
	assert.Equal(t, "en", decode[workflow.Snapshot](t, w).CurrentLanguage)

	w = s.json(http.MethodPost, "/api/v1/copy", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[00:01] Anna: Hello world", decode[map[string]string](t, w)["transcript"])

	w = s.json(http.MethodDelete, "/api/v1/session", "")
	assert.Equal(t, workflow.StateIdle, decode[workflow.Snapshot](t, w).State)
}

func TestResetSession_ForgetsPreferences(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPut, "/api/v1/preferences", `{"font_size":"large"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.json(http.MethodDelete, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.json(http.MethodGet, "/api/v1/preferences", "")
	assert.Equal(t, models.FontMedium, decode[models.PreferencesResponse](t, w).FontSize)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"validation", &transcript.ValidationError{Message: transcript.MsgInvalidURL}, http.StatusBadRequest, "invalid_url"},
		{"empty transcript", workflow.ErrEmptyTranscript, http.StatusNotFound, "empty_transcript"},
		{"nothing loaded", workflow.ErrNoTranscript, http.StatusNotFound, "no_transcript"},
		{"stale", workflow.ErrStale, http.StatusConflict, "superseded"},
		{"rate limited", &transcript.RateLimitedError{}, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{"no transcripts", &transcript.APIError{Status: models.APIStatusNoTranscripts}, http.StatusNotFound, "no_transcripts"},
		{"unreachable", &transcript.TransportError{Err: context.DeadlineExceeded}, http.StatusBadGateway, "upstream_unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, kind := classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestLookup_Errors(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/api/v1/lookup", `{"url":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "invalid_url", errResp.Error)
	assert.Equal(t, transcript.MsgEmptyURL, errResp.Message)

	w = s.json(http.MethodPost, "/api/v1/lookup", `{"url":"https://example.com"}`)
	assert.Equal(t, transcript.MsgInvalidURL, decode[models.ErrorResponse](t, w).Message)

	w = s.json(http.MethodPost, "/api/v1/lookup", `not json`)
	assert.Equal(t, "invalid_request", decode[models.ErrorResponse](t, w).Error)

	w = s.json(http.MethodPost, "/api/v1/language", `{"language":"de"}`)
	assert.Equal(t, http.StatusNotFound, w.Code, "no session yet")
}

func TestDownload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/transcript/download", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.json(http.MethodPost, "/api/v1/lookup", `{"url":"`+videoURL+`"}`)
	w = s.do(http.MethodGet, "/transcript/download", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="transcript_dQw4w9WgXcQ_de.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "[00:01] Anna: Hallo <b>Welt</b>", w.Body.String())
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodGet, "/api/v1/preferences", "")
	assert.Equal(t, models.FontMedium, decode[models.PreferencesResponse](t, w).FontSize)

	w = s.json(http.MethodPut, "/api/v1/preferences", `{"font_size":"large"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.FontLarge, decode[models.PreferencesResponse](t, w).FontSize)

	w = s.json(http.MethodGet, "/api/v1/preferences", "")
	assert.Equal(t, models.FontLarge, decode[models.PreferencesResponse](t, w).FontSize)

	w = s.json(http.MethodPut, "/api/v1/preferences", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPageFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/transcript"`)
	assert.NotContains(t, w.Body.String(), `id="transcript"`)

	w = s.form("/transcript", url.Values{"url": {"nope"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	w = s.do(http.MethodGet, "/", "", "")
	assert.Contains(t, w.Body.String(), transcript.MsgInvalidURL)

	s.form("/transcript", url.Values{"url": {videoURL}})
	s.form("/preferences/font-size", url.Values{"font_size": {"small"}})
	w = s.do(http.MethodGet, "/", "", "")
	body := w.Body.String()
	assert.Contains(t, body, `class="font-small"`)
	assert.Contains(t, body, `<span class="speaker">Anna:</span>`)
	assert.Contains(t, body, "Hallo &lt;b&gt;Welt&lt;/b&gt;", "transcript text is escaped")
	assert.Contains(t, body, "German ★")
	assert.Contains(t, body, `<option value="de" selected>`)

	w = s.form("/transcript/language", url.Values{"language": {"en"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = s.do(http.MethodGet, "/", "", "")
	assert.Contains(t, w.Body.String(), "Hello world")
	assert.Contains(t, w.Body.String(), `<option value="en" selected>`)
}

func TestOpenAPISpec(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/docs/openapi.yaml", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/lookup")
}
