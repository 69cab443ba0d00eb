package ui

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reallygood83/mathemotion/adapters/credentials"
	"github.com/reallygood83/mathemotion/adapters/datareadiness/coercer"
	"github.com/reallygood83/mathemotion/app"
	"github.com/reallygood83/mathemotion/internal"
	"github.com/reallygood83/mathemotion/internal/analysis"
	"github.com/reallygood83/mathemotion/internal/chart"
	"github.com/reallygood83/mathemotion/internal/dataset"
	"github.com/reallygood83/mathemotion/internal/testkit"
)

const serviceAccount = `{"type":"service_account","project_id":"class-survey","client_email":"bot@class-survey.iam.gserviceaccount.com","private_key":"k"}`

var quiet = internal.NewLogger(internal.LogLevelError)

// client replays the session cookie the way a browser would
type client struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *client {
	t.Helper()
	chain := credentials.NewChain("", "", filepath.Join(t.TempDir(), "credentials.json"), nil, quiet)
	svc := app.NewDashboardService(app.DashboardConfig{
		Normalizer:     dataset.NewNormalizer(coercer.DefaultCoercionConfig(), quiet),
		Renderer:       chart.NewRenderer(chart.Options{DPI: 36, WidthInches: 6, HeightInches: 4, Policy: analysis.MissingAsZero}, quiet),
		Credentials:    chain,
		Sample:         testkit.SurveyGeneratorConfig{Seed: 7},
		UploadMaxBytes: 1 << 20,
		MaxConcurrent:  2,
		Logger:         quiet,
	})
	srv, err := NewServer(svc, chain, Options{GinMode: gin.TestMode, SessionTTL: time.Hour, UploadMaxBytes: 1 << 20}, quiet)
	require.NoError(t, err)
	return &client{t: t, server: srv}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.server.Handler().ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) upload(path, field, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	c := newTestServer(t)
	w := c.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestIndexBeforeAndAfterLoad(t *testing.T) {
	c := newTestServer(t)

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "샘플 데이터 불러오기")
	assert.Contains(t, w.Body.String(), "Google Sheets API", "usage guide is rendered")
	require.NotNil(t, c.cookie)

	w = c.postForm("/load/sample", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.get("/")
	assert.Contains(t, w.Body.String(), testkit.DefaultRoster[0])
}

func TestSampleLoadAndCharts(t *testing.T) {
	c := newTestServer(t)

	w := c.postForm("/load/sample", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, len(testkit.DefaultRoster), body["rows"])
	assert.Nil(t, body["warning"])

	w = c.get("/api/students")
	students := decode(t, w)["students"].([]interface{})
	require.Len(t, students, len(testkit.DefaultRoster))

	w = c.get("/charts/item_summary")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)

	w = c.get("/charts/all_students?format=base64")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.EqualValues(t, len(testkit.DefaultRoster), body["series"])
	assert.NotEmpty(t, body["image"])

	w = c.get("/charts/student_profile?student=" + url.QueryEscape(students[0].(string)))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.get("/api/table")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["summary"].(map[string]interface{})
	assert.Len(t, summary["items"], 10)
}

func TestChartErrors(t *testing.T) {
	c := newTestServer(t)

	w := c.get("/charts/item_summary")
	assert.Equal(t, http.StatusBadRequest, w.Code, "nothing loaded yet")

	c.postForm("/load/sample", nil)

	w = c.get("/charts/pie")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.get("/charts/student_change")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.get("/charts/student_change?student=" + url.QueryEscape("홍길동"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ENTITY_NOT_FOUND", decode(t, w)["code"])
}

func TestUploadWithMissingColumns(t *testing.T) {
	c := newTestServer(t)

	w := c.upload("/load/upload", "dataset", "survey.csv", []byte("학생 이름,집중도\n김철수,4\n이영희,5\n"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.NotEmpty(t, body["warning"])
	assert.Contains(t, body["available_columns"], "focus")

	w = c.get("/charts/item_correlation")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["available_columns"], "student_name")

	w = c.get("/")
	assert.Contains(t, w.Body.String(), "필요한 열이 없습니다")
}

func TestFailedLoadKeepsPreviousTable(t *testing.T) {
	c := newTestServer(t)
	c.postForm("/load/sample", nil)

	w := c.upload("/load/upload", "dataset", "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.get("/api/students")
	assert.Len(t, decode(t, w)["students"], len(testkit.DefaultRoster))
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newTestServer(t)
	a.postForm("/load/sample", nil)

	b := &client{t: t, server: a.server}
	w := b.get("/api/students")
	assert.Empty(t, decode(t, w)["students"])
}

func TestSheetLoadNeedsCredential(t *testing.T) {
	c := newTestServer(t)
	w := c.postForm("/load/sheet", url.Values{"spreadsheet_id": {"abc"}, "range": {"A1:B"}})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "CREDENTIAL_MISSING", decode(t, w)["code"])
}

func TestCredentialUpload(t *testing.T) {
	c := newTestServer(t)

	w := c.upload("/credentials", "credentials", "key.json", []byte(`{"type":"user"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.upload("/credentials", "credentials", "key.json", []byte(serviceAccount))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "bot@class-survey.iam.gserviceaccount.com", decode(t, w)["client_email"])

	w = c.get("/")
	assert.Contains(t, w.Body.String(), "bot@class-survey.iam.gserviceaccount.com")
}

func TestSessionStoreExpiry(t *testing.T) {
	store := newSessionStore(time.Minute)
	now := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	first := store.touch("")
	assert.Same(t, first, store.touch(first.id))

	now = now.Add(2 * time.Minute)
	second := store.touch(first.id)
	assert.NotEqual(t, first.id, second.id)
	assert.Equal(t, 1, store.len())
}
