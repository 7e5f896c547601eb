package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight/internal/attendance"
	"insight/internal/config"
	"insight/internal/mailer"
	"insight/internal/report"
)

type fakeAttendance struct {
	stats   attendance.Stats
	records []attendance.Record
	lastAdd attendance.Record
	err     error
}

func (f *fakeAttendance) List(ctx context.Context, _ attendance.Filter) ([]attendance.Record, error) {
	return f.records, f.err
}

func (f *fakeAttendance) Add(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.lastAdd = rec
	rec.ID = "rec-1"
	return rec, f.err
}

func (f *fakeAttendance) Update(ctx context.Context, rec attendance.Record) error { return f.err }
func (f *fakeAttendance) Delete(ctx context.Context, id string) error             { return f.err }

func (f *fakeAttendance) Stats(ctx context.Context) (attendance.Stats, error) {
	return f.stats, f.err
}

func (f *fakeAttendance) DailySummary(ctx context.Context, day attendance.Date) (attendance.Summary, error) {
	return attendance.Summarize(f.records), f.err
}

func (f *fakeAttendance) ClassSummary(ctx context.Context, class string) (attendance.Summary, error) {
	return attendance.Summarize(f.records), f.err
}

func (f *fakeAttendance) PersonSummary(ctx context.Context, id string) (attendance.Summary, error) {
	return attendance.Summarize(f.records), f.err
}

type fakeMail struct {
	result mailer.Result
	err    error
	caller string
}

func (f *fakeMail) Send(ctx context.Context, caller string, msg mailer.Message) (mailer.Result, error) {
	f.caller = caller
	return f.result, f.err
}

func testConfig() config.App {
	return config.App{
		JWTIssuer:     "insight-test",
		JWTSigningKey: "test-signing-key",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		AdminEmail:    "admin@insight.local",
		AdminPassword: "secret",
		SchoolName:    "Insight Attendance System",
	}
}

func testRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/v1/auth/login", "",
		gin.H{"email": "admin@insight.local", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func TestLogin(t *testing.T) {
	h := &Handler{Cfg: testConfig()}
	r := testRouter(h)

	w := doJSON(t, r, http.MethodPost, "/v1/auth/login", "",
		gin.H{"email": "admin@insight.local", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	loginToken(t, r)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := &Handler{Cfg: testConfig(), Attendance: &fakeAttendance{}}
	r := testRouter(h)

	w := doJSON(t, r, http.MethodGet, "/v1/attendance/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/attendance/stats", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttendanceStats(t *testing.T) {
	fake := &fakeAttendance{stats: attendance.Stats{
		TotalPresent:      7,
		AverageAttendance: 70,
		StatusData: []attendance.StatusCount{
			{Name: "Present", Value: 7, Color: attendance.ColorPresent},
			{Name: "Absent", Value: 2, Color: attendance.ColorAbsent},
			{Name: "Late", Value: 1, Color: attendance.ColorLate},
		},
	}}
	h := &Handler{Cfg: testConfig(), Attendance: fake}
	r := testRouter(h)
	token := loginToken(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/attendance/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got attendance.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 7, got.TotalPresent)
	assert.Equal(t, 70, got.AverageAttendance)
	assert.Len(t, got.StatusData, 3)
}

func TestListAttendanceRejectsBadDate(t *testing.T) {
	h := &Handler{Cfg: testConfig(), Attendance: &fakeAttendance{}}
	r := testRouter(h)
	token := loginToken(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/attendance?date=20-11-2025", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEmailStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unauthenticated", err: &mailer.Error{Kind: mailer.KindUnauthenticated, Message: "no"}, want: http.StatusUnauthorized},
		{name: "invalid argument", err: &mailer.Error{Kind: mailer.KindInvalidArgument, Message: "bad"}, want: http.StatusBadRequest},
		{name: "internal", err: &mailer.Error{Kind: mailer.KindInternal, Message: "boom"}, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{Cfg: testConfig(), Mail: &fakeMail{err: tt.err}}
			r := testRouter(h)
			token := loginToken(t, r)

			w := doJSON(t, r, http.MethodPost, "/v1/email/send", token,
				gin.H{"to": "a@b.com", "subject": "s", "html": "<p>h</p>"})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSendEmailPassesCaller(t *testing.T) {
	fake := &fakeMail{result: mailer.Result{Success: true, MessageID: "m-1"}}
	h := &Handler{Cfg: testConfig(), Mail: fake}
	r := testRouter(h)
	token := loginToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/email/send", token,
		gin.H{"to": "a@b.com", "subject": "s", "html": "<p>h</p>"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@insight.local", fake.caller, "the token subject is the mail caller")
}

func TestStudentReportDownloadHeaders(t *testing.T) {
	fakeAtt := &fakeAttendance{}
	h := &Handler{
		Cfg:        testConfig(),
		People:     &fakePeople{},
		Attendance: fakeAtt,
		Renderer: report.NewRenderer("Insight Attendance System").
			WithClock(func() time.Time { return time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC) }),
	}
	r := testRouter(h)
	token := loginToken(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/reports/students/stu-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Asha_Rao_Attendance_Report_2025-11-20.html")
	assert.Contains(t, w.Body.String(), "Student Attendance Report")
}

func TestThemePresets(t *testing.T) {
	h := &Handler{Cfg: testConfig()}
	r := testRouter(h)
	token := loginToken(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/settings/theme/presets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Presets map[string]struct {
			PrimaryColor string `json:"primaryColor"`
		} `json:"presets"`
		Default string `json:"default"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "purple", body.Default)
	assert.Equal(t, "#A982D9", body.Presets["purple"].PrimaryColor)
	assert.Len(t, body.Presets, 6)
}

func TestUploadWithoutStorage(t *testing.T) {
	h := &Handler{Cfg: testConfig()}
	r := testRouter(h)
	token := loginToken(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/uploads", token, gin.H{"data": "base64"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
