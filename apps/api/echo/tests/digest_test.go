package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/digest"
	emailsvc "github.com/truongductri01/daily-spark/services/email"
	"github.com/truongductri01/daily-spark/tests"
)

func seedDigests(t *testing.T, app *testApp) {
	testutil.CreateUser(t, app.usrRepo, "ann", "Ann", "ann@test.io")
	testutil.CreateCurriculum(t, app.currRepo, "c1", "ann", "Go", curriculum.StatusActive,
		testutil.NewTopic("t1", "Channels", 3725, curriculum.TopicCompleted, "https://go.dev"),
	)
	testutil.CreateCurriculum(t, app.currRepo, "c2", "ann", "SQL", curriculum.StatusCompleted,
		testutil.NewTopic("t2", "Joins", 60, curriculum.TopicCompleted),
	)
	testutil.CreateUser(t, app.usrRepo, "bob", "Bob", "bob@test.io")
}

func Test_digestApi_aggregate(t *testing.T) {
	app := newTestApp(t)
	seedDigests(t, app)

	annDigest := []byte(`{
		"displayName": "Ann",
		"email": "ann@test.io",
		"topics": [{
			"courseTitle": "Go",
			"title": "Channels",
			"description": "Channels description",
			"estimatedTime": "1 hour 2 minutes 5 seconds",
			"question": "What is Channels?",
			"resources": ["https://go.dev"],
			"status": "Completed"
		}]
	}`)

	tests := []httpTest{
		{
			name:     "missing userId",
			method:   http.MethodGet,
			path:     "/v1/digests",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"userId": "this field is required"}`),
		},
		{
			name:     "blank userId",
			method:   http.MethodPost,
			path:     "/v1/digests?userId=%20",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown user",
			method:   http.MethodGet,
			path:     "/v1/digests?userId=nobody",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: digest.ErrUserNotFound.Error()}),
		},
		{
			name:     "no active curricula",
			method:   http.MethodGet,
			path:     "/v1/digests?userId=bob",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: digest.ErrNoActiveCurricula.Error()}),
		},
		{
			name:     "GET",
			method:   http.MethodGet,
			path:     "/v1/digests?userId=ann",
			wantCode: http.StatusOK,
			wantData: annDigest,
		},
		{
			name:     "POST",
			method:   http.MethodPost,
			path:     "/v1/digests?userId=ann",
			wantCode: http.StatusOK,
			wantData: annDigest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	sent := app.mailSvc.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "[DailySpark] - Daily Curriculum Topics, Ann", sent[0].Subject)
	assert.Equal(t, "ann@test.io", sent[0].To[0].Address)
}

func Test_digestApi_aggregateSendFailure(t *testing.T) {
	app := newTestApp(t)
	seedDigests(t, app)
	app.mailSvc.Err = emailsvc.ErrNotConfigured

	req, rec := newRequest(http.MethodGet, "/v1/digests?userId=ann")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"Ann"`)
}

func Test_digestApi_run(t *testing.T) {
	t.Run("all or nothing", func(t *testing.T) {
		app := newTestApp(t)
		seedDigests(t, app)

		req, rec := newRequest(http.MethodPost, "/v1/digests/run")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report digest.Report
		decode(t, rec.Body.Bytes(), &report)
		require.Len(t, report.Outcomes, 2)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, "ann", report.Outcomes[0].UserID)
		if assert.NotNil(t, report.Outcomes[0].Digest) {
			assert.Len(t, report.Outcomes[0].Digest.Topics, 1)
		}
		assert.True(t, report.Outcomes[1].NotFound)
		assert.Len(t, app.mailSvc.Sent(), 1)
	})

	t.Run("no users", func(t *testing.T) {
		app := newTestApp(t)
		req, rec := newRequest(http.MethodPost, "/v1/digests/run")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var report digest.Report
		decode(t, rec.Body.Bytes(), &report)
		assert.Empty(t, report.Outcomes)
	})

	t.Run("GET not allowed", func(t *testing.T) {
		app := newTestApp(t)
		req, rec := newRequest(http.MethodGet, "/v1/digests/run")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
