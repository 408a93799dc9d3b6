package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/digest"
	"github.com/truongductri01/daily-spark/core/user"
	emailsvc "github.com/truongductri01/daily-spark/services/email"
	"github.com/truongductri01/daily-spark/tests"
)

type fixture struct {
	cli      *commandLine
	out      *bytes.Buffer
	usrRepo  user.Repository
	currRepo failingCurriculumRepository
	mailSvc  *emailsvc.ConsoleServiceMock
}

// failingCurriculumRepository fails the partition scans of the users in failUserIDs.
type failingCurriculumRepository struct {
	curriculum.Repository
	failUserIDs map[string]bool
}

func (r failingCurriculumRepository) QueryCurricula(ctx context.Context, userID string, filter curriculum.QueryFilter) ([]curriculum.Curriculum, error) {
	if r.failUserIDs[userID] {
		return nil, errStore
	}
	return r.Repository.QueryCurricula(ctx, userID, filter)
}

var errStore = errors.New("store unavailable")

func setup(t *testing.T, opts ...func(*core.Config)) *fixture {
	conf := core.NewTestConfig()
	for _, opt := range opts {
		opt(conf)
	}
	logger := testutil.NewLogger(t)
	usrRepo, dbCurrRepo := testutil.OpenDummyDB(t)
	currRepo := failingCurriculumRepository{Repository: dbCurrRepo, failUserIDs: map[string]bool{}}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	f := &fixture{
		out:      new(bytes.Buffer),
		usrRepo:  usrRepo,
		currRepo: currRepo,
		mailSvc:  mailSvc,
	}
	f.cli = &commandLine{
		usrSvc:    user.NewService(usrRepo, logger, conf),
		digestSvc: digest.NewService(usrRepo, currRepo, mailSvc, logger, conf),
		validate:  validate,
		out:       f.out,
	}
	return f
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLITests(t *testing.T, f *fixture, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			f.out.Reset()
			err := f.cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.wantErrStr)
				}
			default:
				require.NoError(t, err)
				if want, ok := tt.extra.(string); ok {
					assert.Contains(t, f.out.String(), want)
				}
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	f := setup(t)
	runCLITests(t, f, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"digest", "-lol"}, wantErr: errHelp},
	})
}

func Test_commandLine_addUser(t *testing.T) {
	f := setup(t)
	runCLITests(t, f, []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no email", args: []string{"adduser", "-name", "Ann"}, wantErr: errHelp},
		{name: "invalid email", args: []string{"adduser", "-name", "Ann", "-email", "ann"}, wantErrStr: "email"},
		{name: "with id", args: []string{"adduser", "-id", "ann", "-name", "Ann", "-email", "ann@test.io"}, extra: `"id": "ann"`},
		{name: "taken id", args: []string{"adduser", "-id", "ann", "-name", "Ann", "-email", "ann@test.io"}, wantErr: user.ErrUserExists},
		{name: "generated id", args: []string{"adduser", "-name", "Bob", "-email", "bob@test.io"}, extra: `"displayName": "Bob"`},
	})

	count, err := f.usrRepo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_commandLine_digest(t *testing.T) {
	f := setup(t)
	testutil.CreateUser(t, f.usrRepo, "ann", "Ann", "ann@test.io")
	testutil.CreateCurriculum(t, f.currRepo, "c1", "ann", "Go", curriculum.StatusActive,
		testutil.NewTopic("t1", "Channels", 120, curriculum.TopicNotStarted),
	)
	testutil.CreateUser(t, f.usrRepo, "bob", "Bob", "bob@test.io")

	runCLITests(t, f, []cliTest{
		{name: "no user", args: []string{"digest"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"digest", "-user", "nobody"}, wantErr: digest.ErrUserNotFound},
		{name: "no active curricula", args: []string{"digest", "-user", "bob"}, wantErr: digest.ErrNoActiveCurricula},
		{name: "sent", args: []string{"digest", "-user", "ann"}, extra: `"estimatedTime": "2 minutes"`},
	})
	assert.Len(t, f.mailSvc.Sent(), 1)

	f.mailSvc.Err = emailsvc.ErrNotConfigured
	require.NoError(t, f.cli.run([]string{"admin", "digest", "-user", "ann"}))
	assert.Contains(t, f.out.String(), `"sendError"`)
}

func Test_commandLine_processAll(t *testing.T) {
	f := setup(t)
	for _, id := range []string{"ann", "bob", "cid"} {
		testutil.CreateUser(t, f.usrRepo, id, id, id+"@test.io")
		testutil.CreateCurriculum(t, f.currRepo, "c-"+id, id, "Go", curriculum.StatusActive,
			testutil.NewTopic("t-"+id, "Channels", 60, curriculum.TopicNotStarted),
		)
	}

	for _, isolate := range []bool{false, true} {
		f.out.Reset()
		args := []string{"admin", "processall"}
		if isolate {
			args = append(args, "-isolate")
		}
		require.NoError(t, f.cli.run(args))

		var report digest.Report
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &report))
		require.Len(t, report.Outcomes, 3)
		for i, id := range []string{"ann", "bob", "cid"} {
			assert.Equal(t, id, report.Outcomes[i].UserID)
			assert.NotNil(t, report.Outcomes[i].Digest)
		}
	}
	assert.Len(t, f.mailSvc.Sent(), 6)
}

func Test_commandLine_processAllPolicy(t *testing.T) {
	seed := func(t *testing.T, f *fixture) {
		for _, id := range []string{"ann", "bob"} {
			testutil.CreateUser(t, f.usrRepo, id, id, id+"@test.io")
			testutil.CreateCurriculum(t, f.currRepo, "c-"+id, id, "Go", curriculum.StatusActive)
		}
		f.currRepo.failUserIDs["bob"] = true
	}

	t.Run("one failure aborts the batch by default", func(t *testing.T) {
		f := setup(t)
		seed(t, f)
		err := f.cli.run([]string{"admin", "processall"})
		assert.ErrorIs(t, err, errStore)
	})

	t.Run("configured isolation", func(t *testing.T) {
		f := setup(t, func(conf *core.Config) { conf.IsolateFailures = true })
		seed(t, f)
		require.NoError(t, f.cli.run([]string{"admin", "processall"}))

		var report digest.Report
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &report))
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Outcomes, 2)
		assert.NotNil(t, report.Outcomes[0].Digest)
		assert.NotEmpty(t, report.Outcomes[1].Error)
	})

	t.Run("send failures are reported", func(t *testing.T) {
		f := setup(t)
		testutil.CreateUser(t, f.usrRepo, "ann", "Ann", "ann@test.io")
		testutil.CreateCurriculum(t, f.currRepo, "c1", "ann", "Go", curriculum.StatusActive)
		f.mailSvc.Err = emailsvc.ErrNotConfigured

		require.NoError(t, f.cli.run([]string{"admin", "processall"}))
		var report digest.Report
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &report))
		require.Len(t, report.Outcomes, 1)
		assert.False(t, report.Outcomes[0].Notification.Sent)
		assert.Equal(t, emailsvc.ErrNotConfigured.Error(), report.Outcomes[0].Notification.Error)
	})
}
