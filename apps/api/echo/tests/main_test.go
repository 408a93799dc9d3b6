package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	. "github.com/truongductri01/daily-spark/apps/api/echo"
	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/digest"
	"github.com/truongductri01/daily-spark/core/user"
	emailsvc "github.com/truongductri01/daily-spark/services/email"
	"github.com/truongductri01/daily-spark/tests"
)

type testApp struct {
	*Server
	conf     *core.Config
	usrRepo  user.Repository
	currRepo curriculum.Repository
	mailSvc  *emailsvc.ConsoleServiceMock
}

// newTestApp serves a fresh in-memory store.
func newTestApp(t *testing.T, opts ...func(*core.Config)) *testApp {
	return newTestAppWith(t, nil, opts...)
}

// newTestAppWith lets wrapUsers decorate the user repository the services see.
func newTestAppWith(t *testing.T, wrapUsers func(user.Repository) user.Repository, opts ...func(*core.Config)) *testApp {
	conf := core.NewTestConfig()
	for _, opt := range opts {
		opt(conf)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	curriculum.InitValidators(validate, translator)

	logger := testutil.NewLogger(t)
	usrRepo, currRepo := testutil.OpenDummyDB(t)
	svcUsrRepo := usrRepo
	if wrapUsers != nil {
		svcUsrRepo = wrapUsers(usrRepo)
	}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	app := &testApp{
		conf:     conf,
		usrRepo:  usrRepo,
		currRepo: currRepo,
		mailSvc:  mailSvc,
	}
	app.Server = NewServer(
		conf,
		logger,
		validate,
		translator,
		user.NewService(svcUsrRepo, logger, conf),
		curriculum.NewService(currRepo, logger),
		digest.NewService(svcUsrRepo, currRepo, mailSvc, logger, conf),
	)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData != nil {
		assertJSONEq(t, tt.wantData, rec.Body.Bytes())
	}
}

// closedUserRepository fails every lookup as a store whose client was closed.
type closedUserRepository struct {
	user.Repository
}

func (closedUserRepository) GetUserByID(context.Context, string) (user.User, error) {
	return user.User{}, errors.Wrap(core.NewShutdownError("redis client closed"), "getting user")
}
