package emailsvc

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/truongductri01/daily-spark/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"

	ErrNotConfigured = errors.New("email service not configured: missing sendgrid api key or sender address")
)

// sendFunc performs the HTTP call; swapped in tests.
type sendFunc func(ctx context.Context, req rest.Request) (*rest.Response, error)

type sendgridService struct {
	key    string
	from   *sgmail.Email
	logger core.Logger
	send   sendFunc
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) core.EmailService {
	return newSendgridService(conf, logger, rest.SendWithContext)
}

func newSendgridService(conf *core.Config, logger core.Logger, send sendFunc) *sendgridService {
	var from *sgmail.Email
	if conf.Email.FromAddress != "" {
		addr := conf.DefaultFromEmail()
		from = sgmail.NewEmail(addr.Name, addr.Address)
	}
	return &sendgridService{
		key:    conf.Email.SendgridAPIKey,
		from:   from,
		logger: logger,
		send:   send,
	}
}

func (svc sendgridService) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	if svc.key == "" || svc.from == nil {
		svc.logger.Warn(ErrNotConfigured.Error())
		return ErrNotConfigured
	}
	if !(msg.HasRecipients() && msg.HasContent()) {
		return ErrNoRecipients
	}

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(*msg))

	res, err := svc.send(ctx, req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (svc sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(getSGEmail(to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)

	// text/plain must come first
	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

func getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}
