package core

import (
	"bytes"
	"context"
	"net/mail"
	"path"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/truongductri01/daily-spark/fs"
)

const emailTemplatesDir = "templates/email"

type (
	EmailMessage struct {
		To          []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessage delivers msg synchronously and reports delivery failures.
		SendMessage(ctx context.Context, msg *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// ParseEmailTemplate parses the embedded email template `name` (with its extension, e.g. "digest.html").
func ParseEmailTemplate(name string, funcs texttmpl.FuncMap) (*texttmpl.Template, error) {
	tmpl, err := texttmpl.New(name).
		Funcs(funcs).
		Option("missingkey=error").
		ParseFS(appfs.FS, path.Join(emailTemplatesDir, name))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing email template %q", name)
	}
	return tmpl, nil
}

// ExecuteTemplate renders tmpl with data.
func ExecuteTemplate(tmpl *texttmpl.Template, data interface{}) (string, error) {
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, data); err != nil {
		return "", errors.Wrapf(err, "executing template %q", tmpl.Name())
	}
	return buff.String(), nil
}

var minifyReplacer = strings.NewReplacer("\n", "", "\r", "", "\t", "")

// MinifyHTML removes line breaks and tabs from s and collapses runs of spaces into one.
func MinifyHTML(s string) string {
	s = minifyReplacer.Replace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
