package digest

import (
	"fmt"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
)

const (
	htmlTemplate = "curriculum_digest.html"
	textTemplate = "curriculum_digest.txt"
)

var (
	tmplInit  sync.Once
	tmplErr   error
	htmlTmpl  *texttmpl.Template
	textTmpl  *texttmpl.Template
	tmplFuncs = texttmpl.FuncMap{
		"badgeBackground": badgeBackground,
		"badgeColor":      badgeColor,
		"resourceLinks":   resourceLinks,
		"join":            strings.Join,
	}
)

type tmplData struct {
	DisplayName string
	Topics      []FlattenedTopic
}

func parseTemplates() {
	if htmlTmpl, tmplErr = core.ParseEmailTemplate(htmlTemplate, tmplFuncs); tmplErr != nil {
		return
	}
	textTmpl, tmplErr = core.ParseEmailTemplate(textTemplate, tmplFuncs)
}

// RenderHTML renders the minified HTML body of the digest email.
// Topic fields are inserted verbatim.
func RenderHTML(displayName string, topics []FlattenedTopic) (string, error) {
	tmplInit.Do(parseTemplates) // only parse once, on first render
	if tmplErr != nil {
		return "", tmplErr
	}
	html, err := core.ExecuteTemplate(htmlTmpl, tmplData{DisplayName: displayName, Topics: topics})
	if err != nil {
		return "", errors.Wrap(err, "rendering digest html")
	}
	return core.MinifyHTML(html), nil
}

// RenderText renders the plain text alternative of the digest email.
func RenderText(displayName string, topics []FlattenedTopic) (string, error) {
	tmplInit.Do(parseTemplates)
	if tmplErr != nil {
		return "", tmplErr
	}
	text, err := core.ExecuteTemplate(textTmpl, tmplData{DisplayName: displayName, Topics: topics})
	if err != nil {
		return "", errors.Wrap(err, "rendering digest text")
	}
	return text, nil
}

func badgeBackground(st curriculum.TopicStatus) string {
	if st == curriculum.TopicCompleted {
		return "#c8e6c9"
	}
	return "#fff3d6"
}

func badgeColor(st curriculum.TopicStatus) string {
	if st == curriculum.TopicCompleted {
		return "#388e3c"
	}
	return "#f7b84a"
}

func resourceLinks(resources []string) string {
	links := make([]string, 0, len(resources))
	for _, r := range resources {
		links = append(links, fmt.Sprintf("<a href='%s' target='_blank' style='color:#2d6cdf;'>%s</a>", r, r))
	}
	return strings.Join(links, ", ")
}
