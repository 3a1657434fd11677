package mailer

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/xxxsen/twofa/internal/otp"
)

const (
	CodeSubject = "Your 2FA Verification Code"

	defaultBodyTemplate = "Your {{.Brand}} verification code is:\n\n## {{.Code}}\n\nThis code will expire in {{.Minutes}} minutes.\n"
)

type bodyData struct {
	Brand   string
	Code    string
	Minutes int
}

// Composer builds code notification mails from a markdown template.
type Composer struct {
	brand string
	ttl   time.Duration
	tpl   *template.Template
	md    goldmark.Markdown
}

func NewComposer(brand, bodyTemplate string, ttl time.Duration) (*Composer, error) {
	if bodyTemplate == "" {
		bodyTemplate = defaultBodyTemplate
	}
	tpl, err := template.New("body").Parse(bodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse body template: %w", err)
	}
	return &Composer{brand: brand, ttl: ttl, tpl: tpl, md: goldmark.New()}, nil
}

func (c *Composer) CodeMessage(to string, code int) (Message, error) {
	minutes := int(c.ttl / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	var src bytes.Buffer
	if err := c.tpl.Execute(&src, bodyData{Brand: c.brand, Code: otp.Format(code), Minutes: minutes}); err != nil {
		return Message{}, fmt.Errorf("render body: %w", err)
	}
	var html bytes.Buffer
	if err := c.md.Convert(src.Bytes(), &html); err != nil {
		return Message{}, fmt.Errorf("convert body: %w", err)
	}
	return Message{To: to, Subject: CodeSubject, HTMLBody: html.String()}, nil
}
