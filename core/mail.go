package core

import (
	"bytes"
	"net/mail"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated content
		Template     *texttmpl.Template
		TemplateData interface{}
		TextContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages renders and sends messages, returning the first failure.
		SendMessages(messages ...*EmailMessage) error
	}
)

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.Template == nil {
		return nil
	}
	var buff bytes.Buffer
	if err := m.Template.Execute(&buff, m.TemplateData); err != nil {
		return errors.Wrapf(err, "rendering %q", m.Template.Name())
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }

// ParseAddressList parses a comma separated list of addresses, e.g. "Ada <ada@test.cd>, bob@test.cd".
func ParseAddressList(list string) ([]mail.Address, error) {
	list = CleanString(list)
	if list == "" {
		return nil, nil
	}
	addrs, err := mail.ParseAddressList(list)
	if err != nil {
		return nil, NewValidationError(err, FieldError{Field: "to", Error: "invalid email address list"})
	}
	res := make([]mail.Address, 0, len(addrs))
	for _, a := range addrs {
		res = append(res, mail.Address{Name: a.Name, Address: strings.ToLower(a.Address)})
	}
	return res, nil
}
