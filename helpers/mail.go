package helpers

import (
	"bytes"
	"html/template"

	"gopkg.in/gomail.v2"
)

type EmailData struct {
	EmailTo      string
	NameTo       string
	EmailFrom    string
	NameFrom     string
	Subject      string
	TemplatePath string
	SMTP         *gomail.Dialer
}

func (ed *EmailData) SendEmail(data interface{}) error {
	t, err := template.ParseFiles(ed.TemplatePath)
	if err != nil {
		return err
	}
	var tpl bytes.Buffer
	if err := t.Execute(&tpl, data); err != nil {
		return err
	}

	result := tpl.String()
	m := gomail.NewMessage()

	m.SetHeader("From", m.FormatAddress(ed.EmailFrom, ed.NameFrom))
	m.SetHeader("To", m.FormatAddress(ed.EmailTo, ed.NameTo))
	m.SetHeader("Subject", ed.Subject)
	m.SetBody("text/html", result)
	if err := ed.SMTP.DialAndSend(m); err != nil {
		return err
	}
	return nil
}
