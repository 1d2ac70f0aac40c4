package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailPublisher sends alerts over plain SMTP.
type EmailPublisher struct {
	Host     string
	Port     int
	From     string
	To       []string
	Username string
	Password string
}

func NewEmailPublisher(host string, port int, from, to, username, password string) *EmailPublisher {
	if host == "" || from == "" || to == "" {
		return nil
	}
	recipients := strings.Split(to, ",")
	for i := range recipients {
		recipients[i] = strings.TrimSpace(recipients[i])
	}
	return &EmailPublisher{
		Host:     host,
		Port:     port,
		From:     from,
		To:       recipients,
		Username: username,
		Password: password,
	}
}

func (e *EmailPublisher) Publish(_ context.Context, alert Alert) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		e.From, strings.Join(e.To, ", "), alert.Subject(), alert.Message())

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)

	var auth smtp.Auth
	if e.Username != "" {
		auth = smtp.PlainAuth("", e.Username, e.Password, e.Host)
	}

	return smtp.SendMail(addr, auth, e.From, e.To, []byte(msg))
}
