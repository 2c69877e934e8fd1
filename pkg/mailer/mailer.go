package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/th3void/lotus-routine/config"
)

type IMailer interface {
	SendText(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	cfg config.MailConfigs
}

func New(cfg config.MailConfigs) IMailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendText(ctx context.Context, to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.Sender == "" {
		return fmt.Errorf("smtp not configured")
	}

	headers := []string{
		"From: " + m.cfg.Sender,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.Sender, []string{to}, []byte(msg))
}
