// Package email implements the notification dispatcher over SMTP, with a
// noop fallback when email delivery is disabled.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"hradmin/internal/domain/offboarding"
	"hradmin/internal/platform/config"
)

type noopDispatcher struct{}

func (noopDispatcher) SendDocumentLink(ctx context.Context, address, displayName, documentType, url string) error {
	return nil
}

type smtpDispatcher struct {
	cfg config.Config
}

func New(cfg config.Config) offboarding.Dispatcher {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopDispatcher{}
	}
	return &smtpDispatcher{cfg: cfg}
}

func (s *smtpDispatcher) SendDocumentLink(ctx context.Context, address, displayName, documentType, url string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("no contact address for %s", displayName)
	}
	subject := fmt.Sprintf("Your %s is ready", documentType)
	body := fmt.Sprintf("Dear %s,\r\n\r\nYour %s has been issued. You can download it here:\r\n%s\r\n", displayName, documentType, url)
	return s.send(ctx, s.cfg.EmailFrom, address, subject, body)
}

func (s *smtpDispatcher) send(ctx context.Context, from, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	msg := buildMessage(from, to, subject, body)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.SMTPUseTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}

	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
