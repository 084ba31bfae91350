package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sarkargroup/smd-backend/internal/config"
	"github.com/sarkargroup/smd-backend/pkg/logger"
)

const resetPasswordSubject = "Reset your password"

var resetPasswordTemplate = template.Must(template.New("reset").Parse(`<html><body style="font-family: Arial, sans-serif;">
<h2>Hello {{.FirstName}},</h2>
<p>We received a request to reset your password. Use the link below to choose a new one.</p>
<p><a href="{{.ResetLink}}" style="padding: 10px 16px; background: #1677ff; color: #fff; border-radius: 4px; text-decoration: none;">Reset password</a></p>
<p>If you did not ask for this, you can ignore this mail.</p>
<hr><p style="color: #888; font-size: 12px;">Sarkar Group SMD</p>
</body></html>`))

// EmailService sends mail through the configured SMTP relay.
type EmailService struct {
	config *config.SMTPConfig
}

func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	return &EmailService{config: cfg}
}

// Enabled reports whether an SMTP host is configured.
func (s *EmailService) Enabled() bool {
	return s.config != nil && s.config.Host != ""
}

// Process sends a queued mail task. It matches the queue processor signature.
func (s *EmailService) Process(_ context.Context, task *MailTask) error {
	return s.SendResetPassword(task)
}

func (s *EmailService) SendResetPassword(task *MailTask) error {
	if !s.Enabled() {
		logger.Infof("[Email] SMTP not configured, skipping reset mail to %s", task.To)
		return nil
	}

	body, err := buildResetPasswordBody(task)
	if err != nil {
		return err
	}
	return s.sendEmail([]string{task.To}, resetPasswordSubject, body)
}

func buildResetPasswordBody(task *MailTask) (string, error) {
	var buf bytes.Buffer
	if err := resetPasswordTemplate.Execute(&buf, task); err != nil {
		return "", fmt.Errorf("render reset mail: %w", err)
	}
	return buf.String(), nil
}

func (s *EmailService) sendEmail(to []string, subject, body string) error {
	cfg := s.config
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	headers := [][2]string{
		{"From", from},
		{"To", strings.Join(to, ",")},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var message strings.Builder
	for _, h := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	var err error
	if cfg.UseTLS {
		err = s.sendEmailTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent %q to %v", subject, to)
	return nil
}

func (s *EmailService) sendEmailTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
