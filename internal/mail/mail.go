// Package mail delivers transactional email.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrDisabled is returned when no SMTP host is configured.
var ErrDisabled = errors.New("mail delivery is not configured")

const resetSubject = "Recuperação de Senha - VibeBoxing"

// Mailer sends password reset messages.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, tempPassword string) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// LoginURL is linked from the reset message.
	LoginURL string
}

// SMTPMailer sends mail over implicit TLS (port 465) or STARTTLS.
type SMTPMailer struct {
	cfg     Config
	timeout time.Duration
}

// New returns an SMTP mailer. An empty host yields a mailer that always
// fails with ErrDisabled.
func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, timeout: 15 * time.Second}
}

// Enabled reports whether a host is configured.
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendPasswordReset mails the temporary password to the account holder.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, tempPassword string) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	body, err := RenderPasswordReset(tempPassword, m.cfg.LoginURL)
	if err != nil {
		return err
	}
	msg, err := m.compose(to, resetSubject, body)
	if err != nil {
		return err
	}
	return m.send(ctx, to, msg)
}

// RenderPasswordReset renders the HTML body of the reset message.
func RenderPasswordReset(tempPassword, loginURL string) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "password_reset.html", struct {
		Password string
		LoginURL string
		Year     int
	}{tempPassword, loginURL, time.Now().Year()})
	if err != nil {
		return "", fmt.Errorf("render reset template: %w", err)
	}
	return buf.String(), nil
}

func (m *SMTPMailer) compose(to, subject, html string) ([]byte, error) {
	from, err := mail.ParseAddress(m.cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parse from address: %w", err)
	}
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("parse recipient: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", rcpt.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(html)
	return buf.Bytes(), nil
}

func (m *SMTPMailer) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	dialer := &net.Dialer{Timeout: m.timeout}
	tlsCfg := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(m.timeout))
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if m.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if m.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from, _ := mail.ParseAddress(m.cfg.From)
	if err := c.Mail(from.Address); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	rcpt, _ := mail.ParseAddress(to)
	if err := c.Rcpt(rcpt.Address); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return c.Quit()
}
