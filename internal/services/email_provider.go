package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const smtpDialTimeout = 30 * time.Second

// SMTPProvider implements email sending via SMTP. Port 465 uses implicit TLS;
// other ports upgrade with STARTTLS when the server offers it.
type SMTPProvider struct {
	host        string
	port        string
	username    string
	password    string
	from        string
	fromName    string
	implicitTLS bool
	tlsConfig   *tls.Config
	now         func() time.Time
}

// NewSMTPProvider creates a new SMTP email provider
func NewSMTPProvider(config *ProviderConfig) *SMTPProvider {
	return &SMTPProvider{
		host:        config.SMTPHost,
		port:        strconv.Itoa(config.SMTPPort),
		username:    config.SMTPUsername,
		password:    config.SMTPPassword,
		from:        config.From,
		fromName:    config.FromName,
		implicitTLS: config.SMTPPort == 465,
		tlsConfig:   &tls.Config{ServerName: config.SMTPHost, MinVersion: tls.VersionTLS12},
		now:         time.Now,
	}
}

// Send sends an email via SMTP as a multipart/alternative message
func (p *SMTPProvider) Send(ctx context.Context, message *Message) (*SendResult, error) {
	from, fromName := sender(message, p.from, p.fromName)
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from))

	raw, err := buildMIMEMessage(formatAddress(fromName, from), messageID, p.now(), message)
	if err != nil {
		return &SendResult{ProviderName: p.GetName(), Success: false, Error: err}, err
	}

	recipients := []string{message.To}
	if err := p.deliver(ctx, from, recipients, raw); err != nil {
		return &SendResult{ProviderName: p.GetName(), Success: false, Error: err}, err
	}

	return &SendResult{
		ProviderID:   messageID,
		ProviderName: p.GetName(),
		Accepted:     recipients,
		Success:      true,
	}, nil
}

func (p *SMTPProvider) deliver(ctx context.Context, from string, recipients []string, raw []byte) error {
	addr := net.JoinHostPort(p.host, p.port)
	dialer := &net.Dialer{Timeout: smtpDialTimeout}

	var conn net.Conn
	var err error
	if p.implicitTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: p.tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer client.Close()

	if !p.implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(p.tlsConfig); err != nil {
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}

	if p.username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", p.username, p.password, p.host)); err != nil {
				return fmt.Errorf("SMTP auth failed: %w", err)
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, recipient := range recipients {
		if err := client.Rcpt(recipient); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// GetName returns the provider name
func (p *SMTPProvider) GetName() string {
	return "SMTP"
}

// buildMIMEMessage renders headers and a text/html alternative body
func buildMIMEMessage(from, messageID string, date time.Time, message *Message) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", message.Body},
		{"text/html; charset=utf-8", message.BodyHTML},
	}
	for _, part := range parts {
		if part.content == "" {
			continue
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", part.contentType)
		header.Set("Content-Transfer-Encoding", "quoted-printable")
		pw, err := mw.CreatePart(header)
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		buf.WriteString(key + ": " + value + "\r\n")
	}
	writeHeader("From", from)
	writeHeader("To", message.To)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", message.Subject))
	writeHeader("Date", date.Format(time.RFC1123Z))
	writeHeader("Message-ID", messageID)
	if message.ReplyTo != "" {
		writeHeader("Reply-To", message.ReplyTo)
	}

	keys := make([]string, 0, len(message.Headers))
	for k := range message.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(k, message.Headers[k])
	}

	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")
	buf.Write(body.Bytes())

	return buf.Bytes(), nil
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

// SendGridProvider implements email sending via SendGrid
type SendGridProvider struct {
	from     string
	fromName string
	client   *sendgrid.Client
}

// NewSendGridProvider creates a new SendGrid email provider
func NewSendGridProvider(config *ProviderConfig) *SendGridProvider {
	return &SendGridProvider{
		from:     config.From,
		fromName: config.FromName,
		client:   sendgrid.NewSendClient(config.SendGridAPIKey),
	}
}

// Send sends an email via SendGrid
func (p *SendGridProvider) Send(ctx context.Context, message *Message) (*SendResult, error) {
	fromAddr, fromName := sender(message, p.from, p.fromName)
	from := mail.NewEmail(fromName, fromAddr)
	to := mail.NewEmail("", message.To)

	m := mail.NewSingleEmail(from, message.Subject, to, message.Body, message.BodyHTML)

	if message.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", message.ReplyTo))
	}
	if len(message.Headers) > 0 {
		m.Headers = message.Headers
	}

	// Links in order emails must not be rewritten
	trackingSettings := mail.NewTrackingSettings()
	clickTracking := mail.NewClickTrackingSetting()
	clickTracking.SetEnable(false)
	clickTracking.SetEnableText(false)
	trackingSettings.SetClickTracking(clickTracking)
	openTracking := mail.NewOpenTrackingSetting()
	openTracking.SetEnable(false)
	trackingSettings.SetOpenTracking(openTracking)
	m.SetTrackingSettings(trackingSettings)

	response, err := p.client.SendWithContext(ctx, m)
	if err != nil {
		return &SendResult{ProviderName: p.GetName(), Success: false, Error: err}, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var messageID string
		if ids, ok := response.Headers["X-Message-Id"]; ok && len(ids) > 0 {
			messageID = ids[0]
		}
		return &SendResult{
			ProviderID:   messageID,
			ProviderName: p.GetName(),
			Accepted:     []string{message.To},
			Success:      true,
		}, nil
	}

	err = fmt.Errorf("SendGrid API error: %d - %s", response.StatusCode, response.Body)
	return &SendResult{ProviderName: p.GetName(), Success: false, Error: err}, err
}

// GetName returns the provider name
func (p *SendGridProvider) GetName() string {
	return "SendGrid"
}
