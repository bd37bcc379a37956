package services

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by NewProvider
const (
	ProviderSMTP     = "smtp"
	ProviderSES      = "ses"
	ProviderSendGrid = "sendgrid"
)

// Provider sends a rendered email through one mail transport
type Provider interface {
	Send(ctx context.Context, message *Message) (*SendResult, error)
	GetName() string
}

// Message represents an email to be sent. Body and BodyHTML are sent together
// as alternatives of the same content.
type Message struct {
	To       string
	Subject  string
	Body     string
	BodyHTML string
	From     string
	FromName string
	ReplyTo  string
	Headers  map[string]string
}

// SendResult represents the result of a send operation
type SendResult struct {
	ProviderID   string
	ProviderName string
	Accepted     []string
	Success      bool
	Error        error
}

// ProviderConfig represents provider configuration
type ProviderConfig struct {
	From     string
	FromName string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	// AWS SES
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// SendGrid
	SendGridAPIKey string
}

// NewProvider builds the mail transport selected by name
func NewProvider(name string, cfg *ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("smtp provider requires a host")
		}
		return NewSMTPProvider(cfg), nil
	case ProviderSES:
		return NewSESProvider(cfg)
	case ProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires an API key")
		}
		return NewSendGridProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", name)
	}
}

// formatAddress renders "Name <addr>" or the bare address
func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

// sender picks the message's From when set, otherwise the provider default
func sender(message *Message, from, fromName string) (string, string) {
	if message.From != "" {
		return message.From, message.FromName
	}
	return from, fromName
}
