package email

import (
	"context"
	"crypto/tls"
	"log/slog"
	"strings"
	"time"

	"github.com/maherraissi/MedFlow/config"
	"gopkg.in/gomail.v2"
)

// Client sends email over SMTP, or simulates sends when the deployment has
// no mail configuration: the message is validated and logged, and Send
// returns nil so callers behave identically either way.
type Client struct {
	cfg Config
}

// NewFromCentral creates a client from central config.
func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	return &Client{cfg: cfg}, nil
}

// Simulated reports whether sends are logged instead of dialed.
func (c *Client) Simulated() bool { return !c.cfg.Enabled }

func (c *Client) Send(ctx context.Context, m Message) error {
	msg, err := c.buildMessage(m)
	if err != nil {
		return err
	}

	if c.Simulated() {
		slog.Info("email simulated",
			"to", strings.Join(m.To, ","),
			"subject", m.Subject,
			"simulated", true)
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- c.newDialer().DialAndSend(msg)
	}()

	// Respect ctx deadline if it's sooner than our config timeout.
	wait := c.cfg.SMTPTimeout()
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "gomail/smtp", Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func (c *Client) newDialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	d.SSL = c.cfg.SMTPUseTLS
	if c.cfg.SMTPUseTLS {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return d
}

func (c *Client) buildMessage(m Message) (*gomail.Message, error) {
	msg := gomail.NewMessage()

	from := strings.TrimSpace(c.cfg.From)
	if from == "" && !c.Simulated() {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	if from != "" {
		msg.SetHeader("From", from)
	}

	to := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	msg.SetHeader("To", to...)

	subj := strings.TrimSpace(m.Subject)
	if subj == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}
	msg.SetHeader("Subject", subj)

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}

	return msg, nil
}
