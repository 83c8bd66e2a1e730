// Package mail delivers email either through a configured SMTP relay or, when
// none is configured, by handing a mailto: URL to the system opener.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"yckf-go/internal/config"
	"yckf-go/internal/opener"
	"yckf-go/internal/safebox"
)

// SMTPComposer sends mail through a configured relay. Attachments are not
// transferred; their file names are appended to the body so the recipient
// knows to request them.
type SMTPComposer struct {
	host string
	port int
	from string

	// send is swapped out in tests.
	send func(addr, from string, to []string, msg []byte) error
}

// NewSMTPComposer creates a composer for the given relay.
func NewSMTPComposer(cfg config.MailConfig) *SMTPComposer {
	port := cfg.Port
	if port == 0 {
		port = 25
	}
	return &SMTPComposer{
		host: cfg.Host,
		port: port,
		from: cfg.From,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (c *SMTPComposer) Available() bool { return c.host != "" }

func (c *SMTPComposer) Compose(_ context.Context, msg safebox.MailMessage) (safebox.ComposeStatus, error) {
	if !c.Available() {
		return safebox.ComposeCancelled, fmt.Errorf("no SMTP relay configured")
	}

	body := msg.Body
	if len(msg.Attachments) > 0 {
		body += fmt.Sprintf("\nReferenced files: %s\n", strings.Join(msg.Attachments, ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	if err := c.send(addr, c.from, msg.Recipients, []byte(b.String())); err != nil {
		return safebox.ComposeCancelled, fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return safebox.ComposeSent, nil
}

// MailtoComposer opens the user's mail client with a prefilled draft.
// Attachments cannot travel over a mailto: URL and are dropped, matching the
// limits of the handler protocol.
type MailtoComposer struct {
	opener opener.Opener
}

// NewMailtoComposer creates a composer that defers to the system mail client.
func NewMailtoComposer(o opener.Opener) *MailtoComposer {
	return &MailtoComposer{opener: o}
}

func (c *MailtoComposer) Available() bool { return c.opener.Available() }

func (c *MailtoComposer) Compose(ctx context.Context, msg safebox.MailMessage) (safebox.ComposeStatus, error) {
	if !c.Available() {
		return safebox.ComposeCancelled, fmt.Errorf("no mail client available")
	}
	if err := c.opener.Open(ctx, MailtoURL(msg)); err != nil {
		return safebox.ComposeCancelled, fmt.Errorf("opening mail client: %w", err)
	}
	// The handler gives no delivery feedback; a successful handoff is the
	// strongest acknowledgment this channel offers.
	return safebox.ComposeSent, nil
}

// MailtoURL builds the mailto: URL for a message.
func MailtoURL(msg safebox.MailMessage) string {
	query := url.Values{}
	query.Set("subject", msg.Subject)
	query.Set("body", msg.Body)
	return fmt.Sprintf("mailto:%s?%s",
		url.PathEscape(strings.Join(msg.Recipients, ",")), query.Encode())
}

// NewComposerFromConfig selects the delivery strategy once: SMTP when a relay
// is configured, otherwise the mailto: handoff.
func NewComposerFromConfig(cfg config.MailConfig, o opener.Opener) safebox.MailComposer {
	if cfg.Host != "" {
		return NewSMTPComposer(cfg)
	}
	return NewMailtoComposer(o)
}

// Compile-time checks that both composers implement the MailComposer interface
var (
	_ safebox.MailComposer = (*SMTPComposer)(nil)
	_ safebox.MailComposer = (*MailtoComposer)(nil)
)
