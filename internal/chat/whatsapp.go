// Package chat opens messaging-app conversations through deep links.
package chat

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"yckf-go/internal/opener"
	"yckf-go/internal/safebox"
)

// WhatsAppOpener opens a WhatsApp chat with a prefilled message via the
// wa.me deep-link format.
type WhatsAppOpener struct {
	opener opener.Opener
}

// NewWhatsAppOpener creates a chat opener backed by the system URL handler.
func NewWhatsAppOpener(o opener.Opener) *WhatsAppOpener {
	return &WhatsAppOpener{opener: o}
}

// OpenChat launches a chat with the given phone number. Returns false without
// an error when no URL handler is available on this system.
func (w *WhatsAppOpener) OpenChat(ctx context.Context, phoneNumber, message string) (bool, error) {
	if !w.opener.Available() {
		return false, nil
	}
	link, err := ChatURL(phoneNumber, message)
	if err != nil {
		return false, err
	}
	if err := w.opener.Open(ctx, link); err != nil {
		return false, fmt.Errorf("opening chat link: %w", err)
	}
	return true, nil
}

// ChatURL builds the wa.me deep link for a phone number and message.
// Non-digit characters are stripped from the number.
func ChatURL(phoneNumber, message string) (string, error) {
	var digits strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", fmt.Errorf("phone number %q contains no digits", phoneNumber)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), url.QueryEscape(message)), nil
}

// Compile-time check that WhatsAppOpener implements the ChatOpener interface
var _ safebox.ChatOpener = (*WhatsAppOpener)(nil)
