package safebox

import "context"

// Channel identifies an external submission channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// ComposeStatus is the outcome of handing a message to the mail composer.
type ComposeStatus string

const (
	ComposeSent      ComposeStatus = "sent"
	ComposeSaved     ComposeStatus = "saved"
	ComposeCancelled ComposeStatus = "cancelled"
)

// MailMessage is one outbound email.
type MailMessage struct {
	Recipients  []string
	Subject     string
	Body        string
	Attachments []string // local file paths
}

// MailComposer delivers email on behalf of the user.
// Available reports whether a real composer is configured; callers pick a
// fallback channel once, up front, rather than special-casing per send.
type MailComposer interface {
	Available() bool
	Compose(ctx context.Context, msg MailMessage) (ComposeStatus, error)
}

// ChatOpener opens a messaging app chat with a prefilled message.
// The returned bool reports whether the chat was actually opened.
type ChatOpener interface {
	OpenChat(ctx context.Context, phoneNumber, message string) (bool, error)
}

// NotificationPoster posts a local notification and returns its ID.
type NotificationPoster interface {
	Post(ctx context.Context, title, body, channel string) (string, error)
}

// Location is a GPS fix.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"` // meters
	Timestamp int64   `json:"timestamp,omitempty"`
}

// LocationProvider acquires the device's current position.
// A nil Location with a nil error means the provider is unavailable or the
// user denied access.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (*Location, error)
}

// Contacts holds the foundation's inbound contact points.
type Contacts struct {
	Email    string
	WhatsApp string
}
