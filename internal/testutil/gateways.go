package testutil

import (
	"context"
	"fmt"

	"yckf-go/internal/safebox"
)

// FakeComposer records composed messages and answers with a scripted status.
type FakeComposer struct {
	Status   safebox.ComposeStatus
	Err      error
	Messages []safebox.MailMessage
}

// NewFakeComposer creates a composer that reports every message as sent.
func NewFakeComposer() *FakeComposer {
	return &FakeComposer{Status: safebox.ComposeSent}
}

func (f *FakeComposer) Available() bool { return true }

func (f *FakeComposer) Compose(_ context.Context, msg safebox.MailMessage) (safebox.ComposeStatus, error) {
	if f.Err != nil {
		return safebox.ComposeCancelled, f.Err
	}
	f.Messages = append(f.Messages, msg)
	return f.Status, nil
}

// FakeChat records opened chats and answers with a scripted outcome.
type FakeChat struct {
	Opened   bool
	Err      error
	Numbers  []string
	Messages []string
}

// NewFakeChat creates a chat opener that reports every chat as opened.
func NewFakeChat() *FakeChat {
	return &FakeChat{Opened: true}
}

func (f *FakeChat) OpenChat(_ context.Context, phoneNumber, message string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	f.Numbers = append(f.Numbers, phoneNumber)
	f.Messages = append(f.Messages, message)
	return f.Opened, nil
}

// FakeNotifier records posted notifications.
type FakeNotifier struct {
	Err    error
	Titles []string
	Bodies []string
	idgen  *StubIDGenerator
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{idgen: NewStubIDGenerator()}
}

func (f *FakeNotifier) Post(_ context.Context, title, body, channel string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.Titles = append(f.Titles, title)
	f.Bodies = append(f.Bodies, body)
	return f.idgen.New(), nil
}

// StaticLocation answers every request with the same fix (or none).
type StaticLocation struct {
	Fix *safebox.Location
	Err error
}

func (s *StaticLocation) CurrentLocation(context.Context) (*safebox.Location, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Fix, nil
}

// StubOpener records opened URLs.
type StubOpener struct {
	Unavailable bool
	Err         error
	URLs        []string
}

func (o *StubOpener) Available() bool { return !o.Unavailable }

func (o *StubOpener) Open(_ context.Context, url string) error {
	if o.Unavailable {
		return fmt.Errorf("no opener available")
	}
	if o.Err != nil {
		return o.Err
	}
	o.URLs = append(o.URLs, url)
	return nil
}
