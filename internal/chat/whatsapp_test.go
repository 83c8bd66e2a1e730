package chat_test

import (
	"context"
	"testing"

	"yckf-go/internal/chat"
	"yckf-go/internal/testutil"
)

func TestChatURL(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		message string
		want    string
		wantErr bool
	}{
		{
			name:    "formatted number is reduced to digits",
			phone:   "+234 913 671-0349",
			message: "hello",
			want:    "https://wa.me/2349136710349?text=hello",
		},
		{
			name:    "message is query-escaped",
			phone:   "2349136710349",
			message: "My current location:\nCoordinates: 6.5, 3.4",
			want:    "https://wa.me/2349136710349?text=My+current+location%3A%0ACoordinates%3A+6.5%2C+3.4",
		},
		{
			name:    "number without digits is rejected",
			phone:   "call me",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chat.ChatURL(tt.phone, tt.message)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ChatURL() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ChatURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ChatURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWhatsAppOpener(t *testing.T) {
	ctx := context.Background()

	t.Run("opens the deep link", func(t *testing.T) {
		op := &testutil.StubOpener{}
		w := chat.NewWhatsAppOpener(op)

		opened, err := w.OpenChat(ctx, "+2349136710349", "hello")
		if err != nil {
			t.Fatalf("OpenChat() error = %v", err)
		}
		if !opened {
			t.Error("OpenChat() = false, want true")
		}
		if len(op.URLs) != 1 || op.URLs[0] != "https://wa.me/2349136710349?text=hello" {
			t.Errorf("opened URLs = %v", op.URLs)
		}
	})

	t.Run("no URL handler reports not opened without error", func(t *testing.T) {
		w := chat.NewWhatsAppOpener(&testutil.StubOpener{Unavailable: true})

		opened, err := w.OpenChat(ctx, "+2349136710349", "hello")
		if err != nil {
			t.Fatalf("OpenChat() error = %v", err)
		}
		if opened {
			t.Error("OpenChat() = true without a handler")
		}
	})
}
