package safebox_test

import (
	"context"
	"strings"
	"testing"

	"yckf-go/internal/safebox"
	"yckf-go/internal/testutil"
)

type serviceFixture struct {
	service  *safebox.Service
	store    *safebox.EvidenceStore
	cases    safebox.CaseDatabase
	composer *testutil.FakeComposer
	chat     *testutil.FakeChat
	notifier *testutil.FakeNotifier
	location *testutil.StaticLocation
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	store := safebox.NewEvidenceStore(testutil.NewTestKV(), testutil.FixedClock(), safebox.NewNopLogger(), 0)
	f := &serviceFixture{
		store:    store,
		cases:    testutil.NewTestCaseDB(t),
		composer: testutil.NewFakeComposer(),
		chat:     testutil.NewFakeChat(),
		notifier: testutil.NewFakeNotifier(),
		location: &testutil.StaticLocation{Fix: &safebox.Location{Latitude: 6.5, Longitude: 3.4, Accuracy: 25}},
	}
	f.service = safebox.NewService(
		store,
		f.cases,
		f.composer,
		f.chat,
		f.notifier,
		f.location,
		safebox.Contacts{Email: "yourcyberkonsult@gmail.com", WhatsApp: "+2349136710349"},
		safebox.NewNopLogger(),
		testutil.FixedClock(),
		testutil.NewStubIDGenerator(),
		testutil.NewStubCaseCodes(),
	)
	return f
}

func validReport() *safebox.ReportForm {
	return &safebox.ReportForm{
		FullName:  "Ada Obi",
		Email:     "ada@example.org",
		CrimeType: "Phishing",
		Details:   "Received a fake bank email asking for my PIN.",
	}
}

func TestServiceFileReport(t *testing.T) {
	ctx := context.Background()

	t.Run("queues the report and opens a case", func(t *testing.T) {
		f := newServiceFixture(t)

		code, err := f.service.FileReport(ctx, validReport())
		if err != nil {
			t.Fatalf("FileReport() error = %v", err)
		}
		if code != "YCKF000001" {
			t.Errorf("code = %q", code)
		}

		snap, _ := f.store.Current()
		if snap.TotalItems != 1 {
			t.Fatalf("expected 1 queued item, got %d", snap.TotalItems)
		}
		record := snap.Items[0]
		if record.ID != code || record.Kind != safebox.KindReport || record.Submitted {
			t.Errorf("queued record is wrong: %+v", record)
		}

		c, err := f.cases.FindCase(ctx, code)
		if err != nil || c == nil {
			t.Fatalf("FindCase() = %v, %v", c, err)
		}
		if c.Status != safebox.StatusReceived || c.CrimeType != "Phishing" {
			t.Errorf("case opened wrong: %+v", c)
		}

		if len(f.notifier.Titles) != 1 || f.notifier.Titles[0] != "Report queued" {
			t.Errorf("notifications = %v", f.notifier.Titles)
		}
	})

	t.Run("rejects an incomplete form without queueing", func(t *testing.T) {
		f := newServiceFixture(t)

		if _, err := f.service.FileReport(ctx, &safebox.ReportForm{FullName: "Ada Obi"}); err == nil {
			t.Fatal("FileReport() expected validation error")
		}

		if _, err := f.store.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		snap, _ := f.store.Current()
		if snap.TotalItems != 0 {
			t.Errorf("invalid report was queued: %+v", snap)
		}
	})

	t.Run("notification failure does not fail the report", func(t *testing.T) {
		f := newServiceFixture(t)
		f.notifier.Err = context.DeadlineExceeded

		if _, err := f.service.FileReport(ctx, validReport()); err != nil {
			t.Errorf("FileReport() error = %v", err)
		}
	})
}

func TestServiceSubmitEvidence(t *testing.T) {
	ctx := context.Background()

	t.Run("email success marks the record submitted", func(t *testing.T) {
		f := newServiceFixture(t)
		code, err := f.service.FileReport(ctx, validReport())
		if err != nil {
			t.Fatalf("FileReport() error = %v", err)
		}

		if err := f.service.SubmitEvidence(ctx, code, safebox.ChannelEmail); err != nil {
			t.Fatalf("SubmitEvidence() error = %v", err)
		}

		if len(f.composer.Messages) != 1 {
			t.Fatalf("expected 1 composed message, got %d", len(f.composer.Messages))
		}
		msg := f.composer.Messages[0]
		if msg.Recipients[0] != "yourcyberkonsult@gmail.com" {
			t.Errorf("recipient = %q", msg.Recipients[0])
		}
		if !strings.Contains(msg.Subject, code) {
			t.Errorf("subject %q missing case code", msg.Subject)
		}
		if !strings.Contains(msg.Body, "CYBERCRIME REPORT") {
			t.Errorf("body is not the full report format:\n%s", msg.Body)
		}

		snap, _ := f.store.Current()
		if !snap.Items[0].Submitted {
			t.Error("record not marked submitted after successful send")
		}

		updates, err := f.cases.ListUpdates(ctx, code)
		if err != nil {
			t.Fatalf("ListUpdates() error = %v", err)
		}
		if len(updates) != 1 || !strings.Contains(updates[0].Message, "via email") {
			t.Errorf("case timeline = %+v", updates)
		}
	})

	t.Run("a saved draft does not count as submitted", func(t *testing.T) {
		f := newServiceFixture(t)
		code, _ := f.service.FileReport(ctx, validReport())

		f.composer.Status = safebox.ComposeSaved
		if err := f.service.SubmitEvidence(ctx, code, safebox.ChannelEmail); err == nil {
			t.Fatal("SubmitEvidence() expected error for a saved draft")
		}

		snap, _ := f.store.Current()
		if snap.Items[0].Submitted {
			t.Error("record marked submitted without a successful send")
		}
	})

	t.Run("whatsapp handoff marks the record submitted", func(t *testing.T) {
		f := newServiceFixture(t)
		code, _ := f.service.FileReport(ctx, validReport())

		if err := f.service.SubmitEvidence(ctx, code, safebox.ChannelWhatsApp); err != nil {
			t.Fatalf("SubmitEvidence() error = %v", err)
		}
		if len(f.chat.Numbers) != 1 || f.chat.Numbers[0] != "+2349136710349" {
			t.Errorf("chat numbers = %v", f.chat.Numbers)
		}

		snap, _ := f.store.Current()
		if !snap.Items[0].Submitted {
			t.Error("record not marked submitted after chat handoff")
		}
	})

	t.Run("chat that fails to open leaves the record queued", func(t *testing.T) {
		f := newServiceFixture(t)
		code, _ := f.service.FileReport(ctx, validReport())

		f.chat.Opened = false
		if err := f.service.SubmitEvidence(ctx, code, safebox.ChannelWhatsApp); err == nil {
			t.Fatal("SubmitEvidence() expected error when chat cannot open")
		}

		snap, _ := f.store.Current()
		if snap.Items[0].Submitted {
			t.Error("record marked submitted without an opened chat")
		}
	})

	t.Run("unknown id errors", func(t *testing.T) {
		f := newServiceFixture(t)
		if err := f.service.SubmitEvidence(ctx, "YCKF999999", safebox.ChannelEmail); err == nil {
			t.Error("SubmitEvidence() expected error for unknown id")
		}
	})

	t.Run("unknown channel errors", func(t *testing.T) {
		f := newServiceFixture(t)
		code, _ := f.service.FileReport(ctx, validReport())
		if err := f.service.SubmitEvidence(ctx, code, safebox.Channel("fax")); err == nil {
			t.Error("SubmitEvidence() expected error for unknown channel")
		}
	})
}

func TestServiceQueueEvidence(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	id, err := f.service.QueueEvidence(ctx, safebox.KindPhoto, "Screenshot", "Fraudulent SMS", "/tmp/shot.png", 204800)
	if err != nil {
		t.Fatalf("QueueEvidence() error = %v", err)
	}
	if id != "id-1" {
		t.Errorf("id = %q", id)
	}

	snap, _ := f.store.Current()
	if snap.TotalItems != 1 || snap.TotalSize != 204800 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Items[0].Kind != safebox.KindPhoto || snap.Items[0].Submitted {
		t.Errorf("queued item = %+v", snap.Items[0])
	}
}

func TestServiceSendContactMessage(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	status, err := f.service.SendContactMessage(ctx, &safebox.ContactForm{
		Name:    "Ada Obi",
		Email:   "ada@example.org",
		Message: "How do I follow up on my case?",
	})
	if err != nil {
		t.Fatalf("SendContactMessage() error = %v", err)
	}
	if status != safebox.ComposeSent {
		t.Errorf("status = %q", status)
	}
	if len(f.composer.Messages) != 1 || !strings.Contains(f.composer.Messages[0].Subject, "Ada Obi") {
		t.Errorf("messages = %+v", f.composer.Messages)
	}
}

func TestServiceShareLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the fix over whatsapp", func(t *testing.T) {
		f := newServiceFixture(t)
		if err := f.service.ShareLocation(ctx, safebox.ChannelWhatsApp); err != nil {
			t.Fatalf("ShareLocation() error = %v", err)
		}
		if len(f.chat.Messages) != 1 || !strings.Contains(f.chat.Messages[0], "Coordinates: 6.500000, 3.400000") {
			t.Errorf("chat messages = %v", f.chat.Messages)
		}
	})

	t.Run("no fix means an error, not a silent send", func(t *testing.T) {
		f := newServiceFixture(t)
		f.location.Fix = nil
		if err := f.service.ShareLocation(ctx, safebox.ChannelEmail); err == nil {
			t.Fatal("ShareLocation() expected error without a fix")
		}
		if len(f.composer.Messages) != 0 {
			t.Errorf("composed without a fix: %+v", f.composer.Messages)
		}
	})
}

func TestServiceCaseTracking(t *testing.T) {
	ctx := context.Background()

	t.Run("track returns the case and its timeline", func(t *testing.T) {
		f := newServiceFixture(t)
		code, _ := f.service.FileReport(ctx, validReport())

		if err := f.service.UpdateCase(ctx, code, safebox.StatusInvestigating, "Assigned to analyst", "admin"); err != nil {
			t.Fatalf("UpdateCase() error = %v", err)
		}

		c, updates, err := f.service.TrackCase(ctx, code)
		if err != nil {
			t.Fatalf("TrackCase() error = %v", err)
		}
		if c.Status != safebox.StatusInvestigating {
			t.Errorf("status = %q", c.Status)
		}
		if len(updates) != 1 || updates[0].Message != "Assigned to analyst" {
			t.Errorf("updates = %+v", updates)
		}

		// One notification for filing, one for the status change.
		if len(f.notifier.Titles) != 2 {
			t.Errorf("notifications = %v", f.notifier.Titles)
		}
	})

	t.Run("tracking an unknown code errors", func(t *testing.T) {
		f := newServiceFixture(t)
		if _, _, err := f.service.TrackCase(ctx, "YCKF999999"); err == nil {
			t.Error("TrackCase() expected error for unknown code")
		}
	})

	t.Run("updating an unknown code errors", func(t *testing.T) {
		f := newServiceFixture(t)
		if err := f.service.UpdateCase(ctx, "YCKF999999", safebox.StatusResolved, "done", "admin"); err == nil {
			t.Error("UpdateCase() expected error for unknown code")
		}
	})

	t.Run("list returns every filed case", func(t *testing.T) {
		f := newServiceFixture(t)
		first, _ := f.service.FileReport(ctx, validReport())
		second, _ := f.service.FileReport(ctx, validReport())

		cases, err := f.service.ListCases(ctx)
		if err != nil {
			t.Fatalf("ListCases() error = %v", err)
		}
		if len(cases) != 2 {
			t.Fatalf("expected 2 cases, got %d", len(cases))
		}
		got := map[string]bool{cases[0].Code: true, cases[1].Code: true}
		if !got[first] || !got[second] {
			t.Errorf("cases = %v, want %s and %s", got, first, second)
		}
	})
}
