package safebox_test

import (
	"strings"
	"testing"
	"time"

	"yckf-go/internal/safebox"
	"yckf-go/internal/testutil"
)

func TestReportFormValidate(t *testing.T) {
	valid := safebox.ReportForm{
		FullName:  "Ada Obi",
		Email:     "ada@example.org",
		CrimeType: "Phishing",
		Details:   "Received a fake bank email asking for my PIN.",
	}

	t.Run("accepts a complete form", func(t *testing.T) {
		form := valid
		if err := form.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("names every missing field", func(t *testing.T) {
		form := safebox.ReportForm{Email: "ada@example.org"}
		err := form.Validate()
		if err == nil {
			t.Fatal("Validate() expected error")
		}
		for _, want := range []string{"full name", "crime type", "details"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q does not name %q", err, want)
			}
		}
		if strings.Contains(err.Error(), "email") {
			t.Errorf("error %q names a field that was present", err)
		}
	})

	t.Run("whitespace-only fields count as missing", func(t *testing.T) {
		form := valid
		form.Details = "   \t"
		if err := form.Validate(); err == nil {
			t.Error("Validate() expected error for blank details")
		}
	})
}

func TestFormatReportMessage(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	form := &safebox.ReportForm{
		FullName:       "Ada Obi",
		Email:          "ada@example.org",
		PhoneNumber:    "+2348012345678",
		City:           "Lagos",
		DateOfIncident: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		CrimeType:      "Phishing",
		Details:        "Received a fake bank email asking for my PIN.",
	}

	t.Run("subject carries the case code", func(t *testing.T) {
		subject, _ := safebox.FormatReportMessage("YCKF123456789", form, now)
		if subject != "Cybercrime Report - Case ID: YCKF123456789" {
			t.Errorf("subject = %q", subject)
		}
	})

	t.Run("body contains every section and field", func(t *testing.T) {
		_, body := safebox.FormatReportMessage("YCKF123456789", form, now)
		for _, want := range []string{
			"CYBERCRIME REPORT",
			"REPORTER INFORMATION",
			"Full Name: Ada Obi",
			"Email: ada@example.org",
			"Phone: +2348012345678",
			"City/Location: Lagos",
			"Date of Incident: 2025-03-08",
			"Type of Cybercrime: Phishing",
			"Received a fake bank email asking for my PIN.",
			"Timestamp: 2025-03-10 09:15:00",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
		if strings.Contains(body, "GPS LOCATION") {
			t.Error("body has a GPS section without a location")
		}
	})

	t.Run("location adds coordinates, accuracy and a maps link", func(t *testing.T) {
		withLoc := *form
		withLoc.Location = &safebox.Location{Latitude: 6.524379, Longitude: 3.379206, Accuracy: 12.4}

		_, body := safebox.FormatReportMessage("YCKF123456789", &withLoc, now)
		for _, want := range []string{
			"GPS LOCATION",
			"Coordinates: 6.524379, 3.379206",
			"Accuracy: ±12m",
			"https://maps.google.com/?q=6.524379,3.379206",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
	})

	t.Run("attachments are counted", func(t *testing.T) {
		withPhotos := *form
		withPhotos.Attachments = []string{"/tmp/a.jpg", "/tmp/b.jpg"}

		_, body := safebox.FormatReportMessage("YCKF123456789", &withPhotos, now)
		if !strings.Contains(body, "2 photo(s) attached") {
			t.Errorf("body missing attachment count:\n%s", body)
		}
	})
}

func TestFormatContactMessage(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	form := &safebox.ContactForm{Name: "Ada Obi", Email: "ada@example.org", Message: "How do I follow up on my case?"}

	subject, body := safebox.FormatContactMessage(form, now)
	if subject != "Contact Form Submission from Ada Obi" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{
		"CONTACT FORM MESSAGE",
		"Name: Ada Obi",
		"Email: ada@example.org",
		"How do I follow up on my case?",
		"Timestamp: 2025-03-10 09:15:00",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestFormatLocationMessage(t *testing.T) {
	msg := safebox.FormatLocationMessage(&safebox.Location{Latitude: 6.5, Longitude: 3.4, Accuracy: 25})
	for _, want := range []string{
		"My current location:",
		"Coordinates: 6.500000, 3.400000",
		"Accuracy: ±25m",
		"https://maps.google.com/?q=6.5,3.4",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestYCKFCaseCodes(t *testing.T) {
	codes := safebox.YCKFCaseCodes{Clock: testutil.FixedClock()}

	code := codes.NewCode()
	if len(code) != 13 {
		t.Fatalf("code %q has length %d, want 13", code, len(code))
	}
	if !strings.HasPrefix(code, "YCKF") {
		t.Errorf("code %q does not start with YCKF", code)
	}
	for _, r := range code[4:] {
		if r < '0' || r > '9' {
			t.Errorf("code %q has non-digit suffix", code)
			break
		}
	}
}
