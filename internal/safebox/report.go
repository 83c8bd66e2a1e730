package safebox

import (
	"fmt"
	"strings"
	"time"
)

// ReportForm is a cybercrime report as captured from the reporter.
type ReportForm struct {
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	City           string    `json:"city"`
	DateOfIncident time.Time `json:"dateOfIncident"`
	CrimeType      string    `json:"typeOfCybercrime"`
	Details        string    `json:"details"`
	Location       *Location `json:"location,omitempty"`
	Attachments    []string  `json:"evidencePhotos,omitempty"` // local file paths
}

// ContactForm is a general contact-form message.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// CrimeTypes lists the report form's cybercrime categories.
var CrimeTypes = []string{
	"Identity Theft",
	"Online Fraud",
	"Phishing",
	"Cyberbullying",
	"Ransomware",
	"Credit Card Fraud",
	"Romance Scam",
	"Investment Fraud",
	"Online Shopping Scam",
	"Social Media Fraud",
	"Business Email Compromise",
	"Cryptocurrency Fraud",
	"Fake Job Offers",
	"Tech Support Scam",
	"Other",
}

// Validate checks the report form's required fields.
func (f *ReportForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.CrimeType) == "" {
		missing = append(missing, "crime type")
	}
	if strings.TrimSpace(f.Details) == "" {
		missing = append(missing, "details")
	}
	if len(missing) > 0 {
		return fmt.Errorf("report is missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks the contact form's required fields.
func (f *ContactForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("message is missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// FormatReportMessage renders the plain-text email/chat body for a report.
func FormatReportMessage(caseCode string, form *ReportForm, now time.Time) (subject, body string) {
	subject = fmt.Sprintf("Cybercrime Report - Case ID: %s", caseCode)

	var b strings.Builder
	b.WriteString("CYBERCRIME REPORT\n===================\n\n")
	fmt.Fprintf(&b, "Case ID: %s\n\n", caseCode)
	b.WriteString("REPORTER INFORMATION\n--------------------\n")
	fmt.Fprintf(&b, "Full Name: %s\n", form.FullName)
	fmt.Fprintf(&b, "Email: %s\n", form.Email)
	fmt.Fprintf(&b, "Phone: %s\n", form.PhoneNumber)
	fmt.Fprintf(&b, "City/Location: %s\n\n", form.City)
	b.WriteString("INCIDENT INFORMATION\n--------------------\n")
	fmt.Fprintf(&b, "Date of Incident: %s\n", form.DateOfIncident.Format("2006-01-02"))
	fmt.Fprintf(&b, "Type of Cybercrime: %s\n\n", form.CrimeType)
	b.WriteString("INCIDENT DETAILS\n----------------\n")
	fmt.Fprintf(&b, "%s\n\n", form.Details)

	if form.Location != nil {
		b.WriteString("GPS LOCATION\n------------\n")
		fmt.Fprintf(&b, "Coordinates: %.6f, %.6f\n", form.Location.Latitude, form.Location.Longitude)
		if form.Location.Accuracy > 0 {
			fmt.Fprintf(&b, "Accuracy: ±%dm\n", int(form.Location.Accuracy+0.5))
		}
		fmt.Fprintf(&b, "Google Maps: https://maps.google.com/?q=%v,%v\n\n",
			form.Location.Latitude, form.Location.Longitude)
	}

	if len(form.Attachments) > 0 {
		b.WriteString("EVIDENCE\n--------\n")
		fmt.Fprintf(&b, "%d photo(s) attached (see attachments)\n\n", len(form.Attachments))
	}

	b.WriteString("Submitted via YCKF Evidence SafeBox\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", now.Format("2006-01-02 15:04:05"))
	return subject, b.String()
}

// FormatContactMessage renders the plain-text email body for a contact-form message.
func FormatContactMessage(form *ContactForm, now time.Time) (subject, body string) {
	subject = fmt.Sprintf("Contact Form Submission from %s", form.Name)

	var b strings.Builder
	b.WriteString("CONTACT FORM MESSAGE\n===================\n\n")
	b.WriteString("SENDER INFORMATION\n------------------\n")
	fmt.Fprintf(&b, "Name: %s\n", form.Name)
	fmt.Fprintf(&b, "Email: %s\n\n", form.Email)
	b.WriteString("MESSAGE\n-------\n")
	fmt.Fprintf(&b, "%s\n\n", form.Message)
	b.WriteString("Sent via YCKF Evidence SafeBox\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", now.Format("2006-01-02 15:04:05"))
	return subject, b.String()
}

// FormatLocationMessage renders a shareable description of a GPS fix.
func FormatLocationMessage(loc *Location) string {
	var b strings.Builder
	b.WriteString("My current location:\n")
	fmt.Fprintf(&b, "Coordinates: %.6f, %.6f\n", loc.Latitude, loc.Longitude)
	if loc.Accuracy > 0 {
		fmt.Fprintf(&b, "Accuracy: ±%dm\n", int(loc.Accuracy+0.5))
	}
	fmt.Fprintf(&b, "Google Maps: https://maps.google.com/?q=%v,%v\n", loc.Latitude, loc.Longitude)
	return b.String()
}
