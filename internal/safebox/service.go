package safebox

import (
	"context"
	"encoding/json"
	"fmt"
)

// Service is the orchestration layer that coordinates the evidence store, the
// case tracker, and the external channels to perform the high-level flows
// needed by the CLI: file a report, submit queued evidence, send a contact
// message, share a location.
type Service struct {
	store    *EvidenceStore
	cases    CaseDatabase
	mail     MailComposer
	chat     ChatOpener
	notifier NotificationPoster
	location LocationProvider
	contacts Contacts
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	codes    CaseCodeGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(store *EvidenceStore, cases CaseDatabase, mail MailComposer, chat ChatOpener,
	notifier NotificationPoster, location LocationProvider, contacts Contacts,
	logger Logger, clock Clock, idgen IDGenerator, codes CaseCodeGenerator) *Service {
	return &Service{
		store:    store,
		cases:    cases,
		mail:     mail,
		chat:     chat,
		notifier: notifier,
		location: location,
		contacts: contacts,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		codes:    codes,
	}
}

// Store exposes the evidence store for direct CRUD access.
func (s *Service) Store() *EvidenceStore { return s.store }

// FileReport assigns the report a case code, queues it in the safe box, opens
// a tracker case in the received state, and posts a local notification.
// The report stays queued (submitted=false) until an external channel
// acknowledges it via SubmitEvidence.
func (s *Service) FileReport(ctx context.Context, form *ReportForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	code := s.codes.NewCode()
	now := s.clock.Now()

	payload, err := json.Marshal(form)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	record := EvidenceRecord{
		ID:          code,
		Kind:        KindReport,
		Title:       fmt.Sprintf("Cybercrime Report - %s", form.CrimeType),
		Description: form.Details,
		Payload:     payload,
		CreatedAt:   now.UnixMilli(),
	}
	if err := s.store.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("queueing report: %w", err)
	}

	c := &Case{
		Code:       code,
		Title:      record.Title,
		CrimeType:  form.CrimeType,
		Status:     StatusReceived,
		Priority:   "medium",
		ReportedAt: now,
		UpdatedAt:  now,
	}
	if err := s.cases.CreateCase(ctx, c); err != nil {
		return "", fmt.Errorf("opening case: %w", err)
	}

	if _, err := s.notifier.Post(ctx,
		"Report queued",
		fmt.Sprintf("Your report has been saved with Case ID: %s", code),
		"report_submitted"); err != nil {
		// Notification delivery is best effort; the report is already durable.
		s.logger.Warn("notification failed", "case", code, "error", err)
	}

	s.logger.Info("report filed", "case", code, "crime_type", form.CrimeType)
	return code, nil
}

// QueueEvidence adds a standalone evidence item (photo or document) to the
// safe box with a generated ID.
func (s *Service) QueueEvidence(ctx context.Context, kind Kind, title, description, filePath string, fileSize int64) (string, error) {
	payload, err := json.Marshal(map[string]string{"fileUri": filePath})
	if err != nil {
		return "", fmt.Errorf("encoding evidence payload: %w", err)
	}

	record := EvidenceRecord{
		ID:          s.idgen.New(),
		Kind:        kind,
		Title:       title,
		Description: description,
		Payload:     payload,
		CreatedAt:   s.clock.Now().UnixMilli(),
		FileSize:    fileSize,
	}
	if err := s.store.Upsert(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

// SubmitEvidence sends a queued record over the given channel. The record is
// marked submitted only after the channel reports success; the store never
// infers submission on its own.
func (s *Service) SubmitEvidence(ctx context.Context, id string, via Channel) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	var record *EvidenceRecord
	for i := range snap.Items {
		if snap.Items[i].ID == id {
			record = &snap.Items[i]
			break
		}
	}
	if record == nil {
		return fmt.Errorf("no queued evidence with id %s", id)
	}

	subject, body, attachments := s.renderRecord(record)

	switch via {
	case ChannelEmail:
		status, err := s.mail.Compose(ctx, MailMessage{
			Recipients:  []string{s.contacts.Email},
			Subject:     subject,
			Body:        body,
			Attachments: attachments,
		})
		if err != nil {
			return fmt.Errorf("composing email: %w", err)
		}
		if status != ComposeSent {
			return fmt.Errorf("email not sent (composer reported %s)", status)
		}
	case ChannelWhatsApp:
		opened, err := s.chat.OpenChat(ctx, s.contacts.WhatsApp, body)
		if err != nil {
			return fmt.Errorf("opening chat: %w", err)
		}
		if !opened {
			return fmt.Errorf("chat could not be opened")
		}
	default:
		return fmt.Errorf("unknown channel: %s", via)
	}

	record.Submitted = true
	if err := s.store.Upsert(ctx, *record); err != nil {
		return fmt.Errorf("marking evidence submitted: %w", err)
	}

	// Reports have a tracker case under the same code; log the handoff there.
	if record.Kind == KindReport {
		if c, err := s.cases.FindCase(ctx, record.ID); err == nil && c != nil {
			update := &CaseUpdate{
				ID:        s.idgen.New(),
				CaseCode:  c.Code,
				Status:    c.Status,
				Message:   fmt.Sprintf("Report submitted via %s", via),
				UpdatedBy: "reporter",
				CreatedAt: s.clock.Now(),
			}
			if err := s.cases.AddUpdate(ctx, update); err != nil {
				s.logger.Warn("case update failed", "case", c.Code, "error", err)
			}
		}
	}

	s.logger.Info("evidence submitted", "id", id, "channel", via)
	return nil
}

// SendContactMessage delivers a contact-form message by email.
func (s *Service) SendContactMessage(ctx context.Context, form *ContactForm) (ComposeStatus, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	subject, body := FormatContactMessage(form, s.clock.Now())
	status, err := s.mail.Compose(ctx, MailMessage{
		Recipients: []string{s.contacts.Email},
		Subject:    subject,
		Body:       body,
	})
	if err != nil {
		return "", fmt.Errorf("composing email: %w", err)
	}
	s.logger.Info("contact message composed", "status", status)
	return status, nil
}

// ShareLocation acquires the current position and sends it over the channel.
func (s *Service) ShareLocation(ctx context.Context, via Channel) error {
	loc, err := s.location.CurrentLocation(ctx)
	if err != nil {
		return fmt.Errorf("acquiring location: %w", err)
	}
	if loc == nil {
		return fmt.Errorf("location unavailable or access denied")
	}

	message := FormatLocationMessage(loc)

	switch via {
	case ChannelEmail:
		status, err := s.mail.Compose(ctx, MailMessage{
			Recipients: []string{s.contacts.Email},
			Subject:    "Location Shared via YCKF Evidence SafeBox",
			Body:       message,
		})
		if err != nil {
			return fmt.Errorf("composing email: %w", err)
		}
		if status != ComposeSent {
			return fmt.Errorf("email not sent (composer reported %s)", status)
		}
	case ChannelWhatsApp:
		opened, err := s.chat.OpenChat(ctx, s.contacts.WhatsApp, message)
		if err != nil {
			return fmt.Errorf("opening chat: %w", err)
		}
		if !opened {
			return fmt.Errorf("chat could not be opened")
		}
	default:
		return fmt.Errorf("unknown channel: %s", via)
	}

	s.logger.Info("location shared", "channel", via)
	return nil
}

// CurrentLocation exposes the location provider for intake flows that want
// to attach a fix to a report.
func (s *Service) CurrentLocation(ctx context.Context) (*Location, error) {
	return s.location.CurrentLocation(ctx)
}

// TrackCase returns a case and its status timeline.
func (s *Service) TrackCase(ctx context.Context, code string) (*Case, []*CaseUpdate, error) {
	c, err := s.cases.FindCase(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("finding case: %w", err)
	}
	if c == nil {
		return nil, nil, fmt.Errorf("no case with code %s", code)
	}
	updates, err := s.cases.ListUpdates(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("listing updates: %w", err)
	}
	return c, updates, nil
}

// ListCases returns all tracked cases, most recent first.
func (s *Service) ListCases(ctx context.Context) ([]*Case, error) {
	return s.cases.ListCases(ctx)
}

// UpdateCase appends a timeline entry and moves the case to the new status.
func (s *Service) UpdateCase(ctx context.Context, code string, status CaseStatus, message, updatedBy string) error {
	c, err := s.cases.FindCase(ctx, code)
	if err != nil {
		return fmt.Errorf("finding case: %w", err)
	}
	if c == nil {
		return fmt.Errorf("no case with code %s", code)
	}

	update := &CaseUpdate{
		ID:        s.idgen.New(),
		CaseCode:  code,
		Status:    status,
		Message:   message,
		UpdatedBy: updatedBy,
		CreatedAt: s.clock.Now(),
	}
	if err := s.cases.AddUpdate(ctx, update); err != nil {
		return fmt.Errorf("adding case update: %w", err)
	}

	if _, err := s.notifier.Post(ctx,
		"Case update",
		fmt.Sprintf("Case %s is now: %s", code, StatusLabel(status)),
		"case_update"); err != nil {
		s.logger.Warn("notification failed", "case", code, "error", err)
	}
	return nil
}

// renderRecord builds the outbound subject, body, and attachments for a
// queued record. Report payloads get the full report format; other kinds get
// a generic evidence summary.
func (s *Service) renderRecord(record *EvidenceRecord) (subject, body string, attachments []string) {
	now := s.clock.Now()

	if record.Kind == KindReport {
		var form ReportForm
		if err := json.Unmarshal(record.Payload, &form); err == nil {
			subject, body = FormatReportMessage(record.ID, &form, now)
			return subject, body, form.Attachments
		}
		s.logger.Warn("report payload unreadable, sending summary", "id", record.ID)
	}

	subject = fmt.Sprintf("Evidence Submission - %s", record.ID)
	body = fmt.Sprintf("EVIDENCE SUBMISSION\n===================\n\nID: %s\nKind: %s\nTitle: %s\nDescription: %s\n\nSubmitted via YCKF Evidence SafeBox\nTimestamp: %s\n",
		record.ID, record.Kind, record.Title, record.Description, now.Format("2006-01-02 15:04:05"))
	return subject, body, nil
}
