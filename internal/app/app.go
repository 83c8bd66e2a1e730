package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"yckf-go/internal/chat"
	"yckf-go/internal/config"
	"yckf-go/internal/database"
	"yckf-go/internal/kv"
	"yckf-go/internal/location"
	"yckf-go/internal/mail"
	"yckf-go/internal/notify"
	"yckf-go/internal/opener"
	"yckf-go/internal/safebox"
)

// App is the application layer between the CLI and the safebox service.
// It constructs all dependencies from config, exposes the high-level flows the
// commands need, and manages the DB and log-file lifecycle on Close.
type App struct {
	cfg     *config.Config
	cases   safebox.CaseDatabase
	store   *safebox.EvidenceStore
	service *safebox.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "FileReport").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	ctx := context.Background()

	store, err := kv.NewStoreFromConfig(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating case database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("case database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	clock := safebox.RealClock{}
	idgen := safebox.UUIDGenerator{}
	urlOpener := opener.NewExecOpener()

	evidence := safebox.NewEvidenceStore(store, clock, logger, cfg.Storage.Limit)
	service := safebox.NewService(
		evidence,
		db,
		mail.NewComposerFromConfig(cfg.Mail, urlOpener),
		chat.NewWhatsAppOpener(urlOpener),
		notify.NewPoster(logger, idgen),
		location.NewHTTPProvider(cfg.Location, clock),
		safebox.Contacts{Email: cfg.Contacts.Email, WhatsApp: cfg.Contacts.WhatsApp},
		logger,
		clock,
		idgen,
		safebox.YCKFCaseCodes{Clock: clock},
	)

	return &App{
		cfg:     cfg,
		cases:   db,
		store:   evidence,
		service: service,
		logFile: logFile,
	}, nil
}

// FileReport queues a report, opens its tracker case, and returns the case code.
func (a *App) FileReport(ctx context.Context, form *safebox.ReportForm) (string, error) {
	return a.service.FileReport(ctx, form)
}

// QueueEvidence adds a standalone photo or document to the safe box.
func (a *App) QueueEvidence(ctx context.Context, kind safebox.Kind, title, description, filePath string, fileSize int64) (string, error) {
	return a.service.QueueEvidence(ctx, kind, title, description, filePath, fileSize)
}

// SubmitEvidence sends a queued record over the given channel.
func (a *App) SubmitEvidence(ctx context.Context, id string, via safebox.Channel) error {
	return a.service.SubmitEvidence(ctx, id, via)
}

// SendContactMessage delivers a contact-form message by email.
func (a *App) SendContactMessage(ctx context.Context, form *safebox.ContactForm) (safebox.ComposeStatus, error) {
	return a.service.SendContactMessage(ctx, form)
}

// ShareLocation sends the current position over the given channel.
func (a *App) ShareLocation(ctx context.Context, via safebox.Channel) error {
	return a.service.ShareLocation(ctx, via)
}

// CurrentLocation acquires the current GPS fix, or nil when unavailable.
func (a *App) CurrentLocation(ctx context.Context) (*safebox.Location, error) {
	return a.service.CurrentLocation(ctx)
}

// LoadSafeBox returns the current snapshot of queued evidence.
func (a *App) LoadSafeBox(ctx context.Context) (safebox.Snapshot, error) {
	return a.store.Load(ctx)
}

// RemoveEvidence deletes a queued record; removing an unknown ID is a no-op.
func (a *App) RemoveEvidence(ctx context.Context, id string) error {
	return a.store.Remove(ctx, id)
}

// ClearSafeBox drops every queued record.
func (a *App) ClearSafeBox(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// StorageUsage estimates how much of the backing store is occupied.
func (a *App) StorageUsage(ctx context.Context) (safebox.StorageUsage, error) {
	return a.store.EstimateStorageUsage(ctx)
}

// TrackCase returns a case and its timeline.
func (a *App) TrackCase(ctx context.Context, code string) (*safebox.Case, []*safebox.CaseUpdate, error) {
	return a.service.TrackCase(ctx, code)
}

// ListCases returns all tracked cases, most recent first.
func (a *App) ListCases(ctx context.Context) ([]*safebox.Case, error) {
	return a.service.ListCases(ctx)
}

// UpdateCase appends a timeline entry and moves the case to the new status.
func (a *App) UpdateCase(ctx context.Context, code string, status safebox.CaseStatus, message, updatedBy string) error {
	return a.service.UpdateCase(ctx, code, status, message, updatedBy)
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.cases.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
