package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"yckf-go/internal/app"
	"yckf-go/internal/config"
	"yckf-go/internal/safebox"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.NewConfig(base)
	cfg.Storage = config.StorageConfig{Type: "filesystem", FSRoot: filepath.Join(base, "safebox")}
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	return cfg
}

func TestAppReportFlow(t *testing.T) {
	ctx := context.Background()

	a, err := app.NewApp(testConfig(t), "TestReportFlow")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer a.Close()

	code, err := a.FileReport(ctx, &safebox.ReportForm{
		FullName:  "Ada Obi",
		Email:     "ada@example.org",
		CrimeType: "Phishing",
		Details:   "Received a fake bank email asking for my PIN.",
	})
	if err != nil {
		t.Fatalf("FileReport() error = %v", err)
	}

	snap, err := a.LoadSafeBox(ctx)
	if err != nil {
		t.Fatalf("LoadSafeBox() error = %v", err)
	}
	if snap.TotalItems != 1 || snap.Items[0].ID != code {
		t.Errorf("safe box = %+v", snap)
	}

	c, updates, err := a.TrackCase(ctx, code)
	if err != nil {
		t.Fatalf("TrackCase() error = %v", err)
	}
	if c.Status != safebox.StatusReceived || len(updates) != 0 {
		t.Errorf("case = %+v, updates = %+v", c, updates)
	}

	if err := a.UpdateCase(ctx, code, safebox.StatusUnderReview, "Queued for review", "admin"); err != nil {
		t.Fatalf("UpdateCase() error = %v", err)
	}
	c, updates, err = a.TrackCase(ctx, code)
	if err != nil {
		t.Fatalf("TrackCase() error = %v", err)
	}
	if c.Status != safebox.StatusUnderReview || len(updates) != 1 {
		t.Errorf("case = %+v, updates = %+v", c, updates)
	}

	usage, err := a.StorageUsage(ctx)
	if err != nil {
		t.Fatalf("StorageUsage() error = %v", err)
	}
	if usage.Used <= 0 || usage.Available <= 0 {
		t.Errorf("usage = %+v", usage)
	}

	if err := a.RemoveEvidence(ctx, code); err != nil {
		t.Fatalf("RemoveEvidence() error = %v", err)
	}
	snap, err = a.LoadSafeBox(ctx)
	if err != nil {
		t.Fatalf("LoadSafeBox() error = %v", err)
	}
	if snap.TotalItems != 0 {
		t.Errorf("safe box after remove = %+v", snap)
	}
}

func TestAppSafeBoxSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := app.NewApp(cfg, "TestRestartA")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	code, err := first.FileReport(ctx, &safebox.ReportForm{
		FullName:  "Ada Obi",
		Email:     "ada@example.org",
		CrimeType: "Ransomware",
		Details:   "Files encrypted, ransom note left on desktop.",
	})
	if err != nil {
		t.Fatalf("FileReport() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// A new app over the same config must see the queued report.
	second, err := app.NewApp(cfg, "TestRestartB")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer second.Close()

	snap, err := second.LoadSafeBox(ctx)
	if err != nil {
		t.Fatalf("LoadSafeBox() error = %v", err)
	}
	if snap.TotalItems != 1 || snap.Items[0].ID != code {
		t.Errorf("safe box after restart = %+v", snap)
	}
}
