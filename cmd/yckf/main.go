package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"yckf-go/internal/app"
	"yckf-go/internal/config"
	"yckf-go/internal/safebox"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "FileReport").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "yckf",
	Short: "Cybercrime reporting and evidence safe box",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Storage:   %s\n", cfg.Storage.Type)
		fmt.Printf("Database:  %s\n", cfg.Database.Type)
		fmt.Printf("Email:     %s\n", cfg.Contacts.Email)
		fmt.Printf("WhatsApp:  %s\n", cfg.Contacts.WhatsApp)
		return nil
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "File a cybercrime report",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := &safebox.ReportForm{}
		form.FullName, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.PhoneNumber, _ = cmd.Flags().GetString("phone")
		form.City, _ = cmd.Flags().GetString("city")
		form.CrimeType, _ = cmd.Flags().GetString("type")
		form.Details, _ = cmd.Flags().GetString("details")
		form.Attachments, _ = cmd.Flags().GetStringSlice("attach")

		dateStr, _ := cmd.Flags().GetString("date")
		if dateStr != "" {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("parsing --date (want YYYY-MM-DD): %w", err)
			}
			form.DateOfIncident = date
		} else {
			form.DateOfIncident = time.Now()
		}

		// Prompt for whatever is missing, but only on an actual terminal;
		// scripted runs must pass everything via flags.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			if err := promptMissing(form); err != nil {
				return err
			}
		}

		a, err := newApp("FileReport")
		if err != nil {
			return err
		}
		defer a.Close()

		withLocation, _ := cmd.Flags().GetBool("with-location")
		if withLocation {
			// A missing fix is not fatal; the report goes in without it.
			if loc, err := a.CurrentLocation(cmd.Context()); err == nil && loc != nil {
				form.Location = loc
			} else if err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not capture location: %v\n", err)
			}
		}

		code, err := a.FileReport(cmd.Context(), form)
		if err != nil {
			return fmt.Errorf("filing report: %w", err)
		}

		fmt.Printf("Report queued in the evidence safe box.\nCase ID: %s\n", code)
		fmt.Println("Use 'yckf evidence submit' to send it, and 'yckf case show' to track it.")
		return nil
	},
}

// promptMissing interactively fills the report form's empty required fields.
func promptMissing(form *safebox.ReportForm) error {
	reader := bufio.NewReader(os.Stdin)
	var err error
	if form.FullName == "" {
		if form.FullName, err = promptLine(reader, "Full name"); err != nil {
			return err
		}
	}
	if form.Email == "" {
		if form.Email, err = promptLine(reader, "Email"); err != nil {
			return err
		}
	}
	if form.CrimeType == "" {
		fmt.Println("Cybercrime types:")
		for _, t := range safebox.CrimeTypes {
			fmt.Printf("  - %s\n", t)
		}
		if form.CrimeType, err = promptLine(reader, "Type of cybercrime"); err != nil {
			return err
		}
	}
	if form.Details == "" {
		if form.Details, err = promptLine(reader, "What happened"); err != nil {
			return err
		}
	}
	return nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// contact command
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the foundation",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := &safebox.ContactForm{}
		form.Name, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.Message, _ = cmd.Flags().GetString("message")

		a, err := newApp("SendContactMessage")
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.SendContactMessage(cmd.Context(), form)
		if err != nil {
			return fmt.Errorf("sending message: %w", err)
		}

		fmt.Printf("Message handed to the mail channel (%s).\n", status)
		return nil
	},
}

// evidence command
var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Manage the evidence safe box",
}

var evidenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued evidence",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("LoadSafeBox")
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.LoadSafeBox(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading safe box: %w", err)
		}

		if snap.TotalItems == 0 {
			fmt.Println("The safe box is empty.")
			return nil
		}

		for _, item := range snap.Items {
			submitted := " "
			if item.Submitted {
				submitted = "✓"
			}
			fmt.Printf("[%s] %-10s  %-12s  %8d bytes  %s\n",
				submitted, item.ID, item.Kind, item.FileSize, item.Title)
		}
		fmt.Printf("\n%d item(s), %d bytes queued\n", snap.TotalItems, snap.TotalSize)
		return nil
	},
}

var evidenceAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Queue a photo or document as evidence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")

		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("reading evidence file: %w", err)
		}
		if title == "" {
			title = info.Name()
		}

		a, err := newApp("QueueEvidence")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.QueueEvidence(cmd.Context(), safebox.Kind(kind), title, description, args[0], info.Size())
		if err != nil {
			return fmt.Errorf("queueing evidence: %w", err)
		}
		fmt.Printf("Queued %s (%d bytes) as %s\n", args[0], info.Size(), id)
		return nil
	},
}

var evidenceRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a queued item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveEvidence")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveEvidence(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("removing evidence: %w", err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var evidenceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all queued items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ClearSafeBox")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ClearSafeBox(cmd.Context()); err != nil {
			return fmt.Errorf("clearing safe box: %w", err)
		}
		fmt.Println("Safe box cleared.")
		return nil
	},
}

var evidenceUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Estimate storage usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("StorageUsage")
		if err != nil {
			return err
		}
		defer a.Close()

		usage, err := a.StorageUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("estimating usage: %w", err)
		}
		fmt.Printf("Used:      %d bytes\nAvailable: %d bytes (approximate)\n", usage.Used, usage.Available)
		return nil
	},
}

var evidenceSubmitCmd = &cobra.Command{
	Use:   "submit ID",
	Short: "Submit a queued item over email or WhatsApp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		via, _ := cmd.Flags().GetString("via")

		a, err := newApp("SubmitEvidence")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SubmitEvidence(cmd.Context(), args[0], safebox.Channel(via)); err != nil {
			return fmt.Errorf("submitting evidence: %w", err)
		}
		fmt.Printf("Submitted %s via %s\n", args[0], via)
		return nil
	},
}

// case command
var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Track reported cases",
}

var caseShowCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Show a case and its timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TrackCase")
		if err != nil {
			return err
		}
		defer a.Close()

		c, updates, err := a.TrackCase(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Case %s: %s\n", c.Code, c.Title)
		fmt.Printf("Status:   %s\n", safebox.StatusLabel(c.Status))
		fmt.Printf("Priority: %s\n", c.Priority)
		fmt.Printf("Reported: %s\n", c.ReportedAt.Format("2006-01-02 15:04:05"))

		if len(updates) > 0 {
			fmt.Println("\nTimeline:")
			for _, u := range updates {
				fmt.Printf("  %s  %-15s  %s\n",
					u.CreatedAt.Format("2006-01-02 15:04"), u.Status, u.Message)
			}
		}
		return nil
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListCases")
		if err != nil {
			return err
		}
		defer a.Close()

		cases, err := a.ListCases(cmd.Context())
		if err != nil {
			return err
		}

		if len(cases) == 0 {
			fmt.Println("No cases recorded.")
			return nil
		}

		for _, c := range cases {
			fmt.Printf("%s  %-15s  %s  %s\n",
				c.Code, c.Status, c.ReportedAt.Format("2006-01-02"), c.Title)
		}
		return nil
	},
}

var caseUpdateCmd = &cobra.Command{
	Use:   "update CODE",
	Short: "Record a case status update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		message, _ := cmd.Flags().GetString("message")

		a, err := newApp("UpdateCase")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateCase(cmd.Context(), args[0], safebox.CaseStatus(status), message, "cli"); err != nil {
			return fmt.Errorf("updating case: %w", err)
		}
		fmt.Printf("Case %s moved to %s\n", args[0], status)
		return nil
	},
}

// location command
var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Share your location",
}

var locationShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Send your current position to the foundation",
	RunE: func(cmd *cobra.Command, args []string) error {
		via, _ := cmd.Flags().GetString("via")

		a, err := newApp("ShareLocation")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ShareLocation(cmd.Context(), safebox.Channel(via)); err != nil {
			return fmt.Errorf("sharing location: %w", err)
		}
		fmt.Printf("Location shared via %s\n", via)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// report flags
	reportCmd.Flags().String("name", "", "Reporter full name")
	reportCmd.Flags().String("email", "", "Reporter email")
	reportCmd.Flags().String("phone", "", "Reporter phone number")
	reportCmd.Flags().String("city", "", "Reporter city")
	reportCmd.Flags().String("date", "", "Incident date (YYYY-MM-DD, default today)")
	reportCmd.Flags().String("type", "", "Type of cybercrime")
	reportCmd.Flags().String("details", "", "Incident details")
	reportCmd.Flags().StringSlice("attach", nil, "Evidence file path (repeatable)")
	reportCmd.Flags().Bool("with-location", false, "Attach the current GPS fix")

	// contact flags
	contactCmd.Flags().String("name", "", "Sender name")
	contactCmd.Flags().String("email", "", "Sender email")
	contactCmd.Flags().String("message", "", "Message body")

	// evidence subcommands
	evidenceCmd.AddCommand(evidenceAddCmd)
	evidenceAddCmd.Flags().String("kind", "photo", "Evidence kind: photo or document")
	evidenceAddCmd.Flags().String("title", "", "Short title (default: file name)")
	evidenceAddCmd.Flags().String("description", "", "What this evidence shows")
	evidenceCmd.AddCommand(evidenceListCmd)
	evidenceCmd.AddCommand(evidenceRemoveCmd)
	evidenceCmd.AddCommand(evidenceClearCmd)
	evidenceCmd.AddCommand(evidenceUsageCmd)
	evidenceCmd.AddCommand(evidenceSubmitCmd)
	evidenceSubmitCmd.Flags().String("via", "email", "Submission channel: email or whatsapp")

	// case subcommands
	caseCmd.AddCommand(caseShowCmd)
	caseCmd.AddCommand(caseListCmd)
	caseCmd.AddCommand(caseUpdateCmd)
	caseUpdateCmd.Flags().String("status", "under_review", "New status")
	caseUpdateCmd.Flags().String("message", "", "Update message")

	// location subcommands
	locationCmd.AddCommand(locationShareCmd)
	locationShareCmd.Flags().String("via", "whatsapp", "Sharing channel: email or whatsapp")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(evidenceCmd)
	rootCmd.AddCommand(caseCmd)
	rootCmd.AddCommand(locationCmd)
}
