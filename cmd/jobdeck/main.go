package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobdeck/jobdeck/internal/auth"
	"github.com/jobdeck/jobdeck/internal/calendar"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/exporter"
	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/importer"
	"github.com/jobdeck/jobdeck/internal/repository"
	"github.com/jobdeck/jobdeck/internal/state"
	"github.com/jobdeck/jobdeck/internal/storage"
	"github.com/jobdeck/jobdeck/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "jobdeck",
	Short: "Job application tracker",
	Long:  `Jobdeck tracks your job applications, interviews, reminders and documents from the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		database, err := db.OpenAndMigrate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		ui, err := state.Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening state store: %v\n", err)
			os.Exit(1)
		}

		manager, err := auth.NewManager(repository.NewUserRepo(database))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		session, err := manager.Current()
		if err != nil {
			logError(err)
			session = nil
		}

		bucket := storage.NewBucket(cfg.DocumentsRoot, time.Duration(cfg.SignedURLTTL)*time.Minute)

		if err := tui.Run(database, cfg, ui, manager, feed.New(), bucket, session); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export your applications to CSV",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, database, session := mustOpen()
		defer db.Close()

		path := filepath.Join(cfg.ExportsOutput,
			fmt.Sprintf("applications-%s.csv", time.Now().Format("2006-01-02")))
		if len(args) > 0 {
			path = args[0]
		} else if err := os.MkdirAll(cfg.ExportsOutput, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		apps, err := repository.NewApplicationRepo(database, nil).GetAll(session.UserID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := exporter.NewCSVExporter(path).ExportApplications(apps); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Exported %d applications to %s\n", len(apps), path)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import applications from a YAML file",
	Long: `Import applications in bulk.

The file lists applications like:

  applications:
    - company: Acme
      position: Backend Engineer
      status: Interview
      applied: 2025-08-01
      interview: "2025-08-20 14:30"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, database, session := mustOpen()
		defer db.Close()

		apps := repository.NewApplicationRepo(database, nil)
		result, err := importer.ImportFile(args[0], session.UserID, apps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Imported: %d\n", result.Imported)
		fmt.Printf("Skipped: %d\n", result.Skipped)
	},
}

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Print today's interviews and reminders",
	Run: func(cmd *cobra.Command, args []string) {
		_, database, session := mustOpen()
		defer db.Close()

		agg := calendar.NewAggregator(
			repository.NewApplicationRepo(database, nil),
			repository.NewActivityRepo(database, nil),
		)

		events, err := agg.Events(session.UserID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		today := calendar.StartOfDay(time.Now())
		buckets := calendar.Bucket(events, []time.Time{today})

		todays := buckets[today]
		if len(todays) == 0 {
			fmt.Println("Nothing scheduled today.")
			return
		}

		fmt.Printf("Today, week %d:\n", calendar.ISOWeek(today))
		for _, ev := range todays {
			fmt.Printf("  %s  [%s]  %s\n", ev.At.Format("15:04"), ev.Kind, ev.Title)
		}
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair document metadata against stored files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, database, session := mustOpen()
		defer db.Close()

		bucket := storage.NewBucket(cfg.DocumentsRoot, time.Duration(cfg.SignedURLTTL)*time.Minute)
		docs := repository.NewDocumentRepo(database, nil)

		inserted, err := storage.NewReconciler(bucket, docs).Reconcile(session.UserID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Inserted %d missing document rows.\n", inserted)
	},
}

// mustOpen loads config, opens the database and requires a signed-in user.
// Subcommands act on the signed-in account; sign in through the TUI first.
func mustOpen() (*config.Config, *sql.DB, *auth.Session) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	database, err := db.OpenAndMigrate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	manager, err := auth.NewManager(repository.NewUserRepo(database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session, err := manager.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading session: %v\n", err)
		os.Exit(1)
	}
	if session == nil {
		fmt.Fprintln(os.Stderr, "Not signed in. Run 'jobdeck' and sign in first.")
		os.Exit(1)
	}

	return cfg, database, session
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(reconcileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logError(err error) {
	logPath, pathErr := config.ErrorLogPath()
	if pathErr != nil {
		return
	}

	if err := config.EnsureDirectories(); err != nil {
		return
	}

	f, fileErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %v\n", time.Now().Format(time.RFC3339), err)
}
