package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"ficha"
	fichacsv "ficha/csv"
	"ficha/fs"
	"ficha/goquery"
	"ficha/rod"
	fichaslog "ficha/slog"
	"ficha/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ficha"),
		kong.Description("Capture missing-person records from the RNPDNO public registry as PDF files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.StartPage < 1 {
		return fmt.Errorf("start page must be positive, got %d", cli.StartPage)
	}
	if cli.EndPage != 0 && cli.EndPage < cli.StartPage {
		return fmt.Errorf("end page %d precedes start page %d", cli.EndPage, cli.StartPage)
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	// Every log line carries the run ID so interleaved runs against the
	// same ledger can be told apart.
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	// Debug runs get a visible browser window.
	var mgrOpts []rod.ManagerOption
	if cli.Debug {
		mgrOpts = append(mgrOpts, rod.WithHeadful())
	}
	mgr, err := rod.NewManager(mgrOpts...)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer mgr.Close()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	listing := rod.NewListing(mgr, cli.URL, rod.WithLogger(logger))
	defer listing.Close()
	deps.Listing = fichaslog.NewLoggingListing(listing, logger)

	ledger, cleanup, err := openLedger(cli, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	deps.Ledger = ledger

	deps.Metadata = fichacsv.NewMetadataLog(cli.MetadataCSV)
	deps.Rows = goquery.NewRowParser()

	store, err := fs.NewStore(cli.OutDir, logger)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}
	deps.Store = store

	cmd := &ScrapeCmd{
		StartPage: cli.StartPage,
		EndPage:   cli.EndPage,
		DryRun:    cli.DryRun,
		RowDelay:  cli.RowDelay,
		PageDelay: cli.PageDelay,
		Timeout:   cli.Timeout,
	}

	return cmd.Run(deps)
}

// openLedger builds the configured ledger backend. The returned cleanup
// releases backend resources and is safe to call exactly once.
func openLedger(cli *CLI, logger *slog.Logger) (ficha.Ledger, func(), error) {
	switch cli.Ledger {
	case "sqlite":
		db := sqlite.NewDB(cli.LedgerDB)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open ledger database: %w", err)
		}
		return fichaslog.NewLoggingLedger(sqlite.NewLedger(db), logger), func() { _ = db.Close() }, nil
	default:
		ledger, err := fichacsv.NewLedger(cli.LogCSV)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		return fichaslog.NewLoggingLedger(ledger, logger), func() {}, nil
	}
}
