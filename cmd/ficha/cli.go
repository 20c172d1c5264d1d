package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"ficha"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	StartPage   int           `default:"1" help:"First listing page to process"`
	EndPage     int           `default:"0" help:"Last listing page to process (0 detects the total)"`
	URL         string        `default:"https://consultapublicarnpdno.segob.gob.mx/consulta" help:"Registry listing URL"`
	OutDir      string        `default:"rnpdno_pdfs" help:"Directory for captured PDF files"`
	LogCSV      string        `name:"log-csv" default:"download_log.csv" help:"Append-only CSV ledger path"`
	MetadataCSV string        `name:"metadata-csv" default:"metadata.csv" help:"Metadata audit CSV path"`
	Ledger      string        `default:"csv" enum:"csv,sqlite" help:"Ledger backend"`
	LedgerDB    string        `name:"ledger-db" default:"download_log.db" help:"SQLite ledger path, used with --ledger=sqlite"`
	Debug       bool          `help:"Verbose logging and a visible browser window"`
	DryRun      bool          `help:"Walk the listing without writing documents, ledger rows or metadata"`
	PageDelay   time.Duration `name:"page-delay" default:"500ms" help:"Pause between pages"`
	RowDelay    time.Duration `name:"row-delay" default:"120ms" help:"Pause between rows"`
	Timeout     time.Duration `default:"30s" help:"Per-item processing deadline"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Listing  ficha.Listing
	Rows     ficha.RowParser
	Ledger   ficha.Ledger
	Metadata ficha.MetadataLog
	Store    ficha.DocumentStore
}
