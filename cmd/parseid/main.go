package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/document"
	"github.com/statementai/statement-parser/internal/llm"
	"github.com/statementai/statement-parser/internal/llm/gemini"
	"github.com/statementai/statement-parser/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// Standalone identity-document extractor: runs the passport or driving
// licence prompt against a single scanned PDF and writes the parsed field
// block as JSON.
func main() {
	var (
		pdfPath = flag.String("pdf", "", "path to the scanned identity document PDF (required)")
		kind    = flag.String("kind", "passport", "document kind: passport or driving_license")
		out     = flag.String("out", "", "output JSON path (defaults next to the PDF)")
	)
	flag.Parse()

	if *pdfPath == "" {
		printError("Error: --pdf is required\n")
		os.Exit(1)
	}
	docKind := llm.IdentityKind(*kind)
	switch docKind {
	case llm.KindPassport, llm.KindDrivingLicense:
	default:
		printError("Error: --kind must be passport or driving_license\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*pdfPath), *kind+"_data.json")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate("gemini"); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := gemini.NewClient(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	}

	doc, err := document.NewFSLoader(logger).Load(*pdfPath)
	if err != nil {
		logger.Error("failed to load document", "path", *pdfPath, "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(client, cfg.Gateway, logger)
	orchestrator := pipeline.NewOrchestrator(cfg.Pipeline, gateway, logger)

	idDoc, err := orchestrator.ExtractIdentity(ctx, doc, docKind)
	if err != nil {
		logger.Error("identity extraction failed", "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(idDoc, "", "    ")
	if err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		logger.Error("failed to write output", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("identity document parsed", "output", *out, "kind", idDoc.DocumentType)
}
