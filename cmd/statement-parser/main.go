package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/document"
	"github.com/statementai/statement-parser/internal/export"
	"github.com/statementai/statement-parser/internal/llm"
	"github.com/statementai/statement-parser/internal/llm/gemini"
	"github.com/statementai/statement-parser/internal/llm/openai"
	"github.com/statementai/statement-parser/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		pdfPath = flag.String("pdf", "", "path to the statement PDF (required)")
		chunks  = flag.Int("chunks", 0, "number of chunks to split into (overrides CHUNK_COUNT)")
		backend = flag.String("backend", "gemini", "model backend: gemini or openai")
		out     = flag.String("out", "", "output file path (defaults next to the PDF)")
		format  = flag.String("format", "json", "output format: json, csv or xlsx")
	)
	flag.Parse()

	if *pdfPath == "" {
		printError("Error: --pdf is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if *chunks > 0 {
		cfg.Pipeline.ChunkCount = *chunks
	}
	if err := cfg.Validate(*backend); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	sink, err := export.ForFormat(*format)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		if sink.Ext() == "json" {
			*out = filepath.Join(filepath.Dir(*pdfPath), export.DefaultJSONName)
		} else {
			base := strings.TrimSuffix(filepath.Base(*pdfPath), filepath.Ext(*pdfPath))
			*out = filepath.Join(filepath.Dir(*pdfPath), base+"_statement."+sink.Ext())
		}
	}

	ctx := context.Background()

	var client llm.Backend
	switch *backend {
	case "gemini":
		client, err = gemini.NewClient(ctx, cfg.Gemini, logger)
		if err != nil {
			logger.Error("failed to initialize gemini client", "error", err)
			os.Exit(1)
		}
	case "openai":
		client = openai.NewClient(cfg.OpenAI, logger)
	}

	doc, err := document.NewFSLoader(logger).Load(*pdfPath)
	if err != nil {
		logger.Error("failed to load document", "path", *pdfPath, "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(client, cfg.Gateway, logger)
	orchestrator := pipeline.NewOrchestrator(cfg.Pipeline, gateway, logger)

	result, err := orchestrator.Run(ctx, doc)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	if err := export.WriteFile(sink, result, *out); err != nil {
		logger.Error("failed to write output", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("statement parsed",
		"output", *out, "transactions", len(result.Transactions),
		"personal_info", !result.PersonalInfo.Empty(),
	)
}
