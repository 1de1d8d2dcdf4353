package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/statementai/statement-parser/internal/document"
)

// Debug tool: splits a PDF into chunk files on disk without touching any
// model backend, so the chunking can be inspected by hand.
func main() {
	var (
		pdfPath = flag.String("pdf", "", "path to the PDF to split (required)")
		chunks  = flag.Int("chunks", 3, "number of chunks")
		outDir  = flag.String("out", "", "output directory (defaults to the PDF's directory)")
	)
	flag.Parse()

	if *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --pdf is required")
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = filepath.Dir(*pdfPath)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	doc, err := document.NewFSLoader(logger).Load(*pdfPath)
	if err != nil {
		logger.Error("failed to load document", "path", *pdfPath, "error", err)
		os.Exit(1)
	}

	parts, err := document.NewSplitter(logger).Split(doc, *chunks)
	if err != nil {
		logger.Error("split failed", "error", err)
		os.Exit(1)
	}

	for _, chunk := range parts {
		path := filepath.Join(*outDir, chunk.Name)
		if err := os.WriteFile(path, chunk.Data, 0o644); err != nil {
			logger.Error("failed to write chunk", "path", path, "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s: pages %d-%d (%d bytes)\n", path, chunk.StartPage+1, chunk.EndPage, len(chunk.Data))
	}
}
