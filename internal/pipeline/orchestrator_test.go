package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/document"
	"github.com/statementai/statement-parser/internal/llm"
)

func makePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 12, fmt.Sprintf("page %d", i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

// scriptedBackend answers each stage deterministically, keyed off the
// default prompt catalog and the chunk index embedded in the asset name.
type scriptedBackend struct {
	mu          sync.Mutex
	catalog     llm.Catalog
	failUploads map[int]bool // chunk index -> always fail upload
	breakStages map[llm.Stage]bool
	uploads     int
}

func newScriptedBackend() *scriptedBackend {
	return &scriptedBackend{
		catalog:     llm.DefaultCatalog(),
		failUploads: map[int]bool{},
		breakStages: map[llm.Stage]bool{},
	}
}

func chunkIndexFromName(name string) int {
	at := strings.LastIndex(name, "_chunk_")
	if at < 0 {
		return 0
	}
	var idx int
	if _, err := fmt.Sscanf(name[at:], "_chunk_%d.pdf", &idx); err != nil {
		return 0
	}
	return idx
}

func (b *scriptedBackend) Upload(_ context.Context, name string, _ []byte, mimeType string) (llm.UploadedAsset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads++
	if b.failUploads[chunkIndexFromName(name)] {
		return llm.UploadedAsset{}, errors.New("upload rejected")
	}
	return llm.UploadedAsset{ID: "files/" + name, Name: name, MIMEType: mimeType, State: constants.AssetProcessing}, nil
}

func (b *scriptedBackend) PollStatus(_ context.Context, asset llm.UploadedAsset) (llm.UploadedAsset, error) {
	asset.State = constants.AssetActive
	return asset, nil
}

func (b *scriptedBackend) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	switch req.Prompt {
	case b.catalog.StatementParse:
		if b.breakStages[llm.StageStatementParse] {
			return "", nil
		}
		idx := chunkIndexFromName(req.Asset.Name)
		base := (idx - 1) * 2
		return fmt.Sprintf("```csv\n%02d Jun 2024,TX %d A,-1.50,withdrawn,100.00\n%02d Jun 2024,TX %d B,2.50,paid in,102.50\n```",
			base+1, idx, base+2, idx), nil
	case b.catalog.Categorize:
		if b.breakStages[llm.StageCategorize] {
			return "", nil
		}
		var out []string
		for _, line := range strings.Split(strings.TrimSpace(req.Text), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			out = append(out, line+",Bank Transfer")
		}
		return strings.Join(out, "\n"), nil
	case b.catalog.PersonalInfo:
		return `{"Full Name": "J Smith", "Account Number": "12345678", "Statement Period Date": "01 JUN 2024 to 30 JUN 2024"}`, nil
	case b.catalog.Summary:
		return `{"summaryOfIncomeAndOutgoings": {"income": {}, "outgoings": {}}}`, nil
	case b.catalog.Passport:
		if b.breakStages[llm.StageIdentity] {
			return "I cannot read this document", nil
		}
		return `{"documentType": "passport", "documentData": {"fullName": "J Smith", "passportNumber": "123456789", "nationality": "British"}}`, nil
	case b.catalog.DrivingLicense:
		return `{"documentType": "driving_license", "documentData": {"fullName": "J Smith", "licenseNumber": "SMITH801011JS9XY", "address": "123 Test Lane", "licenseCategories": "B"}}`, nil
	}
	return "", errors.New("unexpected prompt")
}

func newTestOrchestrator(backend llm.Backend, cfg common.PipelineConfig) *Orchestrator {
	gateway := llm.NewGateway(backend, common.GatewayConfig{
		UploadRetries:   3,
		RetryDelay:      time.Millisecond,
		PollInterval:    time.Millisecond,
		MaxWait:         50 * time.Millisecond,
		GenerateTimeout: time.Second,
		MaxOutputTokens: 1000,
	}, nil)
	return NewOrchestrator(cfg, gateway, nil)
}

func loadTestDoc(t *testing.T, pages int) *document.SourceDocument {
	t.Helper()
	doc, err := document.FromBytes("statement.pdf", makePDF(t, pages))
	require.NoError(t, err)
	return doc
}

func TestRun_EndToEnd(t *testing.T) {
	backend := newScriptedBackend()
	o := newTestOrchestrator(backend, common.PipelineConfig{ChunkCount: 3, Concurrency: 2, Summarize: true})

	result, err := o.Run(context.Background(), loadTestDoc(t, 10))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 6, "two records per chunk, three chunks")
	for i, rec := range result.Transactions {
		assert.Equal(t, fmt.Sprintf("%02d Jun 2024", i+1), rec.Date, "date-sorted order")
		assert.Equal(t, string(constants.BankTransfer), rec.Category)
		assert.NotNil(t, rec.Amount)
	}

	assert.Equal(t, "J Smith", result.PersonalInfo.FullName)
	assert.Equal(t, "12345678", result.PersonalInfo.AccountNumber)

	require.NotNil(t, result.Summary)
	assert.NotEmpty(t, result.Summary.Structured)
	assert.Empty(t, result.Summary.RawText)
}

func TestRun_MidChunkFailureIsIsolated(t *testing.T) {
	backend := newScriptedBackend()
	backend.failUploads[2] = true
	o := newTestOrchestrator(backend, common.PipelineConfig{ChunkCount: 3, Concurrency: 2})

	result, err := o.Run(context.Background(), loadTestDoc(t, 10))
	require.NoError(t, err, "failing a middle chunk must not abort the run")

	require.Len(t, result.Transactions, 4, "chunks 1 and 3 still contribute")
	descriptions := make([]string, 0, 4)
	for _, rec := range result.Transactions {
		descriptions = append(descriptions, rec.Description)
	}
	assert.NotContains(t, descriptions, "TX 2 A")
	assert.Equal(t, "J Smith", result.PersonalInfo.FullName, "personal info still comes from chunk 1")
	assert.Nil(t, result.Summary)
}

func TestRun_FirstChunkUploadFailureIsFatal(t *testing.T) {
	backend := newScriptedBackend()
	backend.failUploads[1] = true
	o := newTestOrchestrator(backend, common.PipelineConfig{ChunkCount: 3, Concurrency: 2})

	_, err := o.Run(context.Background(), loadTestDoc(t, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpload)
}

func TestRun_CategorizeFallbackKeepsRecords(t *testing.T) {
	backend := newScriptedBackend()
	backend.breakStages[llm.StageCategorize] = true
	o := newTestOrchestrator(backend, common.PipelineConfig{ChunkCount: 2, Concurrency: 2})

	result, err := o.Run(context.Background(), loadTestDoc(t, 4))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)
	for _, rec := range result.Transactions {
		assert.Empty(t, rec.Category, "unusable categorize response keeps uncategorized records")
	}
}

func TestRun_NoTabularContentYieldsEmptyResult(t *testing.T) {
	backend := newScriptedBackend()
	backend.breakStages[llm.StageStatementParse] = true
	o := newTestOrchestrator(backend, common.PipelineConfig{ChunkCount: 2, Concurrency: 1})

	result, err := o.Run(context.Background(), loadTestDoc(t, 4))
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, "J Smith", result.PersonalInfo.FullName)
}

func TestRun_RawResponseExport(t *testing.T) {
	backend := newScriptedBackend()
	dir := t.TempDir()
	o := newTestOrchestrator(backend, common.PipelineConfig{
		ChunkCount: 1, Concurrency: 1,
		ExportRawResponses: true, RawResponseDir: dir,
	})

	_, err := o.Run(context.Background(), loadTestDoc(t, 2))
	require.NoError(t, err)

	runDirs, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, runDirs, 1, "one audit directory per run")

	runDir := filepath.Join(dir, runDirs[0].Name())
	for _, stage := range []llm.Stage{llm.StageStatementParse, llm.StageCategorize, llm.StagePersonalInfo} {
		assert.FileExists(t, filepath.Join(runDir, fmt.Sprintf("chunk_1_%s.txt", stage)))
	}
}
