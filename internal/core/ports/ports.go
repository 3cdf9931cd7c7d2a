package ports

import (
	"context"
	"hdrgen/internal/data/history"
	"hdrgen/internal/engine/audit"
)

// HistoryStore abstracts run persistence for the history report and the
// generation pipeline.
type HistoryStore interface {
	SaveRun(run history.Run) (string, error)
	LoadRuns(projectKey string, limit int) ([]history.Run, error)
	LoadRunFiles(runID string) ([]history.FileRecord, error)
	Close() error
}

// SourceAuditor cross-checks extracted function names against a full parse
// of the source.
type SourceAuditor interface {
	Audit(ctx context.Context, path string, source []byte, extracted []string) ([]audit.Finding, error)
}
