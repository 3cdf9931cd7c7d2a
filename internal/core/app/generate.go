package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hdrgen/internal/core/errors"
	"hdrgen/internal/data/history"
	"hdrgen/internal/engine/audit"
	"hdrgen/internal/engine/extract"
	"hdrgen/internal/engine/header"
	"hdrgen/internal/shared/observability"
	"hdrgen/internal/shared/util"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of generating one header.
type FileResult struct {
	Source      string
	Output      string
	Status      history.FileStatus
	Prototypes  int
	ContentHash string
	Findings    []audit.Finding
	Err         error
}

// Summary describes one GenerateAll or HandleChanges batch.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []FileResult
	Err        error
}

func (s Summary) Count(status history.FileStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func (s Summary) Findings() []audit.Finding {
	var out []audit.Finding
	for _, r := range s.Results {
		out = append(out, r.Findings...)
	}
	return out
}

func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// GenerateFile writes the header for one source file. Nothing is written
// when the header is up to date, when the source exports no functions, or
// when any type in it cannot be translated.
func (a *App) GenerateFile(ctx context.Context, source string) (FileResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.GenerateFile",
		trace.WithAttributes(attribute.String("source", source)))
	defer span.End()

	res := FileResult{Source: source}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	fail := func(err error) (FileResult, error) {
		res.Status = history.StatusFailed
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.HeadersTotal.WithLabelValues(string(history.StatusFailed)).Inc()
		return res, err
	}

	output, err := a.OutputPathFor(source)
	if err != nil {
		return fail(errors.AddContext(err, errors.CtxPath, source))
	}
	res.Output = output

	regen, err := a.ShouldRegenerate(source, output)
	if err != nil {
		return fail(errors.AddContext(err, errors.CtxPath, source))
	}
	if !regen {
		res.Status = history.StatusSkipped
		observability.HeadersTotal.WithLabelValues(string(history.StatusSkipped)).Inc()
		slog.Debug("header up to date", "path", source, "output", output)
		return res, nil
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return fail(errors.AddContext(fmt.Errorf("read source: %w", err), errors.CtxPath, source))
	}
	text := string(content)

	prototypes, err := header.Prototypes(extract.Extract(text), a.Translator())
	if err != nil {
		observability.TranslationFailuresTotal.WithLabelValues(string(errors.CodeOf(err))).Inc()
		return fail(errors.AddContext(fmt.Errorf("%s: %w", source, err), errors.CtxPath, source))
	}

	if a.auditor != nil {
		findings, err := a.auditor.Audit(ctx, source, content, extract.Names(text))
		if err != nil {
			slog.Warn("source audit failed", "path", source, "error", err)
		}
		for _, f := range findings {
			slog.Warn("exported function not in header", "path", f.Path, "function", f.Function, "line", f.Line, "reason", f.Reason)
		}
		observability.AuditFindingsTotal.Add(float64(len(findings)))
		res.Findings = findings
	}

	if len(prototypes) == 0 {
		res.Status = history.StatusEmpty
		observability.HeadersTotal.WithLabelValues(string(history.StatusEmpty)).Inc()
		return res, nil
	}

	rendered := header.Render(header.Document{
		Guard:      header.GuardName(output),
		Banner:     a.banner,
		Prototypes: prototypes,
	})
	slog.Info("writing header", "path", source, "output", output, "prototypes", len(prototypes))
	if err := util.WriteFileAtomic(output, []byte(rendered), 0o644); err != nil {
		return fail(errors.AddContext(fmt.Errorf("write header: %w", err), errors.CtxPath, output))
	}

	sum := sha256.Sum256([]byte(rendered))
	res.Status = history.StatusWritten
	res.Prototypes = len(prototypes)
	res.ContentHash = hex.EncodeToString(sum[:])
	observability.HeadersTotal.WithLabelValues(string(history.StatusWritten)).Inc()
	observability.PrototypesEmittedTotal.Add(float64(len(prototypes)))
	span.SetAttributes(attribute.Int("prototypes", len(prototypes)))
	return res, nil
}

// GenerateAll scans the source roots and generates every header with up to
// generate.workers files in flight. The first failure cancels the rest of
// the run and is returned.
func (a *App) GenerateAll(ctx context.Context) (Summary, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.GenerateAll")
	defer span.End()

	summary := Summary{StartedAt: time.Now()}
	defer func() {
		observability.GenerationDuration.WithLabelValues("all").Observe(time.Since(summary.StartedAt).Seconds())
	}()

	sources, err := a.ScanSources()
	if err != nil {
		summary.FinishedAt = time.Now()
		summary.Err = errors.AddContext(err, errors.CtxOperation, "scan_sources")
		return summary, summary.Err
	}
	span.SetAttributes(attribute.Int("sources", len(sources)))

	results := make([]FileResult, len(sources))
	done := make([]bool, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.Generate.Workers)
	for i, source := range sources {
		g.Go(func() error {
			res, err := a.GenerateFile(gctx, source)
			if res.Status == "" {
				// Canceled before it started; not part of the run.
				return err
			}
			results[i] = res
			done[i] = true
			return err
		})
	}
	runErr := g.Wait()

	for i := range results {
		if done[i] {
			summary.Results = append(summary.Results, results[i])
		}
	}
	summary.FinishedAt = time.Now()
	summary.Err = runErr
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}

	summary.RunID = a.recordRun(summary)
	return summary, runErr
}

// recordRun stores the summary in the history store, if one is configured.
// History failures are logged and never fail generation.
func (a *App) recordRun(summary Summary) string {
	if a.history == nil {
		return ""
	}

	run := history.Run{
		ProjectKey: a.Config.DB.ProjectKey,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Written:    summary.Count(history.StatusWritten),
		Skipped:    summary.Count(history.StatusSkipped),
		Empty:      summary.Count(history.StatusEmpty),
		Failed:     summary.Count(history.StatusFailed),
	}
	if summary.Err != nil {
		run.Error = summary.Err.Error()
	}
	for _, r := range summary.Results {
		run.Files = append(run.Files, history.FileRecord{
			Source:      r.Source,
			Output:      r.Output,
			Status:      r.Status,
			Prototypes:  r.Prototypes,
			ContentHash: r.ContentHash,
		})
	}

	id, err := a.history.SaveRun(run)
	if err != nil {
		slog.Warn("failed to record generation run", "error", err)
		return ""
	}
	slog.Debug("generation run recorded", "run_id", id)
	return id
}
