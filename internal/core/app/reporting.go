package app

import (
	"fmt"
	"hdrgen/internal/data/history"
)

// RunReport is a stored run together with its per-file records.
type RunReport struct {
	Run   history.Run
	Files []history.FileRecord
}

// RecentRuns loads the newest limit runs of the configured project.
func (a *App) RecentRuns(limit int) ([]RunReport, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history is disabled; set db.enabled = true")
	}
	runs, err := a.history.LoadRuns(a.Config.DB.ProjectKey, limit)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}

	reports := make([]RunReport, 0, len(runs))
	for _, run := range runs {
		files, err := a.history.LoadRunFiles(run.ID)
		if err != nil {
			return nil, fmt.Errorf("load files of run %s: %w", run.ID, err)
		}
		reports = append(reports, RunReport{Run: run, Files: files})
	}
	return reports, nil
}
