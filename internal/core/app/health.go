package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if tr := s.app.Translator(); tr == nil {
		status.Status = "degraded"
		status.Components["translator"] = "missing"
	} else {
		status.Components["translator"] = fmt.Sprintf("ok (%d types, %d modifiers)", tr.Types().Len(), len(tr.Modifiers().Spellings()))
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	if s.app.activeWatcher != nil {
		status.Components["watcher"] = "ok"
	}
	if s.app.auditor != nil {
		status.Components["audit"] = "ok"
	}

	return status
}
