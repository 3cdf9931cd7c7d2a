package history

import "time"

// SchemaVersion is the newest migration this build knows how to apply.
const SchemaVersion = 1

type FileStatus string

const (
	StatusWritten FileStatus = "written"
	StatusSkipped FileStatus = "skipped"
	StatusEmpty   FileStatus = "empty"
	StatusRemoved FileStatus = "removed"
	StatusFailed  FileStatus = "failed"
)

// Run is one invocation of header generation over a set of sources.
type Run struct {
	ID         string
	ProjectKey string
	StartedAt  time.Time
	FinishedAt time.Time
	Written    int
	Skipped    int
	Empty      int
	Failed     int
	Error      string
	Files      []FileRecord
}

// FileRecord is the outcome for a single source file within a run.
type FileRecord struct {
	Source      string
	Output      string
	Status      FileStatus
	Prototypes  int
	ContentHash string
}

// Succeeded reports whether the run finished without a generation failure.
func (r Run) Succeeded() bool {
	return r.Failed == 0 && r.Error == ""
}
