package cli

import (
	"fmt"
	coreapp "hdrgen/internal/core/app"
	"hdrgen/internal/data/history"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6")).
				Bold(true)

	writtenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// PrintSummary writes a short report of one generation batch.
func PrintSummary(w io.Writer, s coreapp.Summary) {
	var b strings.Builder

	counts := fmt.Sprintf("%d written, %d up to date, %d without exports, %d removed, %d failed",
		s.Count(history.StatusWritten),
		s.Count(history.StatusSkipped),
		s.Count(history.StatusEmpty),
		s.Count(history.StatusRemoved),
		s.Count(history.StatusFailed),
	)
	b.WriteString(summaryTitleStyle.Render("hdrgen"))
	b.WriteString(" " + counts)
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" (%s)", s.Duration().Round(time.Millisecond))))
	b.WriteString("\n")

	for _, r := range s.Results {
		switch r.Status {
		case history.StatusWritten:
			b.WriteString(writtenStyle.Render(fmt.Sprintf("  wrote %s (%d prototypes)", r.Output, r.Prototypes)))
			b.WriteString("\n")
		case history.StatusRemoved:
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  removed %s", r.Output)))
			b.WriteString("\n")
		case history.StatusFailed:
			b.WriteString(failureStyle.Render(fmt.Sprintf("  failed %s", r.Source)))
			b.WriteString("\n")
		}
	}

	for _, f := range s.Findings() {
		b.WriteString(warningStyle.Render("  warning: " + f.String()))
		b.WriteString("\n")
	}

	if s.Err != nil {
		b.WriteString(failureStyle.Render("error: " + s.Err.Error()))
		b.WriteString("\n")
	}

	fmt.Fprint(w, b.String())
}

// PrintHistory lists stored runs, newest first.
func PrintHistory(w io.Writer, reports []coreapp.RunReport) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "no generation runs recorded")
		return
	}
	for _, report := range reports {
		run := report.Run
		state := writtenStyle.Render("ok")
		if !run.Succeeded() {
			state = failureStyle.Render("failed")
		}
		fmt.Fprintf(w, "%s %s %s written=%d skipped=%d empty=%d failed=%d\n",
			mutedStyle.Render(run.StartedAt.Local().Format(time.DateTime)),
			run.ID,
			state,
			run.Written, run.Skipped, run.Empty, run.Failed,
		)
		if run.Error != "" {
			fmt.Fprintf(w, "  %s\n", failureStyle.Render(run.Error))
		}
		for _, f := range report.Files {
			if f.Status == history.StatusSkipped {
				continue
			}
			fmt.Fprintf(w, "  %-7s %s\n", f.Status, f.Source)
		}
	}
}
