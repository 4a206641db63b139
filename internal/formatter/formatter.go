// package formatter renders pipeline results for terminal output
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/trackdrop/internal/models"
	"github.com/desertthunder/trackdrop/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Requests renders pending download requests as a numbered list.
func Requests(requests []models.DownloadRequest) string {
	var buf strings.Builder

	buf.WriteString(styles.title.Render("Pending shares"))
	buf.WriteString("\n")

	if len(requests) == 0 {
		buf.WriteString(styles.help.Render("nothing new"))
		buf.WriteString("\n")
		return buf.String()
	}

	for i, req := range requests {
		sender := req.SenderName
		if sender == "" {
			sender = "unknown sender"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s from %s\n", i+1, req.Type, req.ShareURL, sender))
	}

	return buf.String()
}

// Report renders the outcome of one pipeline pass.
func Report(report *tasks.PipelineReport) string {
	var buf strings.Builder

	buf.WriteString(styles.title.Render("Pipeline pass"))
	buf.WriteString("\n")

	if len(report.Results) == 0 {
		buf.WriteString(styles.help.Render("nothing to do"))
		buf.WriteString("\n")
		return buf.String()
	}

	for _, result := range report.Results {
		label := result.Request.ShareURL
		if result.Outcome != nil && result.Outcome.Name != "" {
			label = result.Outcome.Name
		}

		if result.Err != nil {
			buf.WriteString(fmt.Sprintf("%s %s: %v\n", styles.err.Render("✗"), label, result.Err))
			continue
		}

		line := fmt.Sprintf("%s %s", styles.ok.Render("✓"), label)
		if result.Outcome != nil && result.Outcome.Type == models.TypePlaylist {
			line += fmt.Sprintf(" (%d songs)", len(result.Outcome.Songs))
		}
		buf.WriteString(line + "\n")
	}

	buf.WriteString(fmt.Sprintf("\n%d succeeded, %d failed\n", report.Succeeded, report.Failed))
	return buf.String()
}

// FriendGap renders followers that are not yet followed back.
func FriendGap(entries []models.ProfileEntry) string {
	var buf strings.Builder

	buf.WriteString(styles.title.Render("Followers not followed back"))
	buf.WriteString("\n")

	if len(entries) == 0 {
		buf.WriteString(styles.ok.Render("everyone is followed back"))
		buf.WriteString("\n")
		return buf.String()
	}

	for _, entry := range entries {
		name := entry.Name
		if name == "" {
			name = styles.help.Render("(no name)")
		}
		buf.WriteString(fmt.Sprintf("- %s %s\n", name, styles.help.Render(entry.UserID)))
	}

	return buf.String()
}

// LoopStats renders scheduler loop counters, one loop per block.
func LoopStats(stats map[string]tasks.LoopStats) string {
	var buf strings.Builder

	buf.WriteString(styles.title.Render("Loops"))
	buf.WriteString("\n")

	for name, st := range stats {
		buf.WriteString(styles.ok.Render(name))
		buf.WriteString(fmt.Sprintf("\n  ticks: %d  skips: %d  failures: %d\n", st.Ticks, st.Skips, st.Failures))
		if !st.LastRun.IsZero() {
			buf.WriteString(fmt.Sprintf("  last run: %s\n", st.LastRun.Format("2006-01-02 15:04:05")))
		}
		if st.LastError != "" {
			buf.WriteString(fmt.Sprintf("  last error: %s\n", styles.warn.Render(st.LastError)))
		}
	}

	return buf.String()
}
