package cli

import (
	"fmt"
	"io"
	"os"

	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/specialistvlad/algoharness/internal/app"
	"github.com/specialistvlad/algoharness/internal/runstore"
)

type palette struct {
	green  func(a ...any) string
	red    func(a ...any) string
	yellow func(a ...any) string
	cyan   func(a ...any) string
}

// newPalette colors output only when it goes to the terminal's stdout.
func newPalette(w io.Writer) palette {
	mk := func(attr color.Attribute) func(a ...any) string {
		c := color.New(attr)
		if w != io.Writer(os.Stdout) {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		green:  mk(color.FgGreen),
		red:    mk(color.FgRed),
		yellow: mk(color.FgYellow),
		cyan:   mk(color.FgCyan),
	}
}

func (p palette) status(s string) string {
	switch s {
	case "succeeded":
		return p.green(s)
	case "failed":
		return p.red(s)
	}
	return p.yellow(s)
}

func printResult(w io.Writer, res *app.Result) {
	p := newPalette(w)

	title := res.Command + " finished"
	if res.DryRun {
		title += " " + p.yellow("(dry run)")
	}
	fmt.Fprintf(w, "%s %s\n", p.green("✔"), title)

	if res.Command == "train" {
		fmt.Fprintf(w, "  rank:  %d\n", res.Rank)
		fmt.Fprintf(w, "  model: %s\n", p.cyan(res.ModelPath))
	}
	fmt.Fprintf(w, "  pred:  %s\n", p.cyan(res.PredPath))
	if res.RunID != "" {
		fmt.Fprintf(w, "  run:   %s\n", res.RunID)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// printHistory renders runs as a borderless table, one line per run.
func printHistory(w io.Writer, runs []runstore.Run) {
	p := newPalette(w)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("STARTED", "COMMAND", "RANK", "STATUS", "MODELS", "ID")

	for _, run := range runs {
		t.Row(
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Command,
			fmt.Sprint(run.Rank),
			p.status(string(run.Status)),
			"["+strings.Join(run.Models, " ")+"]",
			run.ID,
		)
	}
	fmt.Fprintln(w, t.Render())
}
