package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

// printer renders command results as aligned tables or indented JSON.
type printer struct {
	w       io.Writer
	json    bool
	heading lipgloss.Style
	notice  lipgloss.Style
}

// newPrinter styles against w itself, so pipes and buffers get plain text.
func newPrinter(w io.Writer, format string) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		json:    format == outputJSON,
		heading: r.NewStyle().Bold(true),
		notice:  r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) title(format string, args ...any) {
	fmt.Fprintln(p.w, p.heading.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) warn(msg string) {
	fmt.Fprintln(p.w, p.notice.Render("warning: "+msg))
}

func (p *printer) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
