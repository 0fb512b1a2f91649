package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printBanner writes the human-readable startup lines. Colors are dropped
// automatically when w is not a terminal or NO_COLOR is set.
func printBanner(w io.Writer, name string, port uint16, metricsEnabled bool, metricsPath string) {
	title := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)
	tip := color.New(color.FgHiBlack)

	base := fmt.Sprintf("http://localhost:%d", port)

	fmt.Fprintln(w)
	title.Fprintf(w, "🚀 Go Mock API Server (%s) running on port %d\n", name, port)
	tip.Fprintf(w, "📊 Performance endpoint: %s/performance\n", base)
	ok.Fprintf(w, "💚 Health check: %s/health\n", base)
	if metricsEnabled {
		tip.Fprintf(w, "📈 Metrics: %s%s\n", base, metricsPath)
	}
	fmt.Fprintln(w)
}
