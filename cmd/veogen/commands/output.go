package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	primary = lipgloss.Color("#00ff9f")
	dim     = lipgloss.Color("#6e7681")
	danger  = lipgloss.Color("#ff5f87")

	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	helpStyle    = lipgloss.NewStyle().Foreground(dim)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(danger)
)

func printInfo(format string, args ...any) {
	fmt.Fprintln(os.Stderr, labelStyle.Render("›")+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, successStyle.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func printProgress(attempt int, message string, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "%s %s %s\n",
		labelStyle.Render(fmt.Sprintf("[%d]", attempt)),
		message,
		helpStyle.Render(elapsed.Truncate(time.Second).String()))
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
