// Package cmd implements the gi command-line interface.
package cmd

import (
	"io"
	"os"

	"gitissue/internal/config"
	"gitissue/internal/tracker"

	"golang.org/x/term"
)

// App holds application state shared across commands.
type App struct {
	Tracker   *tracker.Tracker
	Config    config.Config
	IssuesDir string // absolute path to the .issues directory
	Out       io.Writer
	Err       io.Writer
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout
// is a terminal, otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stdout
// is a terminal, otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[38;5;214m" + s + "\033[0m"
	}
	return s
}
