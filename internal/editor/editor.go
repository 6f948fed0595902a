// Package editor opens the user's text editor on a temp file and
// returns the edited content with comment lines stripped.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gitissue/internal/tracker"
)

// Resolve picks the editor command. configured (from config.yml) wins,
// then $VISUAL, then $EDITOR, then vi.
func Resolve(configured string) string {
	if configured != "" {
		return configured
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

// Edit writes initial to a temp file, runs the editor on it with the
// terminal attached, and returns the result. Lines starting with '#'
// are dropped and surrounding whitespace is trimmed, so an untouched
// comment-only template comes back empty.
func Edit(configured, initial string) (string, error) {
	tmp, err := os.CreateTemp("", "gi-*.md")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %v", tracker.ErrExternalTool, err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: writing temp file: %v", tracker.ErrExternalTool, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing temp file: %v", tracker.ErrExternalTool, err)
	}

	name := Resolve(configured)
	cmd := exec.Command(name, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s exited with error: %v", tracker.ErrExternalTool, name, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading temp file: %v", tracker.ErrExternalTool, err)
	}
	return Strip(string(edited)), nil
}

// Strip removes '#' comment lines and trims surrounding whitespace.
func Strip(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
