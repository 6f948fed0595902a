// git-issue is a distributed issue tracker whose database is a git
// repository: every issue is a directory of plain files and every
// mutation is a commit.
package main

import (
	"fmt"
	"os"

	"gitissue/internal/cmd"
	"gitissue/internal/tracker"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(tracker.ExitCode(err))
	}
}
