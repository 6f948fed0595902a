package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitissue/internal/config"
	"gitissue/internal/gitx"
	"gitissue/internal/tracker"

	"github.com/spf13/cobra"
)

const descriptionTemplate = `

# Start with a one-line summary of the issue.  Leave a blank line and
# continue with the issue's detailed description.
#
# Remember:
# - Be precise
# - Be clear: explain how to reproduce the problem, step by step,
#   so others can reproduce the issue
# - Include only one problem per issue report
#
# Lines starting with '#' will be ignored, and an empty message aborts
# the issue addition.
`

const commentTemplate = `

# Please write here a comment regarding the issue.
# Keep the conversation constructive and polite.
# Lines starting with '#' will be ignored, and an empty message aborts
# the issue addition.
`

const readme = `This is a distributed issue tracking repository based on Git.
Issues live under issues/ as directories of plain files; every change
to them is recorded as a commit in this repository.
`

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates the
// .issues directory the App would be opened on.
func newInitCmd(provider *AppProvider) *cobra.Command {
	var (
		dir      string
		existing bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize an issues repository",
		Long: `Create a .issues directory and commit its initial contents.

By default a fresh git repository is created inside .issues, keeping
issue history separate from the project's. With --existing the issues
directory joins the enclosing git repository instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), dir, existing)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to initialize in")
	cmd.Flags().BoolVarP(&existing, "existing", "e", false, "Record issue history in the enclosing git repository")

	return cmd
}

func runInit(out io.Writer, dir string, existing bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	issuesDir := filepath.Join(abs, tracker.DirName)
	if _, err := os.Stat(issuesDir); err == nil {
		return errors.New("an .issues directory is already present")
	}
	if err := os.MkdirAll(filepath.Join(issuesDir, "templates"), 0755); err != nil {
		return err
	}

	var repo *gitx.Repository
	if existing {
		repo, err = gitx.Open(issuesDir)
	} else {
		repo, err = gitx.Init(issuesDir)
	}
	if err != nil {
		return err
	}

	files := map[string]string{
		filepath.Join(issuesDir, "templates", "description"): descriptionTemplate,
		filepath.Join(issuesDir, "templates", "comment"):     commentTemplate,
		filepath.Join(issuesDir, "README.md"):                readme,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	if err := config.Write(filepath.Join(issuesDir, "config.yml"), config.Default()); err != nil {
		return err
	}

	if err := repo.Stage("."); err != nil {
		return err
	}
	if err := repo.Commit("gi: Initialize issues repository\n\ngi init"); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized issues repository in %s\n", issuesDir)
	return nil
}
