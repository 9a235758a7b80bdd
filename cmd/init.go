package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/pet-go/internal/config"
)

// ExampleFileName is the scenario file written by pet init.
const ExampleFileName = "example" + ScenarioExt

const initConfigContent = `# pet configuration
paths:
  - .
concurrency: 1
fail_fast: false
color: auto
# step_timeout: 5s
`

const initExampleContent = `# A scenario is a test header followed by given/when/then/and steps.
test "printing lines"
  given I print "hello"
  and I print "world"
  then I see 2 lines of output

test "remembering values"
  given I set "answer" to 42
  then I expect "answer" to equal 42
`

// InitIO handles I/O for the init command.
type InitIO interface {
	StatFile(path string) (bool, error)
	WriteFileAtomic(path, content string) error
}

// NewInitCmd creates the init subcommand.
func NewInitCmd(io InitIO) *cobra.Command {
	return newInitCmdWithGetCWD(io, os.Getwd)
}

func newInitCmdWithGetCWD(io InitIO, getwd func() (string, error)) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a .pet.yml and an example scenario in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				cwd, err := getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
				dir = cwd
			}

			files := []struct{ name, content string }{
				{config.FileName, initConfigContent},
				{ExampleFileName, initExampleContent},
			}

			overwriting := false
			for _, f := range files {
				exists, err := io.StatFile(filepath.Join(dir, f.name))
				if err != nil {
					return fmt.Errorf("checking %s: %w", f.name, err)
				}
				if exists && !force {
					return fmt.Errorf("%s already exists in %s; use --force to overwrite", f.name, dir)
				}
				overwriting = overwriting || exists
			}

			for i, f := range files {
				if err := io.WriteFileAtomic(filepath.Join(dir, f.name), f.content); err != nil {
					if i > 0 {
						return fmt.Errorf("writing %s (partial init; re-run with --force to recover): %w", f.name, err)
					}
					return fmt.Errorf("writing %s: %w", f.name, err)
				}
			}

			if overwriting {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing files")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Initialized "+dir)
			return nil
		},
	}

	cmd.Flags().String("dir", "", "directory to initialize (default: current directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}

// fileInitIO implements InitIO using OS file I/O.
type fileInitIO struct{}

func newDefaultInitIO() *fileInitIO {
	return &fileInitIO{}
}

// StatFile returns true if the file at path exists, false if it does not.
// Returns an error only for unexpected OS errors.
func (f *fileInitIO) StatFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes content to a temp file beside path, then renames it
// into place.
func (f *fileInitIO) WriteFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pet-init-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
