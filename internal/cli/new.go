package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/grumpyproject/grumpy/pkg/catalog"
	"github.com/grumpyproject/grumpy/pkg/scaffold"
	"github.com/grumpyproject/grumpy/pkg/scaffoldtui"
)

const newExample = `  grumpy new myproject
  # Create a library project
  grumpy new mylib --lib

  # Create a project with a named entry-point script
  grumpy new mytool --script loader
`

var ErrInvalidArgument = errors.New("invalid argument")

// NewNewCmd returns the new command.
func NewNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new <name>",
		Short:   "Create a project with standard conventions",
		Example: newExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			var merr error

			flags := cc.Flags()
			basePath, err := flags.GetString("path")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			script, err := flags.GetString("script")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			timeout, err := flags.GetDuration("timeout")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			lib, err := flags.GetBool("lib")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			logLevel, err := flags.GetString("log_level")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			quiet, err := flags.GetBool("quiet")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			if merr != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
			}

			kind := catalog.KindExecutable
			if lib {
				kind = catalog.KindLibrary
			}

			p, err := scaffold.NewProject(basePath, args[0], kind,
				scaffold.WithScript(script),
				scaffold.WithTimeout(timeout),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			if quiet || !isatty.IsTerminal(os.Stdout.Fd()) {
				return p.New()
			}

			st, err := scaffoldtui.NewScaffoldTUI(cc.OutOrStdout(), logLevel, args[0], p)
			if err != nil {
				return fmt.Errorf("failed to create tui: %w", err)
			}

			return st.New()
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("bin", true, "Create an executable project")
	cmd.Flags().Bool("lib", false, "Create a library project")
	cmd.Flags().StringP("path", "p", ".", "Base path for the project")
	cmd.Flags().StringP("script", "s", scaffold.DefaultScript, "Entry-point script name")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Timeout for project creation")
	cmd.Flags().BoolP("quiet", "q", false, "Run in quiet mode")
	cmd.MarkFlagsMutuallyExclusive("bin", "lib")

	must(cmd.MarkFlagDirname("path"))

	return cmd
}
