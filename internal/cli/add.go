package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/grumpyproject/grumpy/pkg/catalog"
	"github.com/grumpyproject/grumpy/pkg/scaffold"
	"github.com/grumpyproject/grumpy/pkg/scaffoldtui"
)

const addExample = `  grumpy add loader
  # Add a script to a project elsewhere
  grumpy add loader --project ../myproject
`

// NewAddCmd returns the add command.
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <script>",
		Short:   "Add an entry-point script to an existing project",
		Example: addExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			var merr error

			flags := cc.Flags()
			project, err := flags.GetString("project")
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

			abs, err := filepath.Abs(project)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			p, err := scaffold.NewProject(filepath.Dir(abs), filepath.Base(abs), catalog.KindExecutable)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			if quiet || !isatty.IsTerminal(os.Stdout.Fd()) {
				return p.Add(args[0])
			}

			st, err := scaffoldtui.NewScaffoldTUI(cc.OutOrStdout(), logLevel, filepath.Base(abs), p)
			if err != nil {
				return fmt.Errorf("failed to create tui: %w", err)
			}

			return st.Add(args[0])
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringP("project", "p", ".", "Project directory")
	cmd.Flags().BoolP("quiet", "q", false, "Run in quiet mode")

	must(cmd.MarkFlagDirname("project"))

	return cmd
}
