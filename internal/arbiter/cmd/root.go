package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Root builds the conductor CLI's top-level command, following the
// teacher's Root() (internal/arbiter/cmd/root.go) but registering the
// Match Controller's command instead of the engine installer's.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:  "conductor",
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	versionStr := "v0.0.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	root.AddCommand(Match())

	return root
}
