package restage

import (
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/runtime"
	"github.com/spf13/cobra"
)

var verbosity int

func Execute(rt *runtime.Runtime) error {
	rootCmd := &cobra.Command{
		Use:   "restage",
		Short: "Stage rebuild resolver for layered container image pipelines",
		Long: `restage decides which pipeline stage images must be rebuilt for a
change, from the phase manifests, the changed files and any [rebuild <stage>]
directives in the change description. It can emit the plan for CI, build the
images locally, or dispatch the downstream build workflow.`,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logs.SetDebugVerbosity(verbosity)
			return nil
		},
		// we will handle that
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity level")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newDispatchCmd())
	rootCmd.AddCommand(newBumpCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd.ExecuteContext(rt.Ctx())
}
