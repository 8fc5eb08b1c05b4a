package restage

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xa1bed0/restage/internal/gitops"
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/runtime"
	"github.com/0xa1bed0/restage/internal/utils"
	"github.com/0xa1bed0/restage/internal/versionbump"
	"github.com/0xa1bed0/restage/internal/versions"
	"github.com/spf13/cobra"
)

func newBumpCmd() *cobra.Command {
	var commit, push, yes bool
	var repoPath string

	cmd := &cobra.Command{
		Use:   "bump LEVEL FILE [FILE...]",
		Short: "Bump the project version across tracked files",
		Long: `Bump rewrites the project version in the given files.

LEVEL is one of patch, minor or major. The current version is detected from
the first file and every occurrence of it is replaced in all of them.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running bump...")

			rt := runtime.FromContextOrPanic(cmd.Context())

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			level, err := versions.ParseBumpLevel(args[0])
			if err != nil {
				return err
			}
			files := utils.UniqueTrimmedStrings(args[1:])

			res, err := versionbump.NewBumper().Bump(files, level)
			if err != nil {
				return err
			}

			logs.Infof("bumped %s -> %s (%d file(s) touched)", res.Old, res.New, len(res.Touched))

			if !commit {
				return nil
			}
			if len(res.Touched) == 0 {
				logs.Warnf("nothing changed, skipping commit")
				return nil
			}

			if !yes {
				ok, err := logs.PromptConfirm(fmt.Sprintf("Commit version bump to %s?", res.New))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			git := gitops.New(repoPath)
			if err := git.Commit(signalsCtx, fmt.Sprintf("Bump version to %s", res.New), res.Touched...); err != nil {
				return err
			}
			if push {
				return git.Push(signalsCtx)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "commit the touched files")
	cmd.Flags().BoolVar(&push, "push", false, "push after committing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&repoPath, "repo-path", ".", "path to the git checkout")

	return cmd
}
