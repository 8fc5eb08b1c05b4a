package restage

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/0xa1bed0/restage/internal/dispatch"
	"github.com/0xa1bed0/restage/internal/gitops"
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/runtime"
	"github.com/0xa1bed0/restage/internal/state"
	"github.com/spf13/cobra"
)

func newDispatchCmd() *cobra.Command {
	opts := &resolveOptions{}
	var repo, workflow, ref string
	var force bool

	cmd := &cobra.Command{
		Use:   "dispatch [PATH]",
		Short: "Trigger the downstream build workflow with the resolved plan",
		Long: `Dispatch resolves the rebuild plan and fires a workflow-dispatch event
with the plan's six fields as workflow inputs. An empty plan is not
dispatched, and a plan identical to the last one dispatched for the ref is
skipped, unless --force is given.

The API token is read from ` + dispatch.TokenEnv + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running dispatch...")
			opts.repoPathFromArgs(args)

			rt := runtime.FromContextOrPanic(cmd.Context())

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			p, err := opts.resolvePlan(signalsCtx)
			if err != nil {
				return err
			}

			if ref == "" {
				ref, err = gitops.New(opts.repoPath).CurrentBranch(signalsCtx)
				if err != nil {
					return err
				}
			}

			if p.Empty() && !force {
				logs.Infof("no stages to rebuild, skipping dispatch")
				return nil
			}

			digest, err := dispatch.PlanDigest(p)
			if err != nil {
				return err
			}

			kv, err := state.DefaultKVStore(signalsCtx)
			if err != nil {
				logs.Warnf("state store unavailable, dispatch dedup disabled: %v", err)
				kv = nil
			}

			if !force {
				done, err := dispatch.AlreadyDispatched(signalsCtx, kv, ref, digest)
				if err != nil {
					return err
				}
				if done {
					logs.Infof("identical plan already dispatched for %s, skipping", ref)
					return nil
				}
			}

			client, err := dispatch.NewClient(repo)
			if err != nil {
				return err
			}

			if err := client.TriggerBuild(signalsCtx, workflow, ref, p); err != nil {
				return err
			}
			logs.Infof("dispatched %s on %s", workflow, ref)

			return dispatch.Record(signalsCtx, kv, ref, digest)
		},
	}

	attachResolveFlags(cmd, opts)
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository (owner/name)")
	cmd.MarkFlagRequired("repo")
	cmd.Flags().StringVar(&workflow, "workflow", "build-test.yml", "workflow file to dispatch")
	cmd.Flags().StringVar(&ref, "ref", "", "git ref to dispatch on; defaults to the current branch")
	cmd.Flags().BoolVar(&force, "force", false, "dispatch even when the plan is empty or unchanged")

	return cmd
}
