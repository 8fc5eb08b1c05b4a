package restage

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	appconfig "github.com/0xa1bed0/restage/internal/apps/restage/config"
	"github.com/0xa1bed0/restage/internal/changeset"
	"github.com/0xa1bed0/restage/internal/gitops"
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/manifests"
	"github.com/0xa1bed0/restage/internal/plan"
	"github.com/0xa1bed0/restage/internal/resolve"
	"github.com/0xa1bed0/restage/internal/runtime"
	"github.com/0xa1bed0/restage/internal/stages"
	"github.com/0xa1bed0/restage/internal/state"
	"github.com/0xa1bed0/restage/internal/ui"
	"github.com/0xa1bed0/restage/internal/utils"
	"github.com/spf13/cobra"
)

const (
	formatJSON    = "json"
	formatOutputs = "outputs"
)

// resolveOptions are the flags shared by every command that needs a plan.
type resolveOptions struct {
	repoPath    string
	manifestDir string
	watched     string
	description string
	since       string
	changed     []string
}

func attachResolveFlags(cmd *cobra.Command, opts *resolveOptions) {
	cmd.Flags().StringVar(&opts.repoPath, "repo-path", ".", "path to the git checkout")
	cmd.Flags().StringVar(&opts.manifestDir, "manifest-dir", appconfig.DefaultManifestDir, "directory with phase and base requirement manifests, relative to the checkout")
	cmd.Flags().StringVar(&opts.watched, "watched", appconfig.DefaultWatchedDir, "directory whose changes trigger stage rebuilds, relative to the checkout")
	cmd.Flags().StringVar(&opts.description, "description", "", "change description; defaults to the HEAD commit message")
	cmd.Flags().StringVar(&opts.since, "since", "", "git ref to diff against; defaults to the branch's last built revision, then HEAD~1")
	cmd.Flags().StringSliceVar(&opts.changed, "changed", nil, "explicit changed files; skips the git diff")
}

// repoPathFromArgs applies the optional positional PATH argument.
func (o *resolveOptions) repoPathFromArgs(args []string) {
	if len(args) == 1 {
		o.repoPath = args[0]
	}
}

// sinceRef picks the diff base: the explicit flag, the last built revision
// recorded for the branch, or HEAD~1. kv may be nil.
func (o *resolveOptions) sinceRef(ctx context.Context, git *gitops.Git, kv *state.KVStore) string {
	if o.since != "" {
		return o.since
	}

	if kv != nil {
		if branch, err := git.CurrentBranch(ctx); err == nil {
			if entry, found, err := kv.Get(ctx, state.LastBuildKey(branch)); err == nil && found {
				logs.Debugf("diffing against last built revision %s", entry.Value)
				return entry.Value
			}
		}
	}

	return "HEAD~1"
}

// resolvePlan assembles the inputs and runs one resolution. Git is only
// consulted for inputs not given on the command line.
func (o *resolveOptions) resolvePlan(ctx context.Context) (*plan.RebuildPlan, error) {
	git := gitops.New(o.repoPath)

	description := o.description
	if description == "" {
		msg, err := git.HeadMessage(ctx)
		if err != nil {
			return nil, err
		}
		description = msg
	}

	changed := utils.UniqueTrimmedStrings(o.changed)
	if len(changed) == 0 {
		var kv *state.KVStore
		if o.since == "" {
			kv, _ = state.DefaultKVStore(ctx)
		}
		diff, err := git.DiffNames(ctx, o.sinceRef(ctx, git, kv), o.watched)
		if err != nil {
			return nil, err
		}
		changed = diff
	}

	loader, err := manifests.NewLoader(filepath.Join(o.repoPath, o.manifestDir))
	if err != nil {
		return nil, err
	}

	logs.Debugf("resolving with %d changed file(s)", len(changed))

	return resolve.NewEngine(loader).Resolve(description, changeset.New(changed))
}

func newResolveCmd() *cobra.Command {
	opts := &resolveOptions{}
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "resolve [PATH]",
		Short: "Resolve which stages need rebuilding",
		Long: `Resolve computes the rebuild plan for the current change: the three
phase catalogs plus the subset of each that must be rebuilt.

The plan is written as a JSON object (--format json) or as key=<json array>
lines (--format outputs) for consumption as CI step outputs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running resolve...")
			opts.repoPathFromArgs(args)

			rt := runtime.FromContextOrPanic(cmd.Context())

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			p, err := opts.resolvePlan(signalsCtx)
			if err != nil {
				return err
			}

			if output == "" && format == formatOutputs {
				output = os.Getenv("GITHUB_OUTPUT")
			}

			var w io.Writer = os.Stdout
			if output != "" && output != "-" {
				mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
				if format == formatOutputs {
					// step-output files accumulate, never truncate them
					mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
				}
				f, err := os.OpenFile(output, mode, 0o644)
				if err != nil {
					return fmt.Errorf("open output %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case formatJSON:
				err = p.WriteJSON(w)
			case formatOutputs:
				err = p.WriteOutputs(w)
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatOutputs)
			}
			if err != nil {
				return err
			}

			if w != os.Stdout {
				printPlanSummary(p)
			}

			return nil
		},
	}

	attachResolveFlags(cmd, opts)
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or outputs")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path; '-' or empty writes to stdout (outputs format defaults to $GITHUB_OUTPUT)")

	return cmd
}

func printPlanSummary(p *plan.RebuildPlan) {
	colums := []ui.Column{
		{Header: "Phase"},
		{Header: "Stages"},
		{Header: "Rebuild"},
	}

	table := ui.NewTable(colums...)

	for _, ph := range stages.Phases {
		table.AddRow(ph.String(), strings.Join(p.AllStages(ph), ", "), strings.Join(p.ToRebuild(ph), ", "))
	}

	fmt.Println("")
	table.Render(os.Stdout)
	fmt.Println("")
}
