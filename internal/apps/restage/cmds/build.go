package restage

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/0xa1bed0/restage/internal/dockerclient"
	"github.com/0xa1bed0/restage/internal/gitops"
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/runtime"
	"github.com/0xa1bed0/restage/internal/stages"
	"github.com/0xa1bed0/restage/internal/state"
	"github.com/0xa1bed0/restage/internal/ui"
	"github.com/0xa1bed0/restage/internal/utils"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	opts := &resolveOptions{}
	var phaseArg string
	var registry, tag string
	var yes, pick, force bool

	cmd := &cobra.Command{
		Use:   "build [PATH]",
		Short: "Build the stage images the resolver marks for rebuild",
		Long: `Build resolves the rebuild plan and builds the marked stage images
from their Dockerfiles in the watched directory. Images already present for
the target tag are skipped unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running build...")
			opts.repoPathFromArgs(args)

			rt := runtime.FromContextOrPanic(cmd.Context())

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			p, err := opts.resolvePlan(signalsCtx)
			if err != nil {
				return err
			}

			phases, err := selectPhases(phaseArg)
			if err != nil {
				return err
			}

			var toBuild []string
			for _, ph := range phases {
				toBuild = append(toBuild, p.ToRebuild(ph)...)
			}
			toBuild = utils.UniqueTrimmedStrings(toBuild)

			if len(toBuild) == 0 {
				logs.Infof("nothing to rebuild")
				return nil
			}

			if pick {
				toBuild, err = pickStages(toBuild)
				if err != nil {
					return err
				}
				if len(toBuild) == 0 {
					logs.Infof("no stages selected")
					return nil
				}
			}

			if tag == "" {
				tag, err = gitops.New(opts.repoPath).HeadSHA(signalsCtx)
				if err != nil {
					return err
				}
			}

			if !yes {
				ok, err := logs.PromptConfirm(fmt.Sprintf("Build %d stage image(s) tagged %s?", len(toBuild), tag))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			docker, err := dockerclient.NewDockerClient()
			if err != nil {
				return err
			}

			tail := logs.NewTailBox("stage builds")
			defer tail.Close()

			for _, stage := range toBuild {
				imageRef := stageImageRef(registry, stage, tag)

				if !force && docker.ImageExists(signalsCtx, imageRef) {
					tail.Printf("%s already exists, skipping", imageRef)
					continue
				}

				dockerfile := filepath.Join(opts.repoPath, opts.watched, stage+".Dockerfile")
				tail.Printf("building %s from %s", imageRef, dockerfile)

				built, err := docker.BuildStage(signalsCtx, dockerfile, imageRef)
				if err != nil {
					return fmt.Errorf("build stage %s: %w", stage, err)
				}
				tail.Printf("built %s", built)
			}

			if coversFullPlan(phaseArg, pick) {
				kv, err := state.DefaultKVStore(signalsCtx)
				if err != nil {
					logs.Warnf("state store unavailable: %v", err)
				} else {
					recordLastBuild(signalsCtx, opts.repoPath, kv)
				}
			} else {
				logs.Debugf("partial build, keeping the previous diff base")
			}

			return nil
		},
	}

	attachResolveFlags(cmd, opts)
	cmd.Flags().StringVar(&phaseArg, "phase", "all", "restrict building to one phase: 1, 2, 3 or all")
	cmd.Flags().StringVar(&registry, "registry", "", "image name prefix, e.g. ghcr.io/org; empty builds bare local tags")
	cmd.Flags().StringVar(&tag, "tag", "", "image tag; defaults to the HEAD commit SHA")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&pick, "pick", false, "interactively select which of the marked stages to build")
	cmd.Flags().BoolVar(&force, "force", false, "rebuild even when the image already exists")

	return cmd
}

func selectPhases(arg string) ([]stages.Phase, error) {
	switch arg {
	case "all", "":
		return stages.Phases, nil
	case "1":
		return []stages.Phase{stages.PhaseOne}, nil
	case "2":
		return []stages.Phase{stages.PhaseTwo}, nil
	case "3":
		return []stages.Phase{stages.PhaseThree}, nil
	}
	return nil, fmt.Errorf("unknown phase %q (want 1, 2, 3 or all)", arg)
}

func pickStages(candidates []string) ([]string, error) {
	options := make([]ui.SelectOption, 0, len(candidates))
	for _, s := range candidates {
		options = append(options, logs.NewSelectOption(s, s))
	}

	selected, err := logs.PromptSelectMany("Select stages to build", options)
	if err != nil {
		return nil, err
	}

	picked := make([]string, 0, len(selected))
	for _, o := range selected {
		picked = append(picked, o.OptionID())
	}
	return picked, nil
}

func stageImageRef(registry, stage, tag string) string {
	if registry == "" {
		return stage + ":" + tag
	}
	return registry + "/" + stage + ":" + tag
}

// coversFullPlan reports whether a build run covered every stage the plan
// marked. Only then may its HEAD become the next default diff base: a
// --phase or --pick narrowed run leaves stages unbuilt, and advancing the
// base past their changes would silently drop them from every later plan.
func coversFullPlan(phaseArg string, pick bool) bool {
	return (phaseArg == "all" || phaseArg == "") && !pick
}

// recordLastBuild remembers the revision last built for the branch, which
// later runs use as their default diff base. Failures are logged, never
// fatal: the state store is a convenience, not a dependency.
func recordLastBuild(ctx context.Context, repoPath string, kv *state.KVStore) {
	git := gitops.New(repoPath)

	branch, err := git.CurrentBranch(ctx)
	if err != nil {
		logs.Debugf("can't detect branch for build record: %v", err)
		return
	}
	sha, err := git.HeadSHA(ctx)
	if err != nil {
		logs.Debugf("can't detect HEAD for build record: %v", err)
		return
	}

	if err := kv.Upsert(ctx, state.LastBuildKey(branch), sha); err != nil {
		logs.Warnf("can't record build for %s: %v", branch, err)
	}
}
