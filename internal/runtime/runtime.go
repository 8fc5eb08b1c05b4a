package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	appconfig "github.com/0xa1bed0/restage/internal/apps/restage/config"
	"github.com/0xa1bed0/restage/internal/logs"
	"github.com/0xa1bed0/restage/internal/ui"
)

type Runtime struct {
	runID string

	ctx        context.Context    // global context
	cancelFunc context.CancelFunc // cancelFunc of global context

	mu sync.Mutex

	wg              sync.WaitGroup
	shutdownTimeout time.Duration

	firstFailErr error
}

func (rt *Runtime) CancelCtx() {
	rt.cancelFunc()
}

func (rt *Runtime) Ctx() context.Context {
	return rt.ctx
}

func (rt *Runtime) RunID() string {
	return rt.runID
}

type runtimeKey struct{}

func NewHostRuntime() *Runtime {
	baseCtx, cancel := context.WithCancel(context.Background())
	runID := strconv.FormatInt(time.Now().Unix(), 10)
	rt := &Runtime{
		runID:           runID,
		cancelFunc:      cancel,
		shutdownTimeout: time.Duration(5 * time.Second),
	}
	// yes, for this particula case we use context as DI which is very bad practice.
	// BUT we use it for ONLY ONE Runtime pointer.
	// We will make sure we load context from context once at the root of each individual commands
	// this will significantly reduce the boilerplate which is greater win then code readability loss.
	ctx := context.WithValue(baseCtx, runtimeKey{}, rt)
	rt.ctx = ctx
	return rt
}

func FromContext(ctx context.Context) *Runtime {
	v := ctx.Value(runtimeKey{})
	if v == nil {
		return nil
	}
	rt, _ := v.(*Runtime)
	return rt
}

func FromContextOrPanic(ctx context.Context) *Runtime {
	rt := FromContext(ctx)
	if rt == nil {
		panic(errors.New("runtime not found in this context"))
	}
	return rt
}

// OpenRunLog routes the full log stream to the per-run log file.
func (rt *Runtime) OpenRunLog() {
	logPath := appconfig.RunLogPath(rt.RunID())
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		logs.Warnf("can't create log directory: %v", err)
		return
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		logs.Warnf("can't open log file: %v", err)
		return
	}
	// Wrap in SyncWriter for periodic sync, then in TimestampWriter to add
	// timestamps at the final destination.
	syncWriter := ui.NewSyncWriter(f, 200*time.Millisecond)
	logs.SetFullLogWriter(ui.NewTimestampWriter(syncWriter))
}

// GoNamed runs fn in a new goroutine, with panic recovery.
//
// Contract:
//   - If fn panics, the panic is recovered, wrapped into an error, recorded,
//     and the context is cancelled.
//   - Runtime.Wait() will wait for all such goroutines and return the first error.
func (rt *Runtime) GoNamed(name string, fn func()) {
	if name == "" {
		name = "annonymous"
	}
	rt.wg.Go(func() {
		logs.Debugf("%s goroutine start", name)
		defer func() {
			// recover panic
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v\n%s", r, debug.Stack())
				rt.mu.Lock()
				if rt.firstFailErr == nil {
					rt.firstFailErr = err
					// cancel everyone on first failure
					rt.cancelFunc()
				}
				rt.mu.Unlock()
			}
		}()

		fn()
		logs.Debugf("%s goroutine finish", name)
	})
}

func (rt *Runtime) Wait() error {
	rt.wg.Wait()

	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.firstFailErr
}

func (rt *Runtime) OnShutdown(fn func(ctx context.Context)) {
	rt.GoNamed("OnShutdown", func() {
		// wait until runtime context is cancelled
		<-rt.ctx.Done()

		cleanupCtx, cancel := context.WithTimeout(context.Background(), rt.shutdownTimeout)
		defer cancel()

		fn(cleanupCtx)
	})
}

// Finalize handles both panic and normal exit.
// Call it in a defer at the top of main.
func (rt *Runtime) Finalize(appName, helpHint string, execErr *error) {
	// detect panic
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "%s panic: %v\n", appName, r)
		fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
		fmt.Fprintln(os.Stderr, "")
		if helpHint != "" {
			fmt.Fprintln(os.Stderr, helpHint)
		}

		// cancel & wait so OnShutdown hooks run
		rt.CancelCtx()
		_ = rt.Wait()

		logs.Close()
		os.Exit(1)
	}

	// normal (non-panic) path - use execErr to decide exit code
	rt.CancelCtx()
	waitErr := rt.Wait()

	// log first failure if any
	if execErr != nil && *execErr != nil {
		logs.Errorf("%s error: %v", appName, *execErr)
		if helpHint != "" {
			fmt.Fprintln(os.Stderr, helpHint)
		}
	} else if waitErr != nil {
		logs.Errorf("%s fail reason: %v", appName, waitErr)
	}

	logs.Close()
}
