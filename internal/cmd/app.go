package cmd

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/text/message"

	"github.com/jtessler/userctl/internal/batch"
	"github.com/jtessler/userctl/internal/config"
	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/directory/filedir"
	"github.com/jtessler/userctl/internal/directory/mongodir"
	"github.com/jtessler/userctl/internal/identifier"
	"github.com/jtessler/userctl/internal/locale"
	"github.com/jtessler/userctl/internal/style"
)

// app bundles the per-invocation collaborators every command needs:
// configuration, the opened directory backend, the localized printer, and
// the classifier hints from the global flags. It is built fresh for each
// invocation; commands never reach for process-wide state.
type app struct {
	cfg     *config.Config
	dir     directory.Service
	printer *message.Printer
	hints   identifier.Hints
}

// newApp loads configuration and opens the configured directory backend.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	reg := directory.NewRegistry()
	reg.Register(directory.BackendFile, func(context.Context) (directory.Service, error) {
		return filedir.Open(cfg.File.Path), nil
	})
	reg.Register(directory.BackendMongo, func(ctx context.Context) (directory.Service, error) {
		return mongodir.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout())
	})

	dir, err := reg.Open(ctx, cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		dir:     dir,
		printer: locale.NewPrinter(cfg.ActiveLocale()),
		hints:   identifier.Hints{ForceEmail: flagForceEmail, ForcePhone: flagForcePhone},
	}, nil
}

// close releases the directory backend. Close failures are logged, not
// returned: by this point the batch has settled and its results stand.
func (a *app) close(ctx context.Context) {
	if err := a.dir.Close(ctx); err != nil {
		fmt.Fprintln(os.Stderr, style.Dim.Render("warning: closing directory: "+err.Error()))
	}
}

// identifiers classifies the command arguments under the global force flags.
func (a *app) identifiers(args []string) []identifier.Identifier {
	return identifier.ClassifyAll(args, a.hints)
}

// runBatch resolves every identifier through the directory and applies act
// concurrently, printing one localized line per item as it settles. It
// returns the settled outcomes; it never returns an error, because per-item
// failures are deliberately invisible to the exit code.
func runBatch[R any](ctx context.Context, a *app, args []string, act batch.ActFunc[R], successMsg string) []batch.Outcome[R] {
	return runBatchWith(ctx, a, a.identifiers(args), a.dir.UserIDByIdentifier, act, successMsg)
}

// runBatchWith is runBatch with a caller-supplied resolution step, for
// batches whose identifiers do not name existing records (fake creation).
func runBatchWith[R any](ctx context.Context, a *app, idents []identifier.Identifier, resolve batch.ResolveFunc, act batch.ActFunc[R], successMsg string) []batch.Outcome[R] {
	outcomes := batch.Run(ctx, idents, resolve, act, func(o batch.Outcome[R]) {
		printOutcomeLine(a.printer, o.Identifier.Raw, o.Status, o.Err, successMsg)
	})

	if failed := batch.CountFailed(outcomes); failed > 0 {
		fmt.Println(style.Dim.Render(a.printer.Sprintf(locale.MsgPartialFailure, failed, len(outcomes))))
	}
	return outcomes
}

// printOutcomeLine writes the per-item result line. An empty successMsg
// suppresses success lines, for commands whose real output follows the
// batch (get renders a table).
func printOutcomeLine(p *message.Printer, raw string, status batch.Status, err error, successMsg string) {
	switch status {
	case batch.StatusResolutionFailed:
		fmt.Printf("%s %s\n", style.ErrorPrefix, p.Sprintf(locale.MsgResolveFailed, raw, err))
	case batch.StatusActionFailed:
		fmt.Printf("%s %s\n", style.ErrorPrefix, p.Sprintf(locale.MsgActionFailed, raw, err))
	default:
		if successMsg != "" {
			fmt.Printf("%s %s\n", style.SuccessPrefix, p.Sprintf(successMsg, raw))
		}
	}
}
