package main

import (
	"fmt"
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/2x3systems/topomap/pytopo"
	_ "github.com/go-python/gpython/stdlib"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "start a gpython REPL with the topomap module",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPython(gConfig, "")
	},
}

var runCmd = &cobra.Command{
	Use:   "run <script.py>",
	Short: "run a gpython script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPython(gConfig, args[0])
	},
}

// prelude hands the configured catalog to scripts as topomap.CATALOG_PATH / CATALOG_FLAGS.
func prelude(cfg *Config) string {
	flags := 0
	if cfg.Catalog.ReadOnly {
		flags |= pytopo.READ_ONLY
	}
	return fmt.Sprintf("import topomap\ntopomap.CATALOG_PATH = %q\ntopomap.CATALOG_FLAGS = %d\n", cfg.Catalog.Path, flags)
}

func runPython(cfg *Config, pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())

	var (
		err error
	)
	if len(pathname) == 0 {
		replCtx := repl.New(ctx)

		_, err = py.RunSrc(ctx, prelude(cfg), "<prelude>", replCtx.Module)
		if err == nil && len(cfg.Repl.Startup) > 0 {
			_, err = py.RunFile(ctx, cfg.Repl.Startup, py.CompileOpts{}, replCtx.Module)
		}
		if err == nil {
			cli.RunREPL(replCtx)
		}

	} else {
		err = runScript(ctx, cfg, pathname)
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
	}
	return err
}

func runScript(ctx py.Context, cfg *Config, pathname string) error {
	startTime := time.Now()
	klog.V(1).Infof("executing '%s'", pathname)

	_, err := py.RunSrc(ctx, prelude(cfg), "<prelude>", nil)
	if err == nil {
		_, err = py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
	}
	if err == nil {
		klog.V(1).Infof("execution complete: %v", time.Since(startTime))
	}
	return err
}
