package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/2x3systems/topomap/libtopo/catalog"
	"github.com/2x3systems/topomap/libtopo/maps"
	"github.com/2x3systems/topomap/topo"
)

var checkCmd = &cobra.Command{
	Use:   "check [catalog-dir]",
	Short: "load every map of a catalog and run its integrity check",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := gConfig.Catalog.Path
		if len(args) > 0 {
			path = args[0]
		}
		prefix, _ := cmd.Flags().GetString("prefix")
		return checkCatalog(cmd.OutOrStdout(), path, prefix)
	},
}

func init() {
	checkCmd.Flags().String("prefix", "", "only check maps whose name starts with this")
}

func checkCatalog(out io.Writer, path, prefix string) error {
	ctx := topo.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	cat, err := catalog.OpenCatalog(ctx, topo.CatalogOpts{
		DbPathName: path,
		ReadOnly:   true,
	})
	if err != nil {
		return err
	}
	defer cat.Close()

	onHit := make(chan topo.MapHit)
	selErr := make(chan error, 1)
	go func() {
		selErr <- cat.Select(prefix, onHit)
		close(onHit)
	}()

	checked, failed := 0, 0
	for hit := range onHit {
		checked++
		m, err := maps.FromState(hit.State)
		if err == nil {
			err = m.CheckIntegrity()
		}
		if err != nil {
			failed++
			klog.Warningf("map %q: %v", hit.Name, err)
			fmt.Fprintf(out, "FAIL  %-32s %v\n", hit.Name, err)
			continue
		}
		fmt.Fprintf(out, "ok    %-32s %v\n", hit.Name, m)
	}
	if err := <-selErr; err != nil {
		return err
	}

	fmt.Fprintf(out, "%d maps checked, %d failed\n", checked, failed)
	if failed > 0 {
		return errors.Wrapf(topo.ErrIntegrity, "%d of %d maps", failed, checked)
	}
	return nil
}
