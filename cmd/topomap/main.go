package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

const kDefaultConfig = "topomap.yaml"

var (
	gConfigPath string
	gConfig     *Config
)

var rootCmd = &cobra.Command{
	Use:           "topomap",
	Short:         "build, script and check combinatorial maps",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(gConfigPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		gConfig = cfg
		initLogging(cfg.Log)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&gConfigPath, "config", kDefaultConfig, "YAML config file")
	flags.String("catalog", "", "catalog directory (in memory if empty)")
	flags.Bool("read-only", false, "open the catalog read-only")
	flags.IntP("verbosity", "v", 0, "klog verbosity")
	flags.Bool("color", true, "colorize log output")

	rootCmd.AddCommand(replCmd, runCmd, checkCmd, demoCmd)
}

// applyFlags copies every flag set on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog.Path, _ = flags.GetString("catalog")
	}
	if flags.Changed("read-only") {
		cfg.Catalog.ReadOnly, _ = flags.GetBool("read-only")
	}
	if flags.Changed("verbosity") {
		cfg.Log.Verbosity, _ = flags.GetInt("verbosity")
	}
	if flags.Changed("color") {
		cfg.Log.Color, _ = flags.GetBool("color")
	}
}

func initLogging(cfg LogConfig) {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", strconv.Itoa(cfg.Verbosity))
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          cfg.Color,
	})
}

func main() {
	err := rootCmd.Execute()
	klog.Flush()

	if err != nil {
		fmt.Fprintln(os.Stderr, "topomap:", err)
		os.Exit(1)
	}
}
