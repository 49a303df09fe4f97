package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sjsage522/deliveryscraper/config"
)

type flagValues struct {
	outputDir  string
	workers    int
	retries    int
	intervalMs int
	bypass     bool
}

// overrides returns the flags the user set explicitly
func (f *flagValues) overrides(fs *pflag.FlagSet) config.Overrides {
	var o config.Overrides
	if fs.Changed("out") {
		o.OutputDir = &f.outputDir
	}
	if fs.Changed("workers") {
		o.Workers = &f.workers
	}
	if fs.Changed("retries") {
		o.MaxRetries = &f.retries
	}
	if fs.Changed("interval") {
		interval := time.Duration(f.intervalMs) * time.Millisecond
		o.RequestInterval = &interval
	}
	if fs.Changed("cloudflare-bypass") {
		o.CloudflareBypass = &f.bypass
	}
	return o
}

// NewRootCommand builds the CLI around cfg. Flags override the environment.
func NewRootCommand(cfg *config.Config, in io.Reader, out io.Writer) *cobra.Command {
	var flags flagValues

	rootCmd := &cobra.Command{
		Use:           "deliveryscraper",
		Short:         "deliveryscraper collects the restaurants delivering to every postal code of a city.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.ApplyOverrides(flags.overrides(cmd.Flags()))
			return cfg.Validate()
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.outputDir, "out", "o", "", "output directory (OUTPUT_DIR)")
	pf.IntVarP(&flags.workers, "workers", "w", 0, "concurrent postal code fetches (WORKERS)")
	pf.IntVar(&flags.retries, "retries", 0, "attempts per postal code on network errors (MAX_RETRIES)")
	pf.IntVar(&flags.intervalMs, "interval", 0, "minimum milliseconds between request starts (REQUEST_INTERVAL_MS)")
	pf.BoolVar(&flags.bypass, "cloudflare-bypass", false, "use the Cloudflare bypass transport (CLOUDFLARE_BYPASS)")

	rootCmd.AddCommand(newScrapeCommand(cfg))
	rootCmd.AddCommand(newPostalCommand(cfg))

	return rootCmd
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context, cfg *config.Config) int {
	rootCmd := NewRootCommand(cfg, os.Stdin, os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
