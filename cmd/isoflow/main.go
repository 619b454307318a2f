// Command isoflow aligns the isoforms of UniProt entries from the command
// line.
//
// Usage:
//
//	isoflow [command] [flags]
//
// Commands:
//
//	isoforms    List the isoforms of an accession
//	align       Align the isoforms of an accession or of a local file
//	svg         Draw the alignment as SVG
//	fasta       Write the gapped alignment as FASTA
//	stats       Summarize the alignment
//	best        Rank candidate accessions
//	version     Show version information
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aria-lang/isoflow-go/internal/config"
	"github.com/aria-lang/isoflow-go/internal/log"
	"github.com/aria-lang/isoflow-go/pkg/isoflow"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	envFile string
	dataDir string
	format  string
	output  string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "isoflow",
		Short: "UniProt isoform alignment",
		Long: `isoflow downloads UniProt entries, replays the alternative-sequence edits of
every isoform against every other isoform and reports the gapped alignment.

Configuration is read from the environment and an optional .env file;
see "isoflow-server --help" for the variables.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory for cached UniProt documents (default: data)")
	flags.StringVar(&opts.format, "format", formatText, "Output format: text, json, yaml")
	flags.StringVarP(&opts.output, "output", "o", "", "Write output to a file instead of stdout")

	cmd.AddCommand(isoformsCmd(opts))
	cmd.AddCommand(alignCmd(opts))
	cmd.AddCommand(svgCmd(opts))
	cmd.AddCommand(fastaCmd(opts))
	cmd.AddCommand(statsCmd(opts))
	cmd.AddCommand(bestCmd(opts))
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// service builds an isoflow service from configuration and flag overrides.
func (o *options) service(ctx context.Context) (*isoflow.Service, error) {
	cfg, err := loadConfig(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg = cfg.WithDataDir(o.dataDir)
	}

	svc, err := isoflow.New(ctx, cfg, log.NewLogger(cfg))
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

// writer opens the --output file, or returns the command's stdout.
func (o *options) writer(cmd *cobra.Command) (io.Writer, func() error, error) {
	if o.output == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(o.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

// emit writes v in the selected format. text is rendered by the callback.
func (o *options) emit(cmd *cobra.Command, v any, text func(io.Writer) error) (err error) {
	w, closeFn, err := o.writer(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); err == nil {
			err = cerr
		}
	}()

	switch o.format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		return text(w)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", o.format)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "isoflow version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
			fmt.Fprintln(out)
			fmt.Fprint(out, isoflow.Info())
		},
	}
}
