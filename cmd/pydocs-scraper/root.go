package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
	"github.com/Sriram-PR/pydocs-scraper/pkg/extract"
	pkglog "github.com/Sriram-PR/pydocs-scraper/pkg/log"
	"github.com/Sriram-PR/pydocs-scraper/pkg/output"
	"github.com/Sriram-PR/pydocs-scraper/pkg/runner"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const defaultConfigFile = "pydocs.yaml"

type rootOptions struct {
	clearCache bool
	output     string
	configPath string
	logLevel   string
	workers    int
	dumpCache  string
}

// NewRootCmd creates the root command. The positional argument selects the mode.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pydocs-scraper <mode>",
		Short: "Scraper for the Python documentation and the PEP index",
		Long: `pydocs-scraper collects facts from docs.python.org and peps.python.org.

Modes:
  whats-new        Links, titles and authors of every "What's New" article
  latest-versions  Documentation links, versions and statuses from the sidebar
  download         Save the A4 PDF documentation archive
  pep              Count PEPs by status and log index/page status mismatches

Responses are cached between runs; use --clear-cache to refetch.`,
		Version:       config.Version,
		ValidArgs:     extract.ModeNames(),
		Args:          opts.validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.execute(cmd, args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", utils.ErrUsage, err)
	})

	flags := cmd.Flags()
	flags.BoolVarP(&opts.clearCache, "clear-cache", "c", false, "Clear the HTTP response cache before running")
	flags.StringVarP(&opts.output, "output", "o", "", "Output format: "+strings.Join(output.FormatNames(), " or ")+" (default: plain rows on stdout)")
	flags.StringVar(&opts.configPath, "config", defaultConfigFile, "Path to YAML config file")
	flags.StringVar(&opts.logLevel, "loglevel", "", "Log level override (trace, debug, info, warn, error)")
	flags.IntVar(&opts.workers, "workers", 0, "Detail pages fetched concurrently (overrides num_workers)")
	flags.StringVar(&opts.dumpCache, "dump-cache", "", "After the run, write the list of cached URLs to this file")

	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// validateArgs rejects bad invocations before any config, log or network work
func (o *rootOptions) validateArgs(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one mode (%s), got %d arguments",
			utils.ErrUsage, strings.Join(extract.ModeNames(), ", "), len(args))
	}
	if _, err := extract.ParseMode(args[0]); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrUsage, err)
	}
	if _, err := output.ParseFormat(o.output); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrUsage, err)
	}
	if o.workers < 0 {
		return fmt.Errorf("%w: --workers cannot be negative", utils.ErrUsage)
	}
	return nil
}

func (o *rootOptions) execute(cmd *cobra.Command, modeName string) error {
	mode, _ := extract.ParseMode(modeName)
	format, _ := output.ParseFormat(o.output)

	// The default config file is optional; an explicit one must exist
	appCfg, err := config.Load(o.configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		appCfg.LogLevel = o.logLevel
	}
	if o.workers > 0 {
		appCfg.NumWorkers = o.workers
	}
	warnings, err := appCfg.Validate()
	if err != nil {
		return err
	}

	log, logCloser, err := pkglog.Setup(appCfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logCloser.Close()
	for _, w := range warnings {
		log.Warnf("Config: %s", w)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			log.Warnf("Received signal: %v. Cancelling run...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	r, err := runner.New(appCfg, log, cmd.OutOrStdout())
	if err != nil {
		log.Errorf("Failed to initialize: %v", err)
		return err
	}
	defer r.Close()

	return r.Run(ctx, runner.Options{
		Mode:          mode,
		Format:        format,
		ClearCache:    o.clearCache,
		DumpCachePath: o.dumpCache,
	})
}
