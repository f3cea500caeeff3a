package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/kontocsv/pkg/config"
	"github.com/yurifrl/kontocsv/pkg/coverage"
	"github.com/yurifrl/kontocsv/pkg/document"
	"github.com/yurifrl/kontocsv/pkg/parser"
	"github.com/yurifrl/kontocsv/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "kontocsv [flags] <path>",
	Short:         "Convert German bank statement PDFs to CSV",
	Long:          "Extract the transactions of a bank statement PDF, or of every PDF in a directory, into one CSV file per document.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		table, err := cfg.Table()
		if err != nil {
			return err
		}
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return err
		}

		p := parser.New(logger, parser.WithTable(table), parser.WithLocale(cfg.Locale))
		src := document.NewPDF(document.Mode(cfg.PDFMode), logger)
		processor := service.NewProcessor(cfg, logger, src, p)
		processor.SetFilter(filter)

		inputPath := args[0]
		logger.Info("input path", "path", inputPath)

		cov, err := processor.Process(inputPath)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInputPath) {
				return fmt.Errorf("%w: the path must be a statement PDF or a directory of statements", err)
			}
			return err
		}

		if cfg.Report {
			coverage.Build(cov, table).Print(os.Stdout)
		}

		if info, err := os.Stat(inputPath); err == nil && info.IsDir() {
			fmt.Println("folder converted successfully")
		} else {
			fmt.Println("file converted successfully")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		pp.Println(cfg)
		return nil
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the keyword table in priority order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		table, err := cfg.Table()
		if err != nil {
			return err
		}
		for i, label := range table.Labels() {
			fmt.Printf("%2d. %s\n", i+1, label)
		}
		return nil
	},
}

func newLogger(cfg *config.Config) *log.Logger {
	level := cfg.Level()
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "kontocsv",
		Level:           level,
	})
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every skipped line and page")
	config.RegisterFlags(rootCmd.PersistentFlags())

	// Filter flags
	rootCmd.Flags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&cliFilters.category, "category", "", "Only keep rows of this category")
	rootCmd.Flags().StringVar(&cliFilters.purpose, "purpose", "", "Filter by purpose text (case insensitive)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
