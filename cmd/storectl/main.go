package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/db"
	"store-monitor-backend/internal/export"
	"store-monitor-backend/internal/loader"
	"store-monitor-backend/internal/report"
	"store-monitor-backend/internal/store"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg holds the loaded configuration.
var cfg *config.Config

var configPath string

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Load store data and compute uptime reports from the command line",
	Long: `storectl works against the same database as storemond.

It can load the source CSV files and compute a report synchronously,
without going through the HTTP trigger and poll cycle.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read .env: %w", err)
		}
		if configPath == "" {
			configPath = os.Getenv("CONFIG_PATH")
		}
		if configPath == "" {
			configPath = "./config/config.yaml"
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the source CSV files into the database",
	Long: `Load store_status.csv, business_hours.csv and timezone.csv from a directory.

Each file that is present replaces its table. Missing files leave
their table as it was.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Loader.DataDir
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		sum, err := loader.NewService(&cfg.Loader, s).LoadDir(rootCtx, dir)
		if sum != nil {
			printSummary(cmd, sum)
		}
		return err
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute a report and write it to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		printRows, _ := cmd.Flags().GetBool("print")

		format = strings.ToLower(format)
		if format != "csv" && format != "parquet" {
			return fmt.Errorf("unsupported format %q: use csv or parquet", format)
		}
		if out == "" {
			out = filepath.Join(cfg.Report.OutputDir, uuid.NewString()+"."+format)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		rep, err := report.NewService(&cfg.Report, s).Build(rootCtx)
		if err != nil {
			return err
		}

		switch format {
		case "parquet":
			err = export.WriteParquetFile(out, rep.Rows)
		default:
			err = export.WriteCSVFile(out, rep.Rows)
		}
		if err != nil {
			return err
		}
		if printRows {
			if err := export.RenderTable(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
		}
		for _, err := range rep.Skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $CONFIG_PATH or ./config/config.yaml)")

	loadCmd.Flags().String("dir", "", "Directory holding the source CSV files (default loader.data_dir)")

	reportCmd.Flags().String("out", "", "Output file (default <report.output_dir>/<uuid>.<format>)")
	reportCmd.Flags().String("format", "csv", "Output format: csv or parquet")
	reportCmd.Flags().Bool("print", false, "Also print the rows as a table")

	rootCmd.AddCommand(loadCmd, reportCmd)
}

func openStore() (store.Store, error) {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(gormDB, cfg.Loader.BatchSize), nil
}

func printSummary(cmd *cobra.Command, sum *loader.Summary) {
	w := cmd.OutOrStdout()
	for _, f := range []struct {
		name string
		res  *loader.Result
	}{
		{loader.TimezoneFile, sum.Timezones},
		{loader.BusinessHoursFile, sum.Hours},
		{loader.StatusFile, sum.Statuses},
	} {
		if f.res == nil {
			fmt.Fprintf(w, "%-20s not found, kept existing rows\n", f.name)
			continue
		}
		fmt.Fprintf(w, "%-20s %d loaded, %d skipped\n", f.name, f.res.Success, f.res.Failed)
		for _, e := range f.res.Errors {
			fmt.Fprintf(w, "  %v\n", e)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
