package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/dirage/internal/agechart"
	"github.com/fenilsonani/dirage/internal/config"
	"github.com/fenilsonani/dirage/internal/report"
	"github.com/fenilsonani/dirage/internal/scanner"
	"github.com/fenilsonani/dirage/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	outputFmt  string
	outputFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dirage",
	Short: "Directory age analyser",
	Long: `dirage scans a directory subtree and summarises how old the data in it
is: every directory gets a box plot of file ages weighted by byte count.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a directory and write the age report",
	Long: `Scans the given directory, computes subtree and direct-files age charts
for every directory, and writes the recursive report to stdout or a file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		format := report.OutputFormat(cfg.ReportFormat)
		if cmd.Flags().Changed("format") {
			format = report.OutputFormat(outputFmt)
		}

		svc := scanner.NewService()
		scan := svc.Start(args[0])

		tree, err := scan.Wait()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		p := scan.Progress()
		log.Printf("scanned %d files in %d directories (%d skipped, %d errors)",
			p.NumFiles, p.NumDirs, p.NumSkipped, p.NumErrors)

		calc := agechart.NewCalculator(cfg.CalcWorkers)
		doc, err := report.NewBuilder(calc).Generate(tree).Wait()
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		if outputFile != "" {
			return report.Save(doc, outputFile, format)
		}
		return report.Write(os.Stdout, doc, format)
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Browse directory ages interactively",
	Long:  `Opens the interactive browser: scan a root, expand directories, search by name and export reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctrl := ui.NewController(cfg)
		defer ctrl.Shutdown()

		app := ui.NewApp(ctrl, cfg)
		program := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run UI: %w", err)
		}

		// Persist the last scanned root for the next session.
		if path, err := config.GetConfigPath(); err == nil {
			if err := config.Save(cfg, path); err != nil {
				log.Printf("failed to save config: %v", err)
			}
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or show the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureConfigExists()
		if err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Println(path)
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	scanCmd.Flags().StringVarP(&outputFmt, "format", "f", "json", "output format (json, yaml, summary)")
	scanCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write report to file instead of stdout")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(configCmd)
}
