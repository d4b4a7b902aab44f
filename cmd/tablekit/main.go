package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tablekit/tablekit/pkg/config"
	"github.com/tablekit/tablekit/pkg/csv"
	"github.com/tablekit/tablekit/pkg/jsonio"
	"github.com/tablekit/tablekit/pkg/logger"
	"github.com/tablekit/tablekit/pkg/table"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "tablekit",
		Short: "tablekit - typed tabular data toolkit",
		Long: `tablekit represents heterogeneous tabular data with typed columns and
moves it through delimited-text and JSON-lines formats. Columns are
type-homogeneous, tables are immutable once built, and text columns can
carry categorical codes instead of repeated strings.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tablekit v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newSchemaCmd())
	root.AddCommand(newHeadCmd())
	root.AddCommand(newConvertCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are the import options shared by every subcommand.
type commonFlags struct {
	configFile   string
	delimiter    string
	noHeader     bool
	plainStrings bool
	logLevel     string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to YAML or JSON configuration file (optional)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", "Field delimiter for the input file")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "Input has no header line (requires declared columns in the config file)")
	cmd.Flags().BoolVar(&f.plainStrings, "plain-strings", false, "Keep text columns as plain strings instead of categorical codes")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
}

// loadConfig builds the effective configuration: file first, then flags.
func (f *commonFlags) loadConfig(name string) (*config.Config, error) {
	cfg := config.NewConfig(name)
	if f.configFile != "" {
		if err := config.Load(f.configFile, cfg); err != nil {
			return nil, err
		}
	}
	if f.delimiter != "," {
		cfg.CSV.Delimiter = f.delimiter
	}
	if f.noHeader {
		cfg.CSV.HasHeader = false
	}
	if f.plainStrings {
		cfg.CSV.PlainStrings = true
	}
	cfg.Logging.Level = f.logLevel

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.Logging.Development,
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func tableName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func newSchemaCmd() *cobra.Command {
	var flags commonFlags
	var input string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the declared or inferred schema of a delimited file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(tableName(input))
			if err != nil {
				return err
			}

			_, sch, err := csv.NewReader(cfg, logger.Get()).ReadFile(input)
			if err != nil {
				return err
			}

			fmt.Printf("schema %s\n", sch.Name)
			for _, field := range sch.Fields {
				nullable := ""
				if field.Nullable {
					nullable = " (nullable)"
				}
				fmt.Printf("  %-20s %s%s\n", field.Name, field.TypeName, nullable)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to the input file (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newHeadCmd() *cobra.Command {
	var flags commonFlags
	var input string
	var count int

	cmd := &cobra.Command{
		Use:   "head",
		Short: "Print the first rows of a delimited file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(tableName(input))
			if err != nil {
				return err
			}

			tbl, _, err := csv.NewReader(cfg, logger.Get()).ReadFile(input)
			if err != nil {
				return err
			}

			if count > tbl.NumRows() {
				count = tbl.NumRows()
			}
			for i := 0; i < count; i++ {
				row, err := tbl.Row(i)
				if err != nil {
					return err
				}
				for c, name := range row.Names() {
					if c > 0 {
						fmt.Print("  ")
					}
					fmt.Printf("%s=%v", name, row.At(c))
				}
				fmt.Println()
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to the input file (required)")
	cmd.Flags().IntVarP(&count, "rows", "n", 10, "Number of rows to print")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var flags commonFlags
	var input, output, outDelimiter string
	var writeIndex bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Import a delimited file and re-export it",
		Long: `Import a delimited file and export it to a new file. The output format
follows the extension: .jsonl/.ndjson writes JSON lines, anything else
writes delimited text. Compression is chosen by extension (.gz, .zst,
.lz4) on both ends.

Example:
  tablekit convert -i deck.csv -o deck.tsv.gz --out-delimiter "\t" --write-index`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(tableName(input))
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), logger.TableKey, cfg.Name)
			ctx = context.WithValue(ctx, logger.PathKey, input)
			ctx = context.WithValue(ctx, logger.FormatKey, outputFormat(output))
			log := logger.WithContext(ctx).With(zap.String("output", output))

			start := time.Now()
			tbl, _, err := csv.NewReader(cfg, log).ReadFile(input)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			outCfg := *cfg
			outCfg.CSV.WriteIndex = writeIndex
			if outDelimiter != "" {
				outCfg.CSV.Delimiter = outDelimiter
			}

			if err := exportTable(&outCfg, log, output, tbl); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			log.Info("conversion completed",
				zap.Duration("duration", time.Since(start)),
				zap.Int("rows", tbl.NumRows()),
				zap.Int("columns", tbl.NumCols()))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to the input file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to the output file (required)")
	cmd.Flags().StringVar(&outDelimiter, "out-delimiter", "", "Field delimiter for the output file (defaults to the input delimiter)")
	cmd.Flags().BoolVar(&writeIndex, "write-index", false, "Emit the row index as a leading column")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// outputFormat names the codec implied by the file extension, looking
// past a trailing compression extension.
func outputFormat(path string) string {
	ext := filepath.Ext(path)
	if ext == ".gz" || ext == ".gzip" || ext == ".zst" || ext == ".zstd" || ext == ".lz4" {
		ext = filepath.Ext(path[:len(path)-len(ext)])
	}

	switch ext {
	case ".jsonl", ".ndjson", ".json":
		return "json"
	default:
		return "csv"
	}
}

func exportTable(cfg *config.Config, log *zap.Logger, path string, tbl *table.Table) error {
	if outputFormat(path) == "json" {
		return jsonio.NewWriter(cfg, log).WriteFile(path, tbl)
	}
	return csv.NewWriter(cfg, log).WriteFile(path, tbl)
}
