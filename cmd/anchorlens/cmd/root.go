package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/cobra"
	"github.com/zerodha/logf"

	"github.com/anchorlens/anchorlens/pkg/idl"
)

var (
	ko = koanf.New(".")
	lo logf.Logger
)

var rootCmd = &cobra.Command{
	Use:   "anchorlens",
	Short: "Inspect and search on-chain account records through their IDL",
	Long: `anchorlens resolves field byte offsets from an Anchor-style IDL
document and uses them to decode account fields and to search a program's
accounts by field value constraints.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		lo = initLogger(ko.Bool("debug"))
		return nil
	},
}

// Execute runs the root command tree. This is called by main.main().
func Execute(buildString string) {
	rootCmd.Version = buildString

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Path to a TOML config file to load.")
	f.String("rpc", "", "RPC endpoint URL of the ledger service.")
	f.String("idl", "", "Path to the IDL JSON file.")
	f.String("program", "", "Program ID owning the accounts.")
	f.Bool("debug", false, "Enable debug logging.")
}

// initConfig loads config to the `ko` object: config file first, then
// ANCHORLENS_* env vars, then flags, each layer overriding the previous.
func initConfig(cmd *cobra.Command) error {
	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		if err := ko.Load(file.Provider(cfgPath), toml.Parser()); err != nil {
			return fmt.Errorf("error loading config file: %w", err)
		}
	}

	err := ko.Load(env.Provider("ANCHORLENS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "ANCHORLENS_")), "__", ".", -1)
	}), nil)
	if err != nil {
		return fmt.Errorf("error loading env config: %w", err)
	}

	if err := ko.Load(posflag.Provider(cmd.Flags(), ".", ko), nil); err != nil {
		return fmt.Errorf("error loading flags: %w", err)
	}

	return nil
}

// initLogger initializes logger instance.
func initLogger(debug bool) logf.Logger {
	opts := logf.Opts{EnableCaller: true}
	if debug {
		opts.Level = logf.DebugLevel
		opts.EnableColor = true
	}
	return logf.New(opts)
}

// loadSchema reads and parses the IDL document configured via --idl.
func loadSchema() (*idl.IDL, error) {
	path := ko.String("idl")
	if path == "" {
		return nil, fmt.Errorf("no IDL file configured (use --idl)")
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading IDL file: %w", err)
	}

	schema, err := idl.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("error parsing IDL file: %w", err)
	}

	return schema, nil
}
