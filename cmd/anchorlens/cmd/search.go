package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anchorlens/anchorlens/pkg/rpc"
	"github.com/anchorlens/anchorlens/pkg/scanner"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a program's accounts by field value constraints",
	Long: `Search fetches all accounts of the named type, narrowed by any number
of field path / value constraint pairs. The first constraint is pushed to
the RPC server as an equality filter alongside the account discriminator;
the remaining constraints are applied locally.`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringP("name", "n", "", "Name of the account type to search.")
	f.StringArrayP("path", "p", nil, "Dotted field path of a constraint (repeatable).")
	f.StringArrayP("value", "k", nil, "Desired value for the matching --path (repeatable, order must match).")
	f.StringP("interest", "s", "", "Field path to analyze across the result set.")
	f.StringP("output", "o", "", "File to write the full result set to as JSON.")
	f.Int("limit", 5, "Maximum number of accounts to display on the console.")

	cobra.CheckErr(searchCmd.MarkFlagRequired("name"))
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	var (
		account, _  = cmd.Flags().GetString("name")
		paths, _    = cmd.Flags().GetStringArray("path")
		values, _   = cmd.Flags().GetStringArray("value")
		interest, _ = cmd.Flags().GetString("interest")
		output, _   = cmd.Flags().GetString("output")
		limit, _    = cmd.Flags().GetInt("limit")
		program     = ko.String("program")
	)

	if len(paths) != len(values) {
		return fmt.Errorf("the number of paths (%d) and values (%d) must match", len(paths), len(values))
	}
	if program == "" {
		return fmt.Errorf("no program ID configured (use --program)")
	}

	schema, err := loadSchema()
	if err != nil {
		return err
	}

	client, err := rpc.NewClient(ko.String("rpc"))
	if err != nil {
		return fmt.Errorf("error creating RPC client: %w", err)
	}

	var cfgs []scanner.Config
	if ko.Bool("debug") {
		cfgs = append(cfgs, scanner.WithDebug())
	}

	engine, err := scanner.New(schema, client, cfgs...)
	if err != nil {
		return fmt.Errorf("error creating search engine: %w", err)
	}

	constraints := make([]scanner.Constraint, 0, len(paths))
	for i, p := range paths {
		constraints = append(constraints, scanner.Constraint{Path: p, Value: values[i]})
	}

	lo.Info("searching accounts", "account", account, "constraints", len(constraints))
	accounts, err := engine.Search(cmd.Context(), program, account, constraints)
	if err != nil {
		return fmt.Errorf("error searching accounts: %w", err)
	}

	if err := handleResults(os.Stdout, accounts, output, limit); err != nil {
		return err
	}

	if interest != "" {
		buckets, err := engine.ValueHistogram(accounts, account, interest)
		if err != nil {
			return fmt.Errorf("error analyzing %q: %w", interest, err)
		}
		printHistogram(os.Stdout, interest, buckets)
	}

	return nil
}
