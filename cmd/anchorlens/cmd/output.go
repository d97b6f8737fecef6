package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/anchorlens/anchorlens/pkg/rpc"
	"github.com/anchorlens/anchorlens/pkg/scanner"
)

// exportedAccount is the JSON shape written to the --output file.
type exportedAccount struct {
	Pubkey     string `json:"pubkey"`
	Data       string `json:"data"`
	DataLength int    `json:"data_length"`
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rent_epoch"`
}

type exportedResults struct {
	Count    int               `json:"count"`
	Accounts []exportedAccount `json:"accounts"`
}

// handleResults prints up to limit accounts on the console and, when the
// result set is larger and an output path is given, exports the full set.
// A negative limit is treated as zero.
func handleResults(w io.Writer, accounts []rpc.KeyedAccount, output string, limit int) error {
	if limit < 0 {
		limit = 0
	}

	if len(accounts) == 0 {
		fmt.Fprintln(w, "No accounts found matching the criteria.")
		return nil
	}

	displayAccounts(w, accounts, limit)

	if len(accounts) > limit {
		fmt.Fprintf(w, "\nShowing %d of %d accounts found.\n", limit, len(accounts))
	}

	if output != "" {
		if err := saveAccountsToFile(accounts, output); err != nil {
			return fmt.Errorf("error writing results: %w", err)
		}
		fmt.Fprintf(w, "Full results written to %s\n", output)
	} else if len(accounts) > limit {
		fmt.Fprintln(w, "To see all accounts, use --output to save results to a file.")
	}

	return nil
}

func displayAccounts(w io.Writer, accounts []rpc.KeyedAccount, limit int) {
	fmt.Fprintf(w, "Found %d accounts:\n", len(accounts))

	if limit < 0 {
		limit = 0
	}
	if limit > len(accounts) {
		limit = len(accounts)
	}
	for i, acc := range accounts[:limit] {
		fmt.Fprintf(w, "%d. Pubkey: %s\n", i+1, acc.Pubkey)
		fmt.Fprintf(w, "   Data Length: %d bytes\n", len(acc.Account.Data))
		fmt.Fprintf(w, "   Lamports: %d\n", acc.Account.Lamports)
	}
}

func saveAccountsToFile(accounts []rpc.KeyedAccount, path string) error {
	results := exportedResults{
		Count:    len(accounts),
		Accounts: make([]exportedAccount, 0, len(accounts)),
	}

	for _, acc := range accounts {
		results.Accounts = append(results.Accounts, exportedAccount{
			Pubkey:     acc.Pubkey,
			Data:       base64.StdEncoding.EncodeToString(acc.Account.Data),
			DataLength: len(acc.Account.Data),
			Lamports:   acc.Account.Lamports,
			Owner:      acc.Account.Owner,
			Executable: acc.Account.Executable,
			RentEpoch:  acc.Account.RentEpoch,
		})
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0644)
}

func printHistogram(w io.Writer, path string, buckets []scanner.ValueCount) {
	const top = 5

	shown := top
	if len(buckets) < shown {
		shown = len(buckets)
	}

	fmt.Fprintf(w, "Top %d most common values for %q:\n", shown, path)
	for _, b := range buckets[:shown] {
		fmt.Fprintf(w, "Value: %s, Count: %d\n", b.Value, b.Count)
	}
}
