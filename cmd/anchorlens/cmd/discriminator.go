package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorlens/anchorlens/pkg/idl"
)

var discriminatorCmd = &cobra.Command{
	Use:   "discriminator <account>",
	Short: "Print the 8-byte discriminator of an account type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		discrim := idl.AccountDiscriminator(args[0])

		fmt.Printf("Account: %s\n", args[0])
		fmt.Printf("Hex:     %s\n", hex.EncodeToString(discrim[:]))
		fmt.Printf("Base64:  %s\n", base64.StdEncoding.EncodeToString(discrim[:]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discriminatorCmd)
}
