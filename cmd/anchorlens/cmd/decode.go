package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorlens/anchorlens/pkg/codec"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <account> <field-path> <base64-data>",
	Short: "Decode a field value out of raw account data",
	Long: `Decode resolves the byte offset of a field within the account layout
and decodes its value from the given base64-encoded record bytes.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema()
		if err != nil {
			return err
		}

		data, err := base64.StdEncoding.DecodeString(args[2])
		if err != nil {
			return fmt.Errorf("error decoding account data: %w", err)
		}

		res, err := schema.ResolveField(args[0], args[1])
		if err != nil {
			return err
		}

		value, err := codec.Decode(data, res.Offset, res.Type)
		if err != nil {
			return err
		}

		fmt.Printf("%s = %s (%s at offset %d)\n", args[1], value, res.Type, res.Offset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
