package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var offsetCmd = &cobra.Command{
	Use:   "offset <account> <field-path>",
	Short: "Resolve the byte offset of a field within an account layout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema()
		if err != nil {
			return err
		}

		res, err := schema.ResolveField(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Account: %s\n", args[0])
		fmt.Printf("Path:    %s\n", args[1])
		fmt.Printf("Offset:  %d\n", res.Offset)
		fmt.Printf("Type:    %s\n", res.Type)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(offsetCmd)
}
