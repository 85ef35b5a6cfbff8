package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/privatecloudorg/libprivatecloud-go/aws"
	"github.com/privatecloudorg/libprivatecloud-go/keys"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new master key and print its hex encoding",
		Long: "Generate a new master key and print its hex encoding once.\n" +
			"Store it as " + aws.EnvMasterKey + "; it cannot be recovered later.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mk, err := keys.GenerateMasterKey()
			if err != nil {
				return err
			}
			defer mk.Destroy()

			hexKey, err := mk.Hex()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexKey)
			return nil
		},
	}
}
