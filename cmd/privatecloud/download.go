package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/privatecloudorg/libprivatecloud-go/aws"
	"github.com/privatecloudorg/libprivatecloud-go/manifest"
)

func downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <name> <destination>",
		Short: "Download a previously uploaded file and verify it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, dest := args[0], args[1]

			store, err := manifest.Open(manifestPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(name)
			if err != nil {
				return err
			}

			blob, err := aws.BuildConfig()
			if err != nil {
				return err
			}
			p, err := aws.LoadFromConfig(cmd.Context(), blob)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.DownloadFile(cmd.Context(), rec.StorageID, rec.Hash, rec.Size, dest); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s to %s (%d bytes, verified)\n",
				name, dest, rec.Size)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List files recorded in the local manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := manifest.Open(manifestPath)
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.List()
			if err != nil {
				return err
			}
			for _, n := range names {
				rec, err := store.Get(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n",
					n, rec.Size, rec.StorageID, rec.UploadedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
