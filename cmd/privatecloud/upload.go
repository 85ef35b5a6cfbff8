package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/privatecloudorg/libprivatecloud-go/aws"
	"github.com/privatecloudorg/libprivatecloud-go/manifest"
)

func uploadCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and record its retrieval metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if name == "" {
				name = filepath.Base(path)
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

			id, size, hash, err := p.UploadFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			store, err := manifest.Open(manifestPath)
			if err != nil {
				return err
			}
			defer store.Close()

			err = store.Put(name, manifest.Record{
				StorageID:  id,
				Size:       size,
				Hash:       hash,
				UploadedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s\n  id:   %s\n  size: %d\n  hash: %s\n",
				name, id, size, hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "manifest name (default: file base name)")
	return cmd
}
