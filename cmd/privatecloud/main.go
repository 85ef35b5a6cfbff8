// Command privatecloud uploads files to and downloads files from an
// S3-backed store with end-to-end keyed integrity verification.
//
// Configuration comes from PRIVATECLOUD_* environment variables (a .env
// file in the working directory is honored). Upload metadata is recorded
// in a local manifest so downloads can be requested by name.
package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel     string
	manifestPath string
)

func main() {
	root := &cobra.Command{
		Use:   "privatecloud",
		Short: "Integrity-verified file transfer to cloud object storage",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	home, _ := os.UserHomeDir()
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&manifestPath, "manifest",
		filepath.Join(home, ".privatecloud", "manifest.db"), "path to the local upload manifest")

	root.AddCommand(keygenCmd(), uploadCmd(), downloadCmd(), listCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Fatal("fatal error")
	}
}
