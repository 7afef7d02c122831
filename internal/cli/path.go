package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modaledit/vintage/internal/config"
	"github.com/modaledit/vintage/pkg/session"
)

var packagesPath string

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the resolved session record path",
	RunE:  runPath,
}

func init() {
	pathCmd.Flags().StringVar(&packagesPath, "packages", "", "host packages directory")
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}

	if cfg.SessionFile != "" {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.SessionFile)
		return nil
	}

	if packagesPath == "" {
		return fmt.Errorf("--packages is required when no session_file override is configured")
	}

	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(filepath.Dir(packagesPath), "Local", session.RecordFileName))
	return nil
}
