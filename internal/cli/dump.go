package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modaledit/vintage/pkg/session"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <record-file>",
	Short: "Decode a session record and print it as indented JSON",
	Long: `Decode a session record and print it as indented JSON. The output
reflects what the plugin would see after decoding: digit-only keys in nested
mappings are promoted to integers and re-rendered as decimal strings.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	record, err := session.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if record == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "{}")
		return nil
	}

	out, err := json.MarshalIndent(session.NormalizeRecord(record), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render record: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
