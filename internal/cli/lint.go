package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/modaledit/vintage/pkg/session"
)

// recordSchema describes the shape of the allow-listed record fields. The
// plugin itself never validates on load (it drops what it does not know);
// lint exists so a developer can see what a record actually carries.
const recordSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"history": {"type": "object"},
		"ex_substitute_last_pattern": {"type": "string"},
		"ex_substitute_last_replacement": {"type": "string"},
		"last_used_register_name": {"type": "string"},
		"macros": {"type": "object"}
	}
}`

var lintCmd = &cobra.Command{
	Use:   "lint <record-file>",
	Short: "Validate a session record against the expected field shapes",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(bytes.TrimSpace(data)) == 0 {
		fmt.Fprintln(out, "empty record")
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(recordSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate record: %w", err)
	}

	if !result.Valid() {
		for _, desc := range result.Errors() {
			fmt.Fprintf(out, "invalid: %s\n", desc)
		}
		return fmt.Errorf("record failed validation")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err == nil {
		var unknown []string
		for name := range top {
			if !session.IsPersistentKey(name) {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			fmt.Fprintf(out, "unknown field (dropped on load): %s\n", name)
		}
	}

	fmt.Fprintln(out, "ok")
	return nil
}
