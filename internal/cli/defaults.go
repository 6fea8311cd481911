package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/build-descriptor/internal/defaults"
)

// NewDefaultsCommand creates the "defaults" cobra command, which prints
// the built-in fallback values.
func NewDefaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Show the built-in default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := defaults.Values()
			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), values)
			}

			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, values[k])
			}
			return nil
		},
	}
}
