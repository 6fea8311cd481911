// resolve.go implements the "build-descriptor resolve" command.
//
// The resolve command loads all configuration layers, validates the merged
// descriptor and prints it. It is the check a build pipeline runs before
// invoking Gradle: a non-zero exit code means the build must halt, and
// every violation is listed together.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/build-descriptor/internal/emitter"
	"github.com/shinji-kodama/build-descriptor/internal/model"
	"github.com/shinji-kodama/build-descriptor/internal/resolver"
)

// NewResolveCommand creates the "resolve" cobra command.
func NewResolveCommand(src *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve and validate the build descriptor",
		Long: `Resolve the build descriptor from all configuration layers and print it.

All validation failures are reported together.

Examples:
  build-descriptor resolve
  build-descriptor resolve --properties android/local.properties -P versionCode=2
  build-descriptor resolve --overrides release.yaml --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			d, r, err := resolveDescriptor(src)
			if err != nil {
				return err
			}
			return printResolveResult(cmd.OutOrStdout(), d, r.Explain())
		},
	}
}

// resolveResultJSON is the JSON output structure of the resolve command.
type resolveResultJSON struct {
	Descriptor model.BuildDescriptor `json:"descriptor"`
	Sources    []resolver.Source     `json:"sources"`
}

// printResolveResult outputs the descriptor in text or JSON format.
//
// The text format is one aligned row per parameter with its origin:
//
//	applicationId            com.example.car_rental   properties
//	versionCode              2                        overrides
func printResolveResult(w io.Writer, d model.BuildDescriptor, sources []resolver.Source) error {
	if IsJSONOutput() {
		if sources == nil {
			sources = []resolver.Source{}
		}
		return writeJSON(w, resolveResultJSON{Descriptor: d, Sources: sources})
	}

	origin := make(map[string]string, len(sources))
	for _, s := range sources {
		origin[s.Field] = s.Layer
	}

	fmt.Fprintln(w, "Build descriptor resolved:")
	for _, p := range emitter.Params(d) {
		layer, ok := origin[p.Name]
		if !ok {
			// Namespace falls back to applicationId.
			layer = "derived"
		}
		fmt.Fprintf(w, "  %-24s %-32s %s\n", p.Name, p.Value, layer)
	}
	return nil
}
