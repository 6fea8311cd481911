// emit.go implements the "build-descriptor emit" command.
//
// The emit command resolves the descriptor and renders it in one of the
// emitter formats, either to stdout or to a file. It never runs Gradle
// itself. The args format prints one flag per line, so read it into an
// array rather than relying on word splitting:
//
//	mapfile -t args < <(build-descriptor emit --format args)
//	./gradlew assembleRelease "${args[@]}"
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/build-descriptor/internal/emitter"
	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// emitFlags holds the flag values for the emit command.
type emitFlags struct {
	format string // --format: output format
	output string // --output: destination file (default: stdout)
}

// NewEmitCommand creates the "emit" cobra command.
func NewEmitCommand(src *sourceFlags) *cobra.Command {
	flags := &emitFlags{}

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Render the build descriptor for the build tool",
		Long: `Resolve the build descriptor and render it for the external build tool.

Formats:
  args        one -Pname=value Gradle flag per line
  properties  gradle.properties-style file
  json        descriptor as JSON
  yaml        descriptor as YAML
  labels      flat android.* label map (JSON)

Examples:
  build-descriptor emit
  build-descriptor emit --format properties --output build/descriptor.properties
  build-descriptor emit --format labels -P versionCode=42`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := emitter.ParseFormat(flags.format)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "invalid --format", err)
			}

			d, _, err := resolveDescriptor(src)
			if err != nil {
				return err
			}

			data, err := emitter.Emit(d, format)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "failed to render descriptor", err)
			}

			if flags.output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			if err := writeOutput(flags.output, data); err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "failed to write output", err)
			}
			VerboseLog("Wrote %s descriptor to %s", format, flags.output)

			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"format": format.String(),
					"output": flags.output,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s descriptor to %s\n", format, flags.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", emitter.FormatArgs.String(),
		"Output format: args, properties, json, yaml, labels")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

// writeOutput writes data to outputPath, creating parent directories as
// needed.
func writeOutput(outputPath string, data []byte) error {
	// os.MkdirAll is a no-op if the directory already exists.
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}
