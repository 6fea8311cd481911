// Package cli implements the cobra-based CLI commands for build-descriptor.
//
// Each subcommand (resolve, emit, defaults) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/build-descriptor/internal/model"
	"github.com/shinji-kodama/build-descriptor/internal/properties"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output on stderr, including where
	// every resolved field came from.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// sourceFlags holds the persistent flags that select the configuration
// layers. Every command that resolves a descriptor shares one instance.
type sourceFlags struct {
	propertiesPath    string   // --properties: local properties file
	requireProperties bool     // --require-properties: fail if the file is missing
	overridesPath     string   // --overrides: YAML/JSONC/HCL override file
	set               []string // --set/-P: key=value overrides
	noEnv             bool     // --no-env: ignore BUILD_DESCRIPTOR_* variables
}

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It provides help
// text and the global flags; resolve, emit and defaults do the work.
func NewRootCommand() *cobra.Command {
	src := &sourceFlags{}

	rootCmd := &cobra.Command{
		Use:   "build-descriptor",
		Short: "Resolve Android build parameters from layered configuration",
		Long: `build-descriptor merges local.properties, built-in defaults and explicit
overrides into a single validated build descriptor, then renders it for
the Gradle invocation that compiles the Android wrapper.

Precedence, highest first:
  --set / -P key=value
  BUILD_DESCRIPTOR_* environment variables
  --overrides file (.yaml, .yml, .json, .jsonc, .hcl)
  local.properties
  defaults`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVar(&src.propertiesPath, "properties", properties.DefaultFileName, "Path to the local properties file")
	flags.BoolVar(&src.requireProperties, "require-properties", false, "Fail if the properties file does not exist")
	flags.StringVar(&src.overridesPath, "overrides", "", "Override file (.yaml, .yml, .json, .jsonc, .hcl)")
	flags.StringArrayVarP(&src.set, "set", "P", nil, "Override a field, e.g. -P versionCode=2 (repeatable)")
	flags.BoolVar(&src.noEnv, "no-env", false, "Ignore BUILD_DESCRIPTOR_* environment variables")

	rootCmd.AddCommand(NewResolveCommand(src))
	rootCmd.AddCommand(NewEmitCommand(src))
	rootCmd.AddCommand(NewDefaultsCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to
// exit code 1.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	printError(os.Stderr, err)

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		os.Exit(int(cliErr.Code))
	}
	os.Exit(int(model.ExitGeneralError))
}

// printError outputs an error in the appropriate format (JSON or text)
// based on the --json global flag. Validation failures list every
// violation so the operator can fix them in one pass.
func printError(w io.Writer, err error) {
	message := err.Error()
	var underlying error
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		underlying = cliErr.Err
	}

	var verr *model.ValidationError
	isValidation := errors.As(err, &verr)

	if jsonOutput {
		errObj := map[string]interface{}{
			"message": message,
		}
		if isValidation {
			errObj["violations"] = verr.Violations
		} else if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		// stdout is reserved for successful command output.
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	switch {
	case isValidation:
		fmt.Fprintf(w, "Error: %s:\n", message)
		for _, v := range verr.Violations {
			fmt.Fprintf(w, "  - %s\n", v.Message)
		}
	case underlying != nil:
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	default:
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to serialize output", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
