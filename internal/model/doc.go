// Package model defines the domain types and value objects for the
// build-descriptor resolver.
//
// This package contains pure data structures with no external dependencies.
// The central entity is BuildDescriptor, an immutable record describing how
// an Android wrapper project is compiled and packaged. It is assembled once
// per resolution run and handed to the external build tool; nothing in this
// module persists it.
//
// The package also defines the error taxonomy (NotFoundError,
// ValidationError), exit codes (ExitCode) and a CLI error type (CLIError)
// that carries exit codes for proper OS process exit handling.
package model
