// Package model defines the domain types for the build-descriptor resolver.
//
// All entities in this package are transient: a BuildDescriptor is built
// from merged configuration layers, rendered for the external build tool,
// and then discarded.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names are the canonical keys used in every configuration layer
// (properties file, defaults, overrides) and in the emitted parameter
// surface. Aliases such as "flutter.versionCode" are mapped onto these
// names by the resolver.
const (
	FieldApplicationID          = "applicationId"
	FieldNamespace              = "namespace"
	FieldMinSdk                 = "minSdk"
	FieldTargetSdk              = "targetSdk"
	FieldCompileSdk             = "compileSdk"
	FieldVersionCode            = "versionCode"
	FieldVersionName            = "versionName"
	FieldJavaCompatibilityLevel = "javaCompatibilityLevel"
	FieldMinifyEnabled          = "minifyEnabled"
	FieldFlutterSDK             = "flutterSdk"
	FieldProjectName            = "projectName"
)

// Fields lists every descriptor field in emission order.
var Fields = []string{
	FieldApplicationID,
	FieldNamespace,
	FieldMinSdk,
	FieldTargetSdk,
	FieldCompileSdk,
	FieldVersionCode,
	FieldVersionName,
	FieldJavaCompatibilityLevel,
	FieldMinifyEnabled,
	FieldFlutterSDK,
	FieldProjectName,
}

// IsField reports whether name is one of the canonical field names.
func IsField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// MaxVersionCode is the largest versionCode the Play store accepts.
const MaxVersionCode = 2100000000

// JavaVersion is the Java source/target compatibility level handed to the
// compiler. The Gradle build sets sourceCompatibility, targetCompatibility
// and the Kotlin jvmTarget to the same level.
type JavaVersion string

const (
	// Java8 is written "1.8" by both javac and Gradle's JavaVersion.
	Java8  JavaVersion = "1.8"
	Java11 JavaVersion = "11"
	Java17 JavaVersion = "17"
	Java21 JavaVersion = "21"
)

// String returns the string representation of JavaVersion.
func (v JavaVersion) String() string {
	return string(v)
}

// IsValid checks whether the JavaVersion value is one of the supported levels.
func (v JavaVersion) IsValid() bool {
	switch v {
	case Java8, Java11, Java17, Java21:
		return true
	default:
		return false
	}
}

// GradleConstant returns the JavaVersion enum constant name used in Gradle
// scripts, e.g. "VERSION_17" or "VERSION_1_8".
func (v JavaVersion) GradleConstant() string {
	return "VERSION_" + strings.ReplaceAll(string(v), ".", "_")
}

// ParseJavaVersion converts a compatibility level to a JavaVersion.
// It accepts the forms found in build scripts: "17", "1.8", "8",
// "VERSION_17", "VERSION_1_8" and "JavaVersion.VERSION_17".
func ParseJavaVersion(s string) (JavaVersion, error) {
	norm := strings.TrimSpace(s)
	norm = strings.TrimPrefix(norm, "JavaVersion.")
	norm = strings.TrimPrefix(strings.ToUpper(norm), "VERSION_")
	norm = strings.ReplaceAll(norm, "_", ".")
	if norm == "8" {
		norm = "1.8"
	}

	v := JavaVersion(norm)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid java compatibility level: %q (valid: 1.8, 11, 17, 21)", s)
	}
	return v, nil
}

// BuildDescriptor is the resolved, immutable set of parameters describing
// how to compile and package the application. It is passed and returned by
// value; there are no setters, so a descriptor cannot change after
// resolution.
type BuildDescriptor struct {
	// ApplicationID is the reverse-domain package identity (e.g. "com.example.car_rental").
	ApplicationID string `json:"applicationId" yaml:"applicationId"`

	// Namespace is the R class / manifest namespace. Defaults to ApplicationID.
	Namespace string `json:"namespace" yaml:"namespace"`

	// MinSdk is the lowest platform API level the application installs on.
	MinSdk int `json:"minSdk" yaml:"minSdk"`

	// TargetSdk is the API level the application is tested against.
	TargetSdk int `json:"targetSdk" yaml:"targetSdk"`

	// CompileSdk is the API level of the platform the sources compile against.
	CompileSdk int `json:"compileSdk" yaml:"compileSdk"`

	// VersionCode is the monotonically increasing integer version.
	VersionCode int `json:"versionCode" yaml:"versionCode"`

	// VersionName is the user-visible version string.
	VersionName string `json:"versionName" yaml:"versionName"`

	// JavaCompatibilityLevel drives sourceCompatibility, targetCompatibility and jvmTarget.
	JavaCompatibilityLevel JavaVersion `json:"javaCompatibilityLevel" yaml:"javaCompatibilityLevel"`

	// MinifyEnabled toggles code shrinking for the release build type.
	MinifyEnabled bool `json:"minifyEnabled" yaml:"minifyEnabled"`

	// FlutterSDK is the Flutter SDK path read from local.properties (flutter.sdk).
	FlutterSDK string `json:"flutterSdk,omitempty" yaml:"flutterSdk,omitempty"`

	// ProjectName is the root project name.
	ProjectName string `json:"projectName,omitempty" yaml:"projectName,omitempty"`
}

// Value returns the string form of the named field and whether the field
// exists. Optional fields that are unset return an empty string.
func (d BuildDescriptor) Value(field string) (string, bool) {
	switch field {
	case FieldApplicationID:
		return d.ApplicationID, true
	case FieldNamespace:
		return d.Namespace, true
	case FieldMinSdk:
		return fmt.Sprint(d.MinSdk), true
	case FieldTargetSdk:
		return fmt.Sprint(d.TargetSdk), true
	case FieldCompileSdk:
		return fmt.Sprint(d.CompileSdk), true
	case FieldVersionCode:
		return fmt.Sprint(d.VersionCode), true
	case FieldVersionName:
		return d.VersionName, true
	case FieldJavaCompatibilityLevel:
		return d.JavaCompatibilityLevel.String(), true
	case FieldMinifyEnabled:
		return fmt.Sprint(d.MinifyEnabled), true
	case FieldFlutterSDK:
		return d.FlutterSDK, true
	case FieldProjectName:
		return d.ProjectName, true
	default:
		return "", false
	}
}

// applicationIDRegex validates reverse-domain identifiers: at least two
// dot-separated segments, each starting with a letter.
var applicationIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)

// ValidateApplicationID checks if the given value is a valid application
// identifier such as "com.example.car_rental".
func ValidateApplicationID(id string) error {
	if id == "" {
		return fmt.Errorf("application identifier must not be empty")
	}
	if !applicationIDRegex.MatchString(id) {
		return fmt.Errorf("%q is not a reverse-domain identifier (e.g. com.example.app)", id)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow the invoking
// build pipeline to tell a missing input apart from invalid configuration.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInputNotFound indicates a required properties or override file
	// was not found.
	ExitInputNotFound ExitCode = 2

	// ExitValidationFailed indicates one or more descriptor invariants
	// were violated.
	ExitValidationFailed ExitCode = 3

	// ExitInvalidOverride indicates an override (file, flag or environment
	// variable) could not be parsed.
	ExitInvalidOverride ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
