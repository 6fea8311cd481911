package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/shinji-kodama/build-descriptor/internal/defaults"
	"github.com/shinji-kodama/build-descriptor/internal/model"
	"github.com/shinji-kodama/build-descriptor/internal/overrides"
	"github.com/shinji-kodama/build-descriptor/internal/properties"
	"github.com/shinji-kodama/build-descriptor/internal/resolver"
)

// buildResolver loads every configuration layer selected by the flags and
// returns a resolver over them, highest priority first:
// --set, environment, override file, properties, defaults. environ is the
// process environment (os.Environ in production).
func buildResolver(src *sourceFlags, environ []string) (*resolver.Resolver, error) {
	store, err := properties.Read(src.propertiesPath, src.requireProperties)
	if err != nil {
		return nil, inputError("failed to load properties", model.ExitGeneralError, err)
	}
	VerboseLog("Loaded %d entries from %s", len(store), src.propertiesPath)

	var fileOverrides map[string]string
	if src.overridesPath != "" {
		fileOverrides, err = overrides.LoadFile(src.overridesPath)
		if err != nil {
			return nil, inputError("failed to load override file", model.ExitInvalidOverride, err)
		}
		VerboseLog("Loaded %d overrides from %s", len(fileOverrides), src.overridesPath)
	}

	var envOverrides map[string]string
	if !src.noEnv {
		envOverrides = overrides.FromEnv(environ, overrides.EnvPrefix)
		VerboseLog("Loaded %d overrides from %s* environment variables", len(envOverrides), overrides.EnvPrefix)
	}

	flagOverrides, err := overrides.ParseAssignments(src.set)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidOverride, "invalid --set value", err)
	}

	// Each override source is its own layer so that an alias set by a
	// higher source still beats a canonical key set by a lower one.
	return resolver.New(
		resolver.Layer{Name: resolver.LayerFlags, Values: flagOverrides},
		resolver.Layer{Name: resolver.LayerEnv, Values: envOverrides},
		resolver.Layer{Name: resolver.LayerOverrideFile, Values: fileOverrides},
		resolver.Layer{Name: resolver.LayerProperties, Values: store},
		resolver.Layer{Name: resolver.LayerDefaults, Values: defaults.Values()},
	), nil
}

// resolveDescriptor runs the full pipeline: load layers, log provenance,
// resolve and validate.
func resolveDescriptor(src *sourceFlags) (model.BuildDescriptor, *resolver.Resolver, error) {
	r, err := buildResolver(src, os.Environ())
	if err != nil {
		return model.BuildDescriptor{}, nil, err
	}

	for _, s := range r.Explain() {
		VerboseLog("%s", s)
	}
	for _, key := range r.Unknown() {
		VerboseLog("Ignoring unrecognized key %s", key)
	}

	d, err := r.Resolve()
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return model.BuildDescriptor{}, nil, model.WrapCLIError(
				model.ExitValidationFailed,
				fmt.Sprintf("build descriptor is invalid (%d problems)", len(verr.Violations)),
				verr,
			)
		}
		return model.BuildDescriptor{}, nil, model.WrapCLIError(model.ExitGeneralError, "resolution failed", err)
	}
	return d, r, nil
}

// inputError maps a load failure to ExitInputNotFound for a missing
// required file and to code otherwise.
func inputError(message string, code model.ExitCode, err error) error {
	var nf *model.NotFoundError
	if errors.As(err, &nf) {
		return model.WrapCLIError(model.ExitInputNotFound, message, err)
	}
	return model.WrapCLIError(code, message, err)
}
