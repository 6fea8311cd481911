// Package resolver merges layered configuration into a validated
// model.BuildDescriptor.
//
// Layers are held in an explicit ordered list and consulted in that order
// for every field, so the precedence rule is visible in one place:
//
//	overrides > properties > defaults
//
// Resolution is all-or-nothing. Every broken invariant is collected into a
// single *model.ValidationError; no partial descriptor is ever returned.
package resolver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// Standard layer names used by Resolve.
const (
	LayerOverrides  = "overrides"
	LayerProperties = "properties"
	LayerDefaults   = "defaults"
)

// Names of the individual override sources, in priority order. The CLI
// keeps them as separate layers above LayerProperties.
const (
	LayerFlags        = "flags"
	LayerEnv          = "env"
	LayerOverrideFile = "override-file"
)

// Layer is one named source of configuration values.
type Layer struct {
	Name   string
	Values map[string]string
}

// Source records which layer and key supplied a field's value.
type Source struct {
	Field string `json:"field"`
	Layer string `json:"layer"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Resolver resolves descriptor fields from an ordered list of layers.
// The first layer has the highest priority.
type Resolver struct {
	layers []Layer
}

// New creates a Resolver over the given layers, highest priority first.
// A layer with a nil map is treated as empty.
func New(layers ...Layer) *Resolver {
	copied := make([]Layer, len(layers))
	copy(copied, layers)
	return &Resolver{layers: copied}
}

// Resolve builds a descriptor from the three standard layers with the
// precedence overrides > propertyStore > defaults.
func Resolve(propertyStore, defaults, overrides map[string]string) (model.BuildDescriptor, error) {
	return New(
		Layer{Name: LayerOverrides, Values: overrides},
		Layer{Name: LayerProperties, Values: propertyStore},
		Layer{Name: LayerDefaults, Values: defaults},
	).Resolve()
}

// lookup finds the highest-priority value for field. Values are trimmed
// and an empty value counts as unset in its layer.
func (r *Resolver) lookup(field string) (Source, bool) {
	for _, layer := range r.layers {
		for _, key := range Keys(field) {
			raw, ok := layer.Values[key]
			if !ok {
				continue
			}
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			return Source{Field: field, Layer: layer.Name, Key: key, Value: value}, true
		}
	}
	return Source{}, false
}

// Explain reports where every set field came from, in field order.
func (r *Resolver) Explain() []Source {
	var sources []Source
	for _, field := range model.Fields {
		if src, ok := r.lookup(field); ok {
			sources = append(sources, src)
		}
	}
	return sources
}

// Unknown lists the keys, as "layer:key", that no field recognizes.
// The result is sorted.
func (r *Resolver) Unknown() []string {
	var unknown []string
	for _, layer := range r.layers {
		for key := range layer.Values {
			if !knownKey(key) {
				unknown = append(unknown, layer.Name+":"+key)
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Resolve merges the layers into a descriptor and validates it.
func (r *Resolver) Resolve() (model.BuildDescriptor, error) {
	verr := &model.ValidationError{}
	var d model.BuildDescriptor

	d.ApplicationID = r.requireString(verr, model.FieldApplicationID)
	if d.ApplicationID != "" {
		if err := model.ValidateApplicationID(d.ApplicationID); err != nil {
			verr.Add(model.FieldApplicationID, "%v", err)
		}
	}

	d.Namespace = d.ApplicationID
	if src, ok := r.lookup(model.FieldNamespace); ok {
		d.Namespace = src.Value
		if err := model.ValidateApplicationID(src.Value); err != nil {
			verr.Add(model.FieldNamespace, "%v", err)
		}
	}

	minSdk, minOK := r.requireInt(verr, model.FieldMinSdk, 1, 0)
	targetSdk, targetOK := r.requireInt(verr, model.FieldTargetSdk, 1, 0)
	compileSdk, compileOK := r.requireInt(verr, model.FieldCompileSdk, 1, 0)
	if minOK && targetOK && minSdk > targetSdk {
		verr.AddOrdering(model.FieldMinSdk, model.FieldTargetSdk, minSdk, targetSdk)
	}
	if targetOK && compileOK && targetSdk > compileSdk {
		verr.AddOrdering(model.FieldTargetSdk, model.FieldCompileSdk, targetSdk, compileSdk)
	}
	d.MinSdk, d.TargetSdk, d.CompileSdk = minSdk, targetSdk, compileSdk

	d.VersionCode, _ = r.requireInt(verr, model.FieldVersionCode, 1, model.MaxVersionCode)
	d.VersionName = r.requireString(verr, model.FieldVersionName)

	if src, ok := r.lookup(model.FieldJavaCompatibilityLevel); ok {
		level, err := model.ParseJavaVersion(src.Value)
		if err != nil {
			verr.Add(model.FieldJavaCompatibilityLevel, "%v", err)
		}
		d.JavaCompatibilityLevel = level
	} else {
		verr.Add(model.FieldJavaCompatibilityLevel, "required field is missing")
	}

	if src, ok := r.lookup(model.FieldMinifyEnabled); ok {
		enabled, err := strconv.ParseBool(src.Value)
		if err != nil {
			verr.Add(model.FieldMinifyEnabled, "%q is not a boolean", src.Value)
		}
		d.MinifyEnabled = enabled
	}

	if src, ok := r.lookup(model.FieldFlutterSDK); ok {
		d.FlutterSDK = src.Value
	}
	if src, ok := r.lookup(model.FieldProjectName); ok {
		d.ProjectName = src.Value
	}

	if err := verr.ErrOrNil(); err != nil {
		return model.BuildDescriptor{}, err
	}
	return d, nil
}

// requireString returns the value of a required string field, recording a
// violation when it is unset.
func (r *Resolver) requireString(verr *model.ValidationError, field string) string {
	src, ok := r.lookup(field)
	if !ok {
		verr.Add(field, "required field is missing")
		return ""
	}
	return src.Value
}

// requireInt returns the value of a required integer field and whether it
// parsed. Range violations are recorded but still report the value as
// parsed, so ordering checks run on it. A zero hi means no upper bound.
func (r *Resolver) requireInt(verr *model.ValidationError, field string, lo, hi int) (int, bool) {
	src, ok := r.lookup(field)
	if !ok {
		verr.Add(field, "required field is missing")
		return 0, false
	}

	n, err := strconv.Atoi(src.Value)
	if err != nil {
		verr.Add(field, "%q is not an integer", src.Value)
		return 0, false
	}

	if n < lo {
		verr.Add(field, "must be >= %d, got %d", lo, n)
	}
	if hi > 0 && n > hi {
		verr.Add(field, "must be <= %d, got %d", hi, n)
	}
	return n, true
}

// String renders a Source as "field=value (layer key)".
func (s Source) String() string {
	if s.Key == s.Field {
		return fmt.Sprintf("%s=%s (%s)", s.Field, s.Value, s.Layer)
	}
	return fmt.Sprintf("%s=%s (%s %s)", s.Field, s.Value, s.Layer, s.Key)
}
