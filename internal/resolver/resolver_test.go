package resolver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/build-descriptor/internal/defaults"
	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// validStore returns a property store that, combined with the defaults,
// resolves without violations.
func validStore() map[string]string {
	return map[string]string{
		"applicationId": "com.example.car_rental",
		"minSdk":        "21",
		"versionCode":   "1",
		"versionName":   "1.0",
	}
}

// requireValidationError asserts err is a *model.ValidationError and returns it.
func requireValidationError(t *testing.T, err error) *model.ValidationError {
	t.Helper()
	require.Error(t, err)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "error should be a *model.ValidationError, got %T", err)
	return verr
}

// TestResolve_Scenario reproduces the documented example: minSdk from the
// property store, SDK levels from defaults, versionCode from an override.
func TestResolve_Scenario(t *testing.T) {
	store := validStore()
	overrides := map[string]string{"versionCode": "2"}

	d, err := Resolve(store, defaults.Values(), overrides)
	require.NoError(t, err)

	want := model.BuildDescriptor{
		ApplicationID:          "com.example.car_rental",
		Namespace:              "com.example.car_rental",
		MinSdk:                 21,
		TargetSdk:              34,
		CompileSdk:             34,
		VersionCode:            2,
		VersionName:            "1.0",
		JavaCompatibilityLevel: model.Java17,
		MinifyEnabled:          false,
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

// TestResolve_OrderingViolation reproduces the documented failure:
// minSdk=30 with targetSdk=21.
func TestResolve_OrderingViolation(t *testing.T) {
	store := map[string]string{"minSdk": "30", "targetSdk": "21"}

	d, err := Resolve(store, defaults.Values(), nil)
	verr := requireValidationError(t, err)

	assert.Contains(t, err.Error(), "minSdk <= targetSdk violated: 30 > 21")
	assert.True(t, verr.Has(model.FieldMinSdk))
	assert.True(t, verr.Has(model.FieldTargetSdk))

	// All-or-nothing: no partial descriptor.
	assert.Equal(t, model.BuildDescriptor{}, d)
}

// TestResolve_SdkTriples checks the round-trip property for valid triples
// and the named relation for invalid ones.
func TestResolve_SdkTriples(t *testing.T) {
	tests := []struct {
		min, target, compile int
		wantErr              string
	}{
		{21, 34, 34, ""},
		{1, 1, 1, ""},
		{21, 21, 35, ""},
		{24, 33, 34, ""},
		{30, 21, 34, "minSdk <= targetSdk violated: 30 > 21"},
		{21, 35, 34, "targetSdk <= compileSdk violated: 35 > 34"},
		{34, 33, 32, "minSdk <= targetSdk violated: 34 > 33"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d-%d", tt.min, tt.target, tt.compile), func(t *testing.T) {
			store := validStore()
			store["minSdk"] = fmt.Sprint(tt.min)
			store["targetSdk"] = fmt.Sprint(tt.target)
			store["compileSdk"] = fmt.Sprint(tt.compile)

			d, err := Resolve(store, defaults.Values(), nil)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.min, d.MinSdk)
				assert.Equal(t, tt.target, d.TargetSdk)
				assert.Equal(t, tt.compile, d.CompileSdk)
				return
			}
			requireValidationError(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestResolve_BothOrderingViolations verifies both relations are reported
// together rather than stopping at the first.
func TestResolve_BothOrderingViolations(t *testing.T) {
	store := validStore()
	store["minSdk"] = "34"
	store["targetSdk"] = "33"
	store["compileSdk"] = "32"

	_, err := Resolve(store, nil, nil)
	requireValidationError(t, err)

	assert.Contains(t, err.Error(), "minSdk <= targetSdk violated: 34 > 33")
	assert.Contains(t, err.Error(), "targetSdk <= compileSdk violated: 33 > 32")
}

// TestResolve_Precedence verifies overrides > properties > defaults for
// every field that has a default.
func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		store     map[string]string
		overrides map[string]string
		want      int
	}{
		{
			name: "default only",
			want: 34,
		},
		{
			name:  "property beats default",
			store: map[string]string{"targetSdk": "33"},
			want:  33,
		},
		{
			name:      "override beats property",
			store:     map[string]string{"targetSdk": "33"},
			overrides: map[string]string{"targetSdk": "32"},
			want:      32,
		},
		{
			name:      "override beats default",
			overrides: map[string]string{"targetSdk": "30"},
			want:      30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := validStore()
			for k, v := range tt.store {
				store[k] = v
			}

			d, err := Resolve(store, defaults.Values(), tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.TargetSdk)
		})
	}
}

// TestResolve_OverrideWinsForEveryField sets every field in all three
// layers and checks the override value is used each time.
func TestResolve_OverrideWinsForEveryField(t *testing.T) {
	low := map[string]string{
		"applicationId":          "com.low.app",
		"namespace":              "com.low.ns",
		"minSdk":                 "19",
		"targetSdk":              "30",
		"compileSdk":             "30",
		"versionCode":            "1",
		"versionName":            "low",
		"javaCompatibilityLevel": "11",
		"minifyEnabled":          "false",
		"flutterSdk":             "/low",
		"projectName":            "low",
	}
	high := map[string]string{
		"applicationId":          "com.high.app",
		"namespace":              "com.high.ns",
		"minSdk":                 "23",
		"targetSdk":              "35",
		"compileSdk":             "35",
		"versionCode":            "9",
		"versionName":            "high",
		"javaCompatibilityLevel": "21",
		"minifyEnabled":          "true",
		"flutterSdk":             "/high",
		"projectName":            "high",
	}

	d, err := Resolve(low, low, high)
	require.NoError(t, err)

	for _, field := range model.Fields {
		got, _ := d.Value(field)
		assert.Equal(t, high[field], got, field)
	}
}

// TestResolve_Idempotent verifies that resolving the same inputs twice
// yields identical descriptors.
func TestResolve_Idempotent(t *testing.T) {
	store := validStore()
	overrides := map[string]string{"minifyEnabled": "true"}

	first, err := Resolve(store, defaults.Values(), overrides)
	require.NoError(t, err)
	second, err := Resolve(store, defaults.Values(), overrides)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
	assert.Equal(t, validStore(), store, "inputs must not be mutated")
}

// TestResolve_MissingRequiredFields verifies that required fields are
// never defaulted and that every missing one is reported.
func TestResolve_MissingRequiredFields(t *testing.T) {
	_, err := Resolve(map[string]string{}, defaults.Values(), nil)
	verr := requireValidationError(t, err)

	for _, field := range []string{
		model.FieldApplicationID,
		model.FieldMinSdk,
		model.FieldVersionCode,
		model.FieldVersionName,
	} {
		assert.True(t, verr.Has(field), "violation should name %s", field)
		assert.Contains(t, err.Error(), field+": required field is missing")
	}
	assert.False(t, verr.Has(model.FieldTargetSdk))
	assert.Len(t, verr.Violations, 4)
}

// TestResolve_NoDefaults verifies fields normally covered by defaults are
// reported when the defaults layer is absent.
func TestResolve_NoDefaults(t *testing.T) {
	_, err := Resolve(validStore(), nil, nil)
	verr := requireValidationError(t, err)

	assert.True(t, verr.Has(model.FieldTargetSdk))
	assert.True(t, verr.Has(model.FieldCompileSdk))
	assert.True(t, verr.Has(model.FieldJavaCompatibilityLevel))
	assert.False(t, verr.Has(model.FieldMinifyEnabled), "minifyEnabled defaults to false")
}

// TestResolve_InvalidValues verifies parse and range failures are all
// collected into one error.
func TestResolve_InvalidValues(t *testing.T) {
	store := map[string]string{
		"applicationId":          "car_rental",
		"namespace":              "bad-ns",
		"minSdk":                 "twenty",
		"targetSdk":              "0",
		"compileSdk":             "34",
		"versionCode":            "2100000001",
		"versionName":            "1.0",
		"javaCompatibilityLevel": "16",
		"minifyEnabled":          "maybe",
	}

	_, err := Resolve(store, nil, nil)
	verr := requireValidationError(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `applicationId: "car_rental" is not a reverse-domain identifier`)
	assert.Contains(t, msg, `namespace: "bad-ns" is not a reverse-domain identifier`)
	assert.Contains(t, msg, `minSdk: "twenty" is not an integer`)
	assert.Contains(t, msg, "targetSdk: must be >= 1, got 0")
	assert.Contains(t, msg, "versionCode: must be <= 2100000000, got 2100000001")
	assert.Contains(t, msg, `javaCompatibilityLevel: invalid java compatibility level: "16"`)
	assert.Contains(t, msg, `minifyEnabled: "maybe" is not a boolean`)
	assert.NotContains(t, msg, "violated", "ordering is skipped when minSdk did not parse")
	assert.Len(t, verr.Violations, 7)
}

// TestResolve_Aliases verifies Flutter and Gradle DSL keys map onto the
// canonical fields.
func TestResolve_Aliases(t *testing.T) {
	store := map[string]string{
		"flutter.sdk":           "/opt/flutter",
		"flutter.versionCode":   "5",
		"flutter.versionName":   "2.1.0",
		"flutter.minSdkVersion": "21",
		"sdk.dir":               "/opt/android-sdk",
	}
	overrides := map[string]string{
		"defaultConfig.applicationId":        "com.example.car_rental",
		"compileOptions.sourceCompatibility": "JavaVersion.VERSION_11",
		"buildTypes.release.isMinifyEnabled": "true",
		"rootProject.name":                   "car_rental",
	}

	r := New(
		Layer{Name: LayerOverrides, Values: overrides},
		Layer{Name: LayerProperties, Values: store},
		Layer{Name: LayerDefaults, Values: defaults.Values()},
	)
	d, err := r.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "com.example.car_rental", d.ApplicationID)
	assert.Equal(t, 21, d.MinSdk)
	assert.Equal(t, 5, d.VersionCode)
	assert.Equal(t, "2.1.0", d.VersionName)
	assert.Equal(t, model.Java11, d.JavaCompatibilityLevel)
	assert.True(t, d.MinifyEnabled)
	assert.Equal(t, "/opt/flutter", d.FlutterSDK)
	assert.Equal(t, "car_rental", d.ProjectName)

	assert.Equal(t, []string{"properties:sdk.dir"}, r.Unknown())
}

// TestResolve_CanonicalKeyBeatsAliasInSameLayer verifies lookup order
// inside one layer.
func TestResolve_CanonicalKeyBeatsAliasInSameLayer(t *testing.T) {
	store := validStore()
	store["flutter.versionCode"] = "7"

	d, err := Resolve(store, defaults.Values(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, d.VersionCode)
}

// TestResolve_BlankValueFallsThrough verifies that an empty or whitespace
// value does not mask a lower layer.
func TestResolve_BlankValueFallsThrough(t *testing.T) {
	overrides := map[string]string{"versionName": "   "}

	d, err := Resolve(validStore(), defaults.Values(), overrides)
	require.NoError(t, err)
	assert.Equal(t, "1.0", d.VersionName)
}

// TestResolver_Explain verifies provenance reporting.
func TestResolver_Explain(t *testing.T) {
	r := New(
		Layer{Name: LayerOverrides, Values: map[string]string{"versionCode": "2"}},
		Layer{Name: LayerProperties, Values: map[string]string{"flutter.minSdkVersion": "21"}},
		Layer{Name: LayerDefaults, Values: defaults.Values()},
	)

	byField := make(map[string]Source)
	for _, src := range r.Explain() {
		byField[src.Field] = src
	}

	assert.Equal(t, Source{Field: "versionCode", Layer: LayerOverrides, Key: "versionCode", Value: "2"}, byField["versionCode"])
	assert.Equal(t, Source{Field: "minSdk", Layer: LayerProperties, Key: "flutter.minSdkVersion", Value: "21"}, byField["minSdk"])
	assert.Equal(t, LayerDefaults, byField["targetSdk"].Layer)
	assert.NotContains(t, byField, "applicationId")

	assert.Equal(t, "minSdk=21 (properties flutter.minSdkVersion)", byField["minSdk"].String())
	assert.Equal(t, "versionCode=2 (overrides)", byField["versionCode"].String())
}

// TestKeys verifies the canonical name is consulted before aliases.
func TestKeys(t *testing.T) {
	keys := Keys(model.FieldVersionCode)
	require.NotEmpty(t, keys)
	assert.Equal(t, model.FieldVersionCode, keys[0])
	assert.Contains(t, keys, "flutter.versionCode")

	assert.Equal(t, []string{"unknown"}, Keys("unknown"))
}
