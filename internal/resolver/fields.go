package resolver

import "github.com/shinji-kodama/build-descriptor/internal/model"

// aliases maps each canonical field to the alternative keys accepted in a
// layer, in lookup order. Flutter writes its values into local.properties
// under "flutter.*", and override files may mirror the Gradle DSL blocks
// (defaultConfig, compileOptions, buildTypes.release).
var aliases = map[string][]string{
	model.FieldApplicationID: {
		"defaultConfig.applicationId",
		"android.defaultConfig.applicationId",
	},
	model.FieldNamespace: {
		"android.namespace",
	},
	model.FieldMinSdk: {
		"flutter.minSdkVersion",
		"defaultConfig.minSdk",
		"android.defaultConfig.minSdk",
	},
	model.FieldTargetSdk: {
		"flutter.targetSdkVersion",
		"defaultConfig.targetSdk",
		"android.defaultConfig.targetSdk",
	},
	model.FieldCompileSdk: {
		"flutter.compileSdkVersion",
		"android.compileSdk",
	},
	model.FieldVersionCode: {
		"flutter.versionCode",
		"defaultConfig.versionCode",
		"android.defaultConfig.versionCode",
	},
	model.FieldVersionName: {
		"flutter.versionName",
		"defaultConfig.versionName",
		"android.defaultConfig.versionName",
	},
	model.FieldJavaCompatibilityLevel: {
		"compileOptions.sourceCompatibility",
		"compileOptions.targetCompatibility",
		"kotlinOptions.jvmTarget",
	},
	model.FieldMinifyEnabled: {
		"buildTypes.release.isMinifyEnabled",
		"buildTypes.release.minifyEnabled",
	},
	model.FieldFlutterSDK: {
		"flutter.sdk",
	},
	model.FieldProjectName: {
		"rootProject.name",
	},
}

// Keys returns the keys consulted for field inside a single layer: the
// canonical name first, then its aliases.
func Keys(field string) []string {
	return append([]string{field}, aliases[field]...)
}

// knownKey reports whether key is a canonical field name or an alias.
func knownKey(key string) bool {
	if model.IsField(key) {
		return true
	}
	for _, keys := range aliases {
		for _, k := range keys {
			if k == key {
				return true
			}
		}
	}
	return false
}
