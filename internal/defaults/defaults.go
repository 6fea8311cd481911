// Package defaults supplies the fallback values used when neither the
// property store nor an override sets an optional descriptor field.
//
// The values mirror the generated Android wrapper: compileSdk and targetSdk
// 34, Java 17 compatibility and no minification for release builds. Fields
// without a safe fallback (applicationId, minSdk, versionCode, versionName)
// are absent, so a missing value is reported rather than filled in.
package defaults

import (
	"strconv"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

const (
	TargetSdk     = 34
	CompileSdk    = 34
	JavaLevel     = model.Java17
	MinifyEnabled = false
)

// Values returns a new map of default field values on every call, so
// callers may modify the result freely.
func Values() map[string]string {
	return map[string]string{
		model.FieldTargetSdk:              strconv.Itoa(TargetSdk),
		model.FieldCompileSdk:             strconv.Itoa(CompileSdk),
		model.FieldJavaCompatibilityLevel: JavaLevel.String(),
		model.FieldMinifyEnabled:          strconv.FormatBool(MinifyEnabled),
	}
}
