package emitter

import (
	"strings"
	"unicode"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// Label keys share the "android." prefix to namespace them and avoid
// collisions with labels set by other tools on the same image or artifact
// (org.opencontainers.*, com.docker.*).
const (
	// LabelPrefix is the common prefix for all descriptor labels.
	LabelPrefix = "android."

	// LabelGeneratedBy identifies label sets produced by this tool.
	// Key: "android.generated-by", Value: always GeneratedByValue.
	LabelGeneratedBy = LabelPrefix + "generated-by"
)

// GeneratedByValue is the constant value for the LabelGeneratedBy label.
const GeneratedByValue = "build-descriptor"

// LabelKey returns the label key for a descriptor field:
//
//	LabelKey("minSdk") → "android.min-sdk"
func LabelKey(field string) string {
	var b strings.Builder
	b.WriteString(LabelPrefix)
	runes := []rune(field)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// BuildLabels constructs a flat label map from a descriptor. One label per
// set field keeps every value readable with `docker inspect` or any other
// label viewer without decoding a structured blob.
func BuildLabels(d model.BuildDescriptor) map[string]string {
	labels := map[string]string{
		LabelGeneratedBy: GeneratedByValue,
	}
	for _, p := range Params(d) {
		labels[LabelKey(p.Name)] = p.Value
	}
	return labels
}
