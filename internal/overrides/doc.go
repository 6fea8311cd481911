// Package overrides loads the explicit override layers for the resolver.
//
// Overrides come from three places, each later source taking priority:
//
//  1. An override file (YAML, JSON/JSONC or HCL), selected by extension
//  2. BUILD_DESCRIPTOR_* environment variables
//  3. key=value assignments from the command line (--set / -P)
//
// Every source produces a flat map[string]string, which the caller passes
// to the resolver as its own layer. Nested objects in override files
// flatten to dotted keys ("defaultConfig.minSdk"), which the resolver
// recognizes as aliases of the canonical field names.
package overrides
