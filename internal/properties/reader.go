// Package properties reads the line-oriented local.properties file that
// Android and Flutter tooling keep next to the Gradle project.
//
// The file follows the Java properties format (UTF-8, one key=value per
// line, '#' or '!' comments, backslash escapes such as "C\:\\sdk").
// Parsing is delegated to github.com/magiconair/properties; "${...}"
// expansion is disabled so values are returned exactly as written.
package properties

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/magiconair/properties"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// DefaultFileName is the conventional name of the property store.
const DefaultFileName = "local.properties"

// Read loads the properties file at path into a key/value map.
//
// When the file does not exist, Read returns a *model.NotFoundError if
// required is true and an empty map otherwise. The file handle is released
// on every return path.
func Read(path string, required bool) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return nil, &model.NotFoundError{Path: path, Err: err}
			}
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to open properties file %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
	}
	return entries, nil
}

// Parse reads properties from r. A key repeated in the input keeps its
// last value.
func Parse(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// Expansion must be off while loading: Load would otherwise reject
	// values such as "1.0-${build" before the caller sees them.
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid properties syntax: %w", err)
	}

	entries := make(map[string]string, p.Len())
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		entries[key] = value
	}
	return entries, nil
}
