package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/tidwall/jsonc"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// LoadFile reads an override file and flattens it into a key/value map.
// The format is chosen by extension:
//
//   - .yaml, .yml: YAML mapping, scalars kept as written ("1.0" stays "1.0")
//   - .json, .jsonc: JSON with comments and trailing commas (tidwall/jsonc)
//   - .hcl: top-level attributes, e.g. minSdk = 21 or defaultConfig = { ... };
//     number literals are kept as written (versionName = 1.0 stays "1.0")
//
// Returns a *model.NotFoundError if the file does not exist.
func LoadFile(path string) (map[string]string, error) {
	// os.ReadFile opens, reads and closes in one call.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return parseYAML(path, data)
	case ".json", ".jsonc":
		return parseJSONC(path, data)
	case ".hcl":
		return parseHCL(path, data)
	default:
		return nil, fmt.Errorf("unsupported override file format %q (valid: .yaml, .yml, .json, .jsonc, .hcl)", ext)
	}
}

// parseYAML walks the document node tree rather than decoding into
// interface{}, so scalars keep their literal text.
func parseYAML(path string, data []byte) (map[string]string, error) {
	values := make(map[string]string)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML override file %s: %w", path, err)
	}
	// An empty document has no content.
	if len(doc.Content) == 0 {
		return values, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("YAML override file %s: top level must be a mapping", path)
	}
	if err := flattenYAML("", root, values); err != nil {
		return nil, fmt.Errorf("YAML override file %s: %w", path, err)
	}
	return values, nil
}

func flattenYAML(prefix string, node *yaml.Node, out map[string]string) error {
	switch node.Kind {
	case yaml.MappingNode:
		// Content alternates key and value nodes.
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := joinKey(prefix, node.Content[i].Value)
			if err := flattenYAML(key, node.Content[i+1], out); err != nil {
				return err
			}
		}
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		out[prefix] = node.Value
		return nil
	case yaml.AliasNode:
		return flattenYAML(prefix, node.Alias, out)
	default:
		return fmt.Errorf("%s: sequences are not supported", prefix)
	}
}

func parseJSONC(path string, data []byte) (map[string]string, error) {
	// Strip comments and trailing commas, then decode with UseNumber so
	// numbers keep their literal text.
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON override file %s: %w", path, err)
	}

	values := make(map[string]string)
	if err := flattenJSON("", raw, values); err != nil {
		return nil, fmt.Errorf("JSON override file %s: %w", path, err)
	}
	return values, nil
}

func flattenJSON(prefix string, v interface{}, out map[string]string) error {
	switch tv := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		// Sorted for deterministic error reporting.
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flattenJSON(joinKey(prefix, k), tv[k], out); err != nil {
				return err
			}
		}
		return nil
	case string:
		out[prefix] = tv
	case json.Number:
		out[prefix] = tv.String()
	case bool:
		out[prefix] = fmt.Sprint(tv)
	default:
		return fmt.Errorf("%s: arrays are not supported", prefix)
	}
	return nil
}

func parseHCL(path string, data []byte) (map[string]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL override file %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL override file %s: %w", path, diags)
	}

	values := make(map[string]string)
	for name, attr := range attrs {
		if err := flattenHCL(name, attr.Expr, data, values); err != nil {
			return nil, fmt.Errorf("HCL override file %s: %w", path, err)
		}
	}
	return values, nil
}

// flattenHCL walks object constructors itself so that number literals keep
// their source text: cty normalises 1.0 to 1 and 1e3 to 1000.
func flattenHCL(prefix string, expr hcl.Expression, src []byte, out map[string]string) error {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			k, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("%s: %w", prefix, diags)
			}
			key, err := convert.Convert(k, cty.String)
			if err != nil || key.IsNull() || !key.IsKnown() {
				return fmt.Errorf("%s: object keys must be strings", prefix)
			}
			if err := flattenHCL(joinKey(prefix, key.AsString()), item.ValueExpr, src, out); err != nil {
				return err
			}
		}
		return nil
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() == cty.Number {
			out[prefix] = string(e.Range().SliceBytes(src))
			return nil
		}
	}

	// No evaluation context: overrides are literal values, not expressions
	// over variables or functions.
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	return flattenCty(prefix, val, out)
}

func flattenCty(prefix string, v cty.Value, out map[string]string) error {
	if v.IsNull() {
		return nil
	}
	if !v.IsWhollyKnown() {
		return fmt.Errorf("%s: value is not known", prefix)
	}

	ty := v.Type()
	switch {
	case ty.IsObjectType() || ty.IsMapType():
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			if err := flattenCty(joinKey(prefix, k.AsString()), ev, out); err != nil {
				return err
			}
		}
		return nil
	case ty.IsPrimitiveType():
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
		out[prefix] = s.AsString()
		return nil
	default:
		return fmt.Errorf("%s: unsupported value type %s", prefix, ty.FriendlyName())
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
