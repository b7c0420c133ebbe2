package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/aellingwood/linkforge/internal/config"
)

// requiredSections must be present in a merged document.
var requiredSections = []string{"profile", "theme", "layout", "seo"}

var configType = reflect.TypeFor[config.Config]()

// CheckDocument checks the shape of a generic configuration document: every
// known field must hold a value of the right JSON type. Unknown keys are
// reported as warnings with a suggested spelling. Null values are skipped,
// matching the merge rule that null carries no opinion.
func CheckDocument(doc map[string]any) Result {
	c := &collector{}
	for _, s := range requiredSections {
		if doc[s] == nil {
			c.fail(s, CodeRequired, "section %q is required", s)
		}
	}
	checkValue(c, "", doc, configType)
	return c.result()
}

func checkValue(c *collector, path string, v any, t reflect.Type) {
	switch t.Kind() {
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			c.fail(path, CodeType, "expected an object, got %s", kindOf(v))
			return
		}
		fields := jsonFields(t)
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		for _, k := range sortedKeys(m) {
			field := join(path, k)
			ft, known := fields[k]
			if !known {
				w := c.warn(field, CodeUnknown, "unknown field %q is ignored", k)
				w.Suggestion = suggest(k, names)
				continue
			}
			if m[k] == nil {
				continue
			}
			checkValue(c, field, m[k], ft)
		}

	case reflect.Slice:
		arr, ok := v.([]any)
		if !ok {
			c.fail(path, CodeType, "expected an array, got %s", kindOf(v))
			return
		}
		for i, e := range arr {
			field := join(path, fmt.Sprint(i))
			if e == nil {
				c.fail(field, CodeType, "expected %s, got null", kindName(t.Elem()))
				continue
			}
			checkValue(c, field, e, t.Elem())
		}

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok {
			c.fail(path, CodeType, "expected an object, got %s", kindOf(v))
			return
		}
		for _, k := range sortedKeys(m) {
			if m[k] == nil {
				continue
			}
			checkValue(c, join(path, k), m[k], t.Elem())
		}

	case reflect.String:
		if _, ok := v.(string); !ok {
			c.fail(path, CodeType, "expected a string, got %s", kindOf(v))
		}

	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			c.fail(path, CodeType, "expected a boolean, got %s", kindOf(v))
		}
	}
}

// jsonFields maps the JSON names of t's exported fields to their types.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	return fields
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case float64, float32, int, int64, int32, uint64:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Slice:
		return "an array"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a string"
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// suggest returns the allowed value closest to input, or "" when nothing
// is close enough to be a likely typo.
func suggest(input string, allowed []string) string {
	lower := strings.ToLower(input)
	best, bestDist := "", 3
	for _, a := range allowed {
		if strings.ToLower(a) == lower {
			return a
		}
		if d := levenshtein.ComputeDistance(lower, strings.ToLower(a)); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}
