package output

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
)

type fieldSpec struct {
	Key  string
	Path []string
}

// ValidateFields validates --fields syntax.
func ValidateFields(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	_, err := parseFieldSpecs(raw)
	return err
}

func applyOutputTransforms(ctx context.Context, data interface{}, format Format) (interface{}, error) {
	fieldsRaw := strings.TrimSpace(FieldsFromContext(ctx))
	jsonPathRaw := strings.TrimSpace(JSONPathFromContext(ctx))
	if fieldsRaw == "" && jsonPathRaw == "" {
		return data, nil
	}

	if format == FormatTable {
		return nil, clierrors.NewUserError(
			"--fields/--jsonpath are not supported with table output",
			"Use --output json|ndjson|jsonl|yaml|text instead",
		)
	}

	if fieldsRaw != "" {
		projected, err := projectFields(data, fieldsRaw)
		if err != nil {
			return nil, err
		}
		data = projected
	}

	if jsonPathRaw != "" {
		extracted, err := applyJSONPath(data, jsonPathRaw)
		if err != nil {
			return nil, err
		}
		data = extracted
	}
	return data, nil
}

func projectFields(data interface{}, raw string) (interface{}, error) {
	specs, err := parseFieldSpecs(raw)
	if err != nil {
		return nil, clierrors.WrapUserError(err, "invalid --fields value", "Example: --fields job-ID,state")
	}

	normalized, err := normalizeToInterface(data)
	if err != nil {
		return nil, err
	}

	if items, ok := normalized.([]interface{}); ok {
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			out = append(out, projectOne(item, specs))
		}
		return out, nil
	}
	return projectOne(normalized, specs), nil
}

func projectOne(item interface{}, specs []fieldSpec) map[string]interface{} {
	out := make(map[string]interface{}, len(specs))
	for _, spec := range specs {
		out[spec.Key] = extractValue(item, spec.Path)
	}
	return out
}

// parseFieldSpecs reads "key=path" or "path" items separated by commas.
// Paths are dot separated; numeric segments index into lists.
func parseFieldSpecs(raw string) ([]fieldSpec, error) {
	var specs []fieldSpec
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, path := part, part
		if k, p, ok := strings.Cut(part, "="); ok {
			key, path = strings.TrimSpace(k), strings.TrimSpace(p)
		}
		if key == "" || path == "" {
			return nil, fmt.Errorf("invalid field spec %q", part)
		}
		segments := strings.Split(strings.TrimPrefix(path, "."), ".")
		for _, s := range segments {
			if s == "" {
				return nil, fmt.Errorf("invalid field path %q: empty segment", path)
			}
		}
		specs = append(specs, fieldSpec{Key: key, Path: segments})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no fields provided")
	}
	return specs, nil
}

func extractValue(data interface{}, path []string) interface{} {
	cur := data
	for _, seg := range path {
		switch v := cur.(type) {
		case map[string]interface{}:
			val, ok := v[seg]
			if !ok {
				return nil
			}
			cur = val
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil
			}
			cur = v[idx]
		default:
			return nil
		}
	}
	return cur
}

func normalizeToInterface(data interface{}) (interface{}, error) {
	switch data.(type) {
	case map[string]interface{}, []interface{}:
		return data, nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode data: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}

func applyJSONPath(data interface{}, raw string) (interface{}, error) {
	path := normalizeJSONPath(raw)
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return nil, err
	}
	value, err := jsonpath.Get(path, normalized)
	if err != nil {
		return nil, clierrors.WrapUserError(err, "invalid --jsonpath value", "Example: --jsonpath '$[*].state'")
	}
	return value, nil
}

func normalizeJSONPath(path string) string {
	trimmed := strings.TrimSpace(path)
	switch {
	case strings.HasPrefix(trimmed, "$"), strings.HasPrefix(trimmed, "@"):
		return trimmed
	case strings.HasPrefix(trimmed, "."), strings.HasPrefix(trimmed, "["):
		return "$" + trimmed
	default:
		return "$." + trimmed
	}
}
