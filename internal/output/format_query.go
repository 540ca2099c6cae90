package output

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/itchyny/gojq"
)

// printJSON outputs data as pretty-printed JSON.
// If a jq query is present in the context, each result is printed instead.
func (p *Printer) printJSON(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		return p.runQuery(query, data, true)
	}
	enc := p.jsonEncoder(true)
	return enc.Encode(data)
}

// printNDJSON outputs slices one element per line.
func (p *Printer) printNDJSON(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		return p.runQuery(query, data, false)
	}

	enc := p.jsonEncoder(false)
	v := derefValue(reflect.ValueOf(data))
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if err := enc.Encode(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.Encode(data)
}

func (p *Printer) jsonEncoder(pretty bool) *json.Encoder {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc
}

func (p *Printer) runQuery(query string, data interface{}, pretty bool) error {
	results, err := runQueryRaw(query, data)
	if err != nil {
		return err
	}
	enc := p.jsonEncoder(pretty)
	for _, v := range results {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuery reports whether query compiles as a jq program.
func ValidateQuery(query string) error {
	_, err := compileQuery(query)
	return err
}

func compileQuery(query string) (*gojq.Code, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, formatInvalidQueryErr(err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, formatInvalidQueryErr(err)
	}
	return code, nil
}

// runQueryRaw normalizes data to map/slice form, runs a gojq query, and
// collects every emitted value.
func runQueryRaw(query string, data interface{}) ([]interface{}, error) {
	code, err := compileQuery(query)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	var results []interface{}
	iter := code.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %s", safeErrorMessage(queryErr))
		}
		results = append(results, v)
	}
	return results, nil
}

func formatInvalidQueryErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unexpected eof") {
		return fmt.Errorf("invalid --query: %w\nHint: query looks incomplete; quote it fully", err)
	}
	return fmt.Errorf("invalid --query: %w", err)
}

// safeErrorMessage guards against gojq runtime errors whose Error method
// panics on some typed values.
func safeErrorMessage(err error) (msg string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	msg = strings.TrimSpace(err.Error())
	if msg == "" {
		return fmt.Sprintf("%T", err)
	}
	return msg
}
