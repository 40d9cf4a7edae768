package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoJSON is returned by ParseAs when a complex target type is requested
// and content holds nothing that could be decoded into it.
var ErrNoJSON = errors.New("no JSON document found")

// ParseAs parses content into T.
//
// Primitive targets (string, bool, integers, floats) are converted with
// strconv, accepting a {"type":..,"value":..} envelope around the value.
// Structs, maps and slices are decoded from the JSON embedded in content:
// each candidate span and the ```json fence are tried in order with strict
// parsing, then again after jsonrepair, then the truncated remainder of the
// text is repaired. A candidate of the wrong shape is coerced where the
// intent is clear (a one-element array for a struct, a lone object for a
// slice), and schema envelopes are unwrapped recursively.
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//
//	person, err := parse.ParseAs[Person]("Here you go:\n{name: 'John', age: 30}")
//	count, err := parse.ParseAs[int](`{"type": "integer", "value": 42}`)
func ParseAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := parsePrimitive(content, strconv.ParseBool)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := parsePrimitive(content, func(s string) (float64, error) {
			return strconv.ParseFloat(s, target.Type().Bits())
		})
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := parsePrimitive(content, func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, target.Type().Bits())
		})
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := parsePrimitive(content, func(s string) (uint64, error) {
			return strconv.ParseUint(s, 10, target.Type().Bits())
		})
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(val)
		return result, nil
	}

	documents := Candidates(content)
	if interior, ok := Fenced(content); ok {
		documents = append(documents, interior)
	}

	for _, doc := range documents {
		if value, err := decodeInto[T](doc); err == nil {
			return value, nil
		}
	}

	var lastErr error
	if rest, ok := tail(content); ok {
		documents = append(documents, rest)
	}
	for _, doc := range documents {
		fixed, err := jsonrepair.JSONRepair(doc)
		if err != nil {
			lastErr = fmt.Errorf("failed to repair JSON: %w", err)
			continue
		}
		value, err := decodeInto[T](fixed)
		if err == nil {
			return value, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		return result, fmt.Errorf("parse content as %T: %w", result, ErrNoJSON)
	}
	return result, fmt.Errorf("failed to unmarshal content as %T: %w (original content: %s)", result, lastErr, strings.TrimSpace(content))
}

// parsePrimitive converts content with convert, retrying on the value of a
// schema envelope.
func parsePrimitive[V any](content string, convert func(string) (V, error)) (V, error) {
	content = strings.TrimSpace(content)
	val, err := convert(content)
	if err == nil {
		return val, nil
	}
	if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
		if val, unwrappedErr := convert(unwrapped); unwrappedErr == nil {
			return val, nil
		}
	}
	return val, err
}

// decodeInto unmarshals doc into a fresh T, then retries with a coerced shape
// and with schema envelopes unwrapped.
func decodeInto[T any](doc string) (T, error) {
	var result T
	err := json.Unmarshal([]byte(doc), &result)
	if err == nil {
		return result, nil
	}

	if coerced, ok := coerceShape(doc, reflect.TypeFor[T]()); ok {
		var retry T
		if json.Unmarshal([]byte(coerced), &retry) == nil {
			return retry, nil
		}
	}

	if unwrapped, unwrapErr := unwrapSchemaValues(doc); unwrapErr == nil {
		var retry T
		if json.Unmarshal([]byte(unwrapped), &retry) == nil {
			return retry, nil
		}
	}

	var zero T
	return zero, err
}

// coerceShape adapts doc to target when the model produced an array for a
// single value or a single value for an array.
func coerceShape(doc string, target reflect.Type) (string, bool) {
	for target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	trimmed := strings.TrimSpace(doc)

	switch target.Kind() {
	case reflect.Struct, reflect.Map:
		if !strings.HasPrefix(trimmed, "[") {
			return "", false
		}
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &elements); err != nil || len(elements) == 0 {
			return "", false
		}
		return string(elements[0]), true
	case reflect.Slice, reflect.Array:
		if !strings.HasPrefix(trimmed, "{") {
			return "", false
		}
		return "[" + trimmed + "]", true
	}
	return "", false
}

// tryUnwrapPrimitive returns the value of a {"type":..,"value":..} envelope
// as a string.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	value, ok := envelopeValue(data)
	if !ok {
		return "", errors.New("not a schema-wrapped value")
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// envelopeValue reports the value of data when it is exactly a
// {"type": .., "value": ..} pair.
func envelopeValue(data map[string]any) (any, bool) {
	if len(data) != 2 {
		return nil, false
	}
	if _, hasType := data["type"]; !hasType {
		return nil, false
	}
	value, hasValue := data["value"]
	return value, hasValue
}

// unwrapSchemaValues replaces every {"type":..,"value":..} envelope in doc
// with its value.
//
//	{"name": {"type": "string", "value": "John"}, "age": {"type": "integer", "value": 30}}
//
// becomes
//
//	{"name": "John", "age": 30}
func unwrapSchemaValues(doc string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return "", err
	}
	encoded, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := envelopeValue(v); ok {
			return recursiveUnwrap(value)
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
