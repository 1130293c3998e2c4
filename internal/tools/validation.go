/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RequiredStringParam extracts a trimmed, non-empty string parameter.
// message is the error text used when it is missing.
func RequiredStringParam(args map[string]interface{}, name, message string) (string, error) {
	value, _ := args[name].(string)
	value = strings.TrimSpace(value)
	if value == "" {
		if message == "" {
			message = "Missing or invalid '" + name + "' argument"
		}
		return "", &ValidationError{Message: message}
	}
	return value, nil
}

// OptionalStringParam returns the trimmed string parameter, or defaultValue
// when it is absent or empty
func OptionalStringParam(args map[string]interface{}, name, defaultValue string) string {
	value, ok := args[name].(string)
	if !ok {
		return defaultValue
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}
	return value
}

// OptionalIntParam extracts an integer parameter. JSON numbers, integral
// floats and numeric strings are accepted.
func OptionalIntParam(args map[string]interface{}, name string, defaultValue int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, NewValidationError("Error: %s must be an integer", name)
		}
		f = n
	case string:
		if strings.TrimSpace(v) == "" {
			return defaultValue, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, NewValidationError("Error: %s must be an integer", name)
		}
		f = n
	default:
		return 0, NewValidationError("Error: %s must be an integer", name)
	}

	if f != math.Trunc(f) {
		return 0, NewValidationError("Error: %s must be an integer", name)
	}
	return int(f), nil
}

// TableListParam splits a comma separated table list. Names are trimmed and
// empty entries dropped; an absent or blank value yields nil.
func TableListParam(args map[string]interface{}, name string) []string {
	raw, _ := args[name].(string)
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}

// JSONObjectParam decodes a JSON object string parameter. An absent or blank
// value yields nil; anything other than a JSON object fails with message.
func JSONObjectParam(args map[string]interface{}, name, message string) (map[string]interface{}, error) {
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(v), &obj); err != nil || obj == nil {
			return nil, &ValidationError{Message: message}
		}
		return obj, nil
	default:
		return nil, &ValidationError{Message: message}
	}
}
