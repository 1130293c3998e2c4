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
	"testing"
)

func TestRequiredStringParam(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		wantValue string
		wantError bool
	}{
		{"valid", map[string]interface{}{"sql": "SELECT 1"}, "SELECT 1", false},
		{"trimmed", map[string]interface{}{"sql": "  SELECT 1 \n"}, "SELECT 1", false},
		{"missing", map[string]interface{}{}, "", true},
		{"blank", map[string]interface{}{"sql": "   "}, "", true},
		{"wrong type", map[string]interface{}{"sql": 42.0}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredStringParam(tt.args, "sql", "sql parameter is required")
			if (err != nil) != tt.wantError {
				t.Fatalf("error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil {
				if !IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if err.Error() != "sql parameter is required" {
					t.Errorf("unexpected message %q", err.Error())
				}
			}
			if got != tt.wantValue {
				t.Errorf("value = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestRequiredStringParamDefaultMessage(t *testing.T) {
	_, err := RequiredStringParam(nil, "query", "")
	if err == nil || err.Error() != "Missing or invalid 'query' argument" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestOptionalIntParam(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		want      int
		wantError bool
	}{
		{"absent", nil, 10, false},
		{"float", 5.0, 5, false},
		{"int", 7, 7, false},
		{"numeric string", "3", 3, false},
		{"empty string", "", 10, false},
		{"fraction", 2.5, 0, true},
		{"garbage", "many", 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{}
			if tt.value != nil {
				args["top_k"] = tt.value
			}
			got, err := OptionalIntParam(args, "top_k", 10)
			if (err != nil) != tt.wantError {
				t.Fatalf("error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTableListParam(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  []string
	}{
		{"absent", nil, nil},
		{"blank", "  ", nil},
		{"single", "docs", []string{"docs"}},
		{"trims and drops empties", " docs, faq ,,notes ", []string{"docs", "faq", "notes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TableListParam(map[string]interface{}{"tables": tt.value}, "tables")
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestJSONObjectParam(t *testing.T) {
	const msg = "Invalid JSON format for filter parameter"

	got, err := JSONObjectParam(map[string]interface{}{"filter": `{"term": {"lang": "en"}}`}, "filter", msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["term"]; !ok {
		t.Errorf("expected term key, got %v", got)
	}

	got, err = JSONObjectParam(map[string]interface{}{}, "filter", msg)
	if err != nil || got != nil {
		t.Errorf("expected nil, nil for absent parameter, got %v, %v", got, err)
	}

	for _, bad := range []interface{}{"{bad", "[1,2]", "null", 12.0} {
		_, err := JSONObjectParam(map[string]interface{}{"filter": bad}, "filter", msg)
		if err == nil || err.Error() != msg {
			t.Errorf("value %v: expected %q, got %v", bad, msg, err)
		}
	}
}

func TestConfigOptionsParam(t *testing.T) {
	if got := configOptionsParam(map[string]interface{}{}); got != "{}" {
		t.Errorf("expected {}, got %q", got)
	}
	if got := configOptionsParam(map[string]interface{}{"config_options": ""}); got != "{}" {
		t.Errorf("expected {} for blank string, got %q", got)
	}
	got := configOptionsParam(map[string]interface{}{"config_options": map[string]interface{}{"pool_size": 5.0}})
	if got != `{"pool_size":5}` {
		t.Errorf("unexpected encoding %q", got)
	}
}
