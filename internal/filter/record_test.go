package filter

import (
	"reflect"
	"testing"
)

func TestParseFieldsJSON(t *testing.T) {
	raw := `{"id": "abc", "status": "done", "run_time": 12.5, "successful": true, "group_id": null}`

	got := ParseFields(raw)
	want := []Field{
		{Name: "id", Value: "abc"},
		{Name: "status", Value: "done"},
		{Name: "run_time", Value: "12.5"},
		{Name: "successful", Value: "true"},
		{Name: "group_id", Value: "null"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFields() = %v, want %v", got, want)
	}
}

func TestParseFieldsKeepsDuplicateOrder(t *testing.T) {
	raw := `{"status": "done", "id": "abc", "status": "failed"}`

	got := ParseFields(raw)
	want := []Field{
		{Name: "status", Value: "done"},
		{Name: "id", Value: "abc"},
		{Name: "status", Value: "failed"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFields() = %v, want %v", got, want)
	}
}

func TestParseFieldsCompositeValue(t *testing.T) {
	raw := `{"saved_paths": ["/tmp/a", "/tmp/b"], "config": {"debug": true, "batch": 5}}`

	got := ParseFields(raw)
	// Nested object keys re-encode in sorted order, not document
	// order.
	want := []Field{
		{Name: "saved_paths", Value: `["/tmp/a","/tmp/b"]`},
		{Name: "config", Value: `{"batch":5,"debug":true}`},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFields() = %v, want %v", got, want)
	}
}

func TestParseFieldsLooseFallback(t *testing.T) {
	// Pre-JSON records: quoted pairs with surrounding braces.
	raw := `{'id': 'abc', 'status': 'done'}`

	got := ParseFields(raw)
	want := []Field{
		{Name: "id", Value: "abc"},
		{Name: "status", Value: "done"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFields() = %v, want %v", got, want)
	}
}

func TestSelectorMatches(t *testing.T) {
	fields := []Field{
		{Name: "id", Value: "abc"},
		{Name: "status", Value: "done"},
		{Name: "status", Value: "failed"},
	}

	tests := []struct {
		name string
		sel  Selector
		want bool
	}{
		{"wildcard", Selector{Field: "all"}, true},
		{"exact match", Selector{Field: "id", Value: "abc"}, true},
		{"wrong value", Selector{Field: "id", Value: "xyz"}, false},
		{"missing field", Selector{Field: "requester", Value: "abc"}, false},
		{"first duplicate wins", Selector{Field: "status", Value: "done"}, true},
		{"later duplicate ignored", Selector{Field: "status", Value: "failed"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(fields); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeTag(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"TurbiniaTask:abc", "TurbiniaTask"},
		{"TurbiniaTask:abc:def", "TurbiniaTask"},
		{"TurbiniaEvidence:123", "TurbiniaEvidence"},
		{"notag", ""},
		{":empty", ""},
	}

	for _, tt := range tests {
		if got := typeTag(tt.key); got != tt.want {
			t.Errorf("typeTag(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
