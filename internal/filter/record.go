package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SelectAll is the wildcard field name that matches every record of
// the configured type.
const SelectAll = "all"

// Field is a single parsed name/value pair from a record's value.
// Values are compared as strings regardless of their JSON type.
type Field struct {
	Name  string
	Value string
}

// Selector is the filter criterion: either the "all" wildcard or an
// exact field/value equality check.
type Selector struct {
	Field string
	Value string
}

// All reports whether the selector is the wildcard.
func (s Selector) All() bool {
	return s.Field == SelectAll
}

// Matches checks an ordered list of parsed fields against the
// selector. Only the first field with the requested name is
// consulted; later duplicates are ignored.
func (s Selector) Matches(fields []Field) bool {
	if s.All() {
		return true
	}
	for _, f := range fields {
		if f.Name == s.Field {
			return f.Value == s.Value
		}
	}
	return false
}

// Match is one record that passed the type and field filters.
type Match struct {
	Key   string
	Value string
}

// ParseFields extracts the ordered field list from a record value.
// Values are JSON objects written by the task state manager, so the
// primary path decodes tokens in document order, which keeps the
// first occurrence of a duplicated field name. Anything that is not a
// JSON object falls back to the legacy comma/colon form.
func ParseFields(raw string) []Field {
	fields, err := parseJSONFields(raw)
	if err != nil {
		return parseLooseFields(raw)
	}
	return fields
}

func parseJSONFields(raw string) ([]Field, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("record value is not a JSON object")
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in record value", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: fieldText(value)})
	}
	return fields, nil
}

// fieldText renders a decoded JSON value the way it is written on the
// command line: strings unquoted, scalars as their literal text, and
// composite values as compact JSON. Composite values pass through a
// Go map before re-encoding, so their object keys come out sorted
// regardless of document order; a selector value for a composite
// field must be written as compact JSON with sorted keys.
func fieldText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// parseLooseFields handles records written before the state manager
// produced valid JSON: strip quote and brace characters, split the
// remainder on commas, and split each pair on the first colon.
func parseLooseFields(raw string) []Field {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '{', '}':
			return -1
		}
		return r
	}, raw)

	var fields []Field
	for _, pair := range strings.Split(stripped, ",") {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		fields = append(fields, Field{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return fields
}

// typeTag returns the substring of a key before the first colon. Keys
// without a colon have no tag and never match a record type.
func typeTag(key string) string {
	tag, _, ok := strings.Cut(key, ":")
	if !ok {
		return ""
	}
	return tag
}
