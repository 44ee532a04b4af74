package gen

import (
	"strconv"
	"strings"
)

// Properties holds the flat key/value configuration of one plugin.
type Properties map[string]string

// Get returns the trimmed value of key.
func (p Properties) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// GetOr returns the value of key or def when it is empty.
func (p Properties) GetOr(key, def string) string {
	if v := p.Get(key); v != "" {
		return v
	}
	return def
}

// Require checks that every key is set, in order, and reports the first
// missing one.
func (p Properties) Require(plugin string, keys ...string) error {
	for _, k := range keys {
		if p.Get(k) == "" {
			return &MissingPropertyError{Property: k, Plugin: plugin}
		}
	}
	return nil
}

// List splits a comma or whitespace separated value.
func (p Properties) List(key string) []string {
	return strings.FieldsFunc(p[key], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Int64 parses key as an integer, returning def when it is empty.
func (p Properties) Int64(key string, def int64) (int64, error) {
	v := p.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, NewConfigError(key, v, "not an integer")
	}
	return n, nil
}
