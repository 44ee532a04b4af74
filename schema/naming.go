package schema

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	r := inflect.NewDefaultRuleset()
	for _, w := range []string{"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SKU", "SLA", "SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS"} {
		acronyms[w] = struct{}{}
		r.AddAcronym(w)
	}
	return r
}

// Pascal converts a column or table name to an exported Go identifier.
//
//	user_id   => UserID
//	createdAt => CreatedAt
//	api_key   => APIKey
func Pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, w := range words {
		if _, ok := acronyms[strings.ToUpper(w)]; ok {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(rules.Capitalize(w))
	}
	out := b.String()
	if out == "" || !unicode.IsLetter(rune(out[0])) {
		out = "X" + out
	}
	return out
}

// Singular returns the singular form of a table name.
func Singular(s string) string {
	return rules.Singularize(s)
}

// Snake converts a Go identifier to snake case.
func Snake(s string) string {
	return rules.Underscore(s)
}
