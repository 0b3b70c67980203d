package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms and rules are filled once at init and only read afterwards.
var (
	acronyms = make(map[string]struct{})
	rules    = ruleset()
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DAL", "DNS", "EOF", "GB", "GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "MAC", "MB", "QPS", "RAM", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XSRF", "XSS"} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// words splits a CQL identifier into words, dropping any character that
// cannot appear in a Go identifier.
func words(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return isSeparator(r) || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return fields
}

// pascalWords converts the given words to PascalCase.
func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			// Casers are stateful, so each call gets its own.
			words[i] = cases.Title(language.Und, cases.NoLower).String(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given name into a PascalCase.
//
//	user_info => UserInfo
//	full-admin => FullAdmin
//	user_id => UserID
func pascal(s string) string {
	return pascalWords(words(s))
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	rs := []rune(s)
	for i, r := range rs {
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rs[i-1]) ||
				j != i-1 && unicode.IsLower(rs[i+1]) && unicode.IsLetter(rs[i-1]) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// receiver returns the receiver name of the given type.
//
//	[]T => t
//	OrderDAL => od
func receiver(s string) string {
	// Trim invalid tokens for identifier prefix.
	s = strings.Trim(s, "[]*&0123456789")
	parts := strings.Split(snake(s), "_")
	r := ""
	for _, w := range parts {
		if w != "" {
			r += w[:1]
		}
	}
	if r == "" {
		r = "v"
	}
	return builderField(r, reservedReceivers)
}

// singular returns the singular form of a table name.
//
//	orders => order
//	order_items => order_item
func singular(name string) string {
	if name == "" {
		return name
	}
	return rules.Singularize(name)
}

// goIdent returns an exported Go identifier for a CQL name.
func goIdent(name string) string {
	id := pascal(name)
	switch {
	case id == "":
		return "X"
	case !unicode.IsLetter([]rune(id)[0]):
		return "X" + id
	default:
		return id
	}
}

// builderField returns an unexported name for the given identifier that
// does not conflict with Go keywords or the reserved names.
func builderField(name string, reserved map[string]struct{}) string {
	if _, ok := reserved[name]; ok || token.Lookup(name).IsKeyword() {
		return "_" + name
	}
	return name
}

// names returns a set of the given identifiers.
func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}
