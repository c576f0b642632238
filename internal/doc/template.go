// Package doc holds document templates with {{variable}} placeholders
// and exporters for rendered documents.
package doc

import (
	"sort"
	"strings"
)

// Template is a named document skeleton. The body contains
// {{variable}} placeholders filled in at render time.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Body        string `yaml:"body"`
}

// Variables returns the sorted set of placeholder names in the body.
func (t *Template) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	scanPlaceholders(t.Body, func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	sort.Strings(names)
	return names
}

// Render substitutes placeholders with the given values. Placeholders
// without a value are left intact and reported in missing, so callers
// can prompt for them.
func (t *Template) Render(vars map[string]string) (body string, missing []string) {
	seen := make(map[string]bool)
	var sb strings.Builder

	rest := t.Body
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			sb.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			sb.WriteString(rest)
			break
		}

		name := strings.TrimSpace(rest[start+2 : start+end])
		if value, ok := vars[name]; ok && isIdent(name) {
			sb.WriteString(rest[:start])
			sb.WriteString(value)
		} else {
			sb.WriteString(rest[:start+end+2])
			if isIdent(name) && !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
		rest = rest[start+end+2:]
	}

	sort.Strings(missing)
	return sb.String(), missing
}

func scanPlaceholders(body string, fn func(name string)) {
	rest := body
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			return
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			return
		}
		name := strings.TrimSpace(rest[start+2 : start+end])
		if isIdent(name) {
			fn(name)
		}
		rest = rest[start+end+2:]
	}
}

// isIdent keeps placeholder parsing strict: letters, digits and
// underscores only, no empty names. Anything else (say, literal JSON
// braces in a template body) passes through untouched.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
