// Package eml reads RFC 822 style messages well enough to print them:
// a folded header block, a blank line and a body.
package eml

import (
	"regexp"
	"strings"

	"pdfmerge/internal/errors"
)

// ErrNoHeaders is returned when the input has no "field: value" header.
var ErrNoHeaders = errors.New("no message headers found")

// Message is a parsed message.
type Message struct {
	headers map[string]string
	order   []string
	Body    string
}

// Header returns the first value of the named field, case-insensitively.
func (m *Message) Header(name string) string {
	return m.headers[strings.ToLower(name)]
}

// Fields returns header names in the order they first appeared.
func (m *Message) Fields() []string {
	return append([]string(nil), m.order...)
}

// Parse splits raw into headers and body. Continuation lines starting
// with a space or tab are folded into the previous header. Lines in the
// header block without a colon are ignored. The body is cleaned with
// CleanBody.
func Parse(raw string) (*Message, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	head, body, _ := strings.Cut(raw, "\n\n")

	m := &Message{headers: map[string]string{}}
	last := ""
	for _, line := range strings.Split(head, "\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && last != "" {
			m.headers[last] += " " + strings.TrimSpace(line)
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			last = ""
			continue
		}
		key := strings.ToLower(name)
		if _, seen := m.headers[key]; seen {
			// Keep the first occurrence; later duplicates are ignored.
			last = ""
			continue
		}
		m.headers[key] = strings.TrimSpace(value)
		m.order = append(m.order, name)
		last = key
	}
	if len(m.order) == 0 {
		return nil, ErrNoHeaders
	}
	m.Body = CleanBody(body)
	return m, nil
}

var (
	softBreak = regexp.MustCompile(`=\n`)
	qpEscape  = regexp.MustCompile(`=[0-9A-Fa-f]{2}`)
	spaceRun  = regexp.MustCompile(`\s+`)
)

// CleanBody removes quoted-printable soft line breaks and =XX escape
// sequences (they are dropped, not decoded) and collapses every
// whitespace run, newlines included, to a single space.
func CleanBody(body string) string {
	body = softBreak.ReplaceAllString(body, "")
	body = qpEscape.ReplaceAllString(body, "")
	body = spaceRun.ReplaceAllString(body, " ")
	return strings.TrimSpace(body)
}
