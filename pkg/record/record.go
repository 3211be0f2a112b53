package record

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RawRecord is one ordered row as produced by a row source: the name first and
// an optional identifier second. Extra trailing fields are ignored.
type RawRecord []string

// Name returns the first field or "" when the record is empty.
func (r RawRecord) Name() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Identifier returns the second field when present.
func (r RawRecord) Identifier() (string, bool) {
	if len(r) < 2 {
		return "", false
	}
	return r[1], true
}

// CanonicalRecord is a validated recipient ready for compositing. An empty
// DisplayID means the record carries no identifier.
type CanonicalRecord struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	DisplayID   string `json:"displayId,omitempty" yaml:"displayId,omitempty"`
}

// HasID reports whether the identifier suffix should be rendered.
func (c CanonicalRecord) HasID() bool {
	return c.DisplayID != ""
}

// Text returns the string drawn onto the template: the display name, followed
// by the identifier in parentheses when one is present.
func (c CanonicalRecord) Text() string {
	if !c.HasID() {
		return c.DisplayName
	}
	return c.DisplayName + " (" + c.DisplayID + ")"
}

// Batch is the ordered input of one pipeline run. IncludeIdentifier is decided
// once for the whole batch and never re-derived per record.
type Batch struct {
	Records           []RawRecord
	IncludeIdentifier bool
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Records)
}

// Normalize validates a raw record and derives its canonical form.
func Normalize(raw RawRecord, includeIdentifier bool) (CanonicalRecord, error) {
	name := TitleCase(raw.Name())
	if name == "" {
		return CanonicalRecord{}, &ValidationError{Reason: ErrEmptyName}
	}

	out := CanonicalRecord{DisplayName: name}
	if !includeIdentifier {
		return out, nil
	}
	if id, ok := raw.Identifier(); ok {
		out.DisplayID = strings.ToUpper(strings.TrimSpace(id))
	}
	return out, nil
}

// TitleCase capitalises the first letter of every whitespace-delimited token,
// lower-cases the rest and joins the tokens with single spaces.
func TitleCase(value string) string {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return ""
	}
	for i, token := range tokens {
		tokens[i] = capitalize(token)
	}
	return strings.Join(tokens, " ")
}

func capitalize(token string) string {
	first, size := utf8.DecodeRuneInString(token)
	if first == utf8.RuneError && size <= 1 {
		return strings.ToLower(token)
	}
	return string(unicode.ToTitle(first)) + strings.ToLower(token[size:])
}
