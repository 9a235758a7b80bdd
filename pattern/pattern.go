// Package pattern compiles step descriptions such as
//
//	I see $text and $moreText
//
// into anchored matchers that capture quoted-string or numeric literals in
// place of each $placeholder.
package pattern

import (
	"regexp"
	"strings"
)

// placeholderRE finds $name tokens. Names are word characters or hyphens.
var placeholderRE = regexp.MustCompile(`\$[\w-]+\b`)

// literalGroup captures one literal, quotes included. Alternatives are tried
// in order: single-quoted string, double-quoted string, number.
const literalGroup = `(` +
	`'(?:\\.|[^'])*'` + `|` +
	`"(?:\\.|[^"])*"` + `|` +
	`[-+]?[0-9]*\.?[0-9]+` +
	`)`

// literalRE finds literals anywhere in a concrete line.
var literalRE = regexp.MustCompile(literalGroup)

// Pattern is a compiled step description.
type Pattern struct {
	description  string
	placeholders []string
	re           *regexp.Regexp
}

// Compile turns a step description into a Pattern. Text outside placeholders
// is matched literally, so descriptions may contain regexp metacharacters.
func Compile(description string) *Pattern {
	var b strings.Builder
	var names []string

	b.WriteString("^")
	last := 0
	for _, loc := range placeholderRE.FindAllStringIndex(description, -1) {
		b.WriteString(regexp.QuoteMeta(description[last:loc[0]]))
		b.WriteString(literalGroup)
		names = append(names, description[loc[0]+1:loc[1]])
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(description[last:]))
	b.WriteString("$")

	return &Pattern{
		description:  description,
		placeholders: names,
		re:           regexp.MustCompile(b.String()),
	}
}

// Description returns the template the pattern was compiled from.
func (p *Pattern) Description() string {
	return p.description
}

// Placeholders returns the placeholder names in left-to-right order, without
// the leading $.
func (p *Pattern) Placeholders() []string {
	return append([]string(nil), p.placeholders...)
}

// Match reports whether line matches the whole pattern and returns the raw
// captured tokens in placeholder order. A match with no placeholders returns
// an empty, non-nil slice.
func (p *Pattern) Match(line string) ([]string, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return append([]string{}, m[1:]...), true
}

// Skeleton returns the description with every placeholder reduced to a bare
// "$", for comparison with LineSkeleton.
func (p *Pattern) Skeleton() string {
	return placeholderRE.ReplaceAllString(p.description, "$$")
}

// LineSkeleton returns line with every literal reduced to a bare "$".
func LineSkeleton(line string) string {
	return literalRE.ReplaceAllString(line, "$$")
}

// String returns the underlying regular expression, mostly for debugging.
func (p *Pattern) String() string {
	return p.re.String()
}
