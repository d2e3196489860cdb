// Package outline parses indented text into nested outlines.
package outline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/runoshun/star/internal/domain"
)

// Ensure Parser implements domain.IndentParser.
var _ domain.IndentParser = (*Parser)(nil)

// ErrMixedIndent is returned when a line indents with both tabs and spaces.
var ErrMixedIndent = errors.New("line indented with both tabs and spaces")

// DefaultTabWidth is the number of columns a leading tab counts for.
const DefaultTabWidth = 2

// Parser builds outlines from indentation.
//
// Lines at the same indentation are siblings. A run of lines indented
// deeper than the line before it becomes a nested outline placed right
// after that line, so
//
//	A
//	  B
//	  C
//	D
//
// parses to ["A", ["B", "C"], "D"].
type Parser struct {
	TabWidth int
}

// New creates a Parser with the default tab width.
func New() *Parser {
	return &Parser{TabWidth: DefaultTabWidth}
}

type line struct {
	text   string
	indent int
}

// Parse builds the outline for text.
func (p *Parser) Parse(text string, normalize bool) (domain.Outline, error) {
	if !utf8.ValidString(text) {
		return nil, errors.New("outline text is not valid UTF-8")
	}
	lines, err := p.scan(text, normalize)
	if err != nil {
		return nil, err
	}
	if normalize {
		dedent(lines)
	}
	out, _ := build(lines, 0, 0)
	return out, nil
}

func (p *Parser) scan(text string, normalize bool) ([]line, error) {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]line, 0, len(raw))
	for i, r := range raw {
		if strings.TrimSpace(r) == "" {
			if normalize {
				continue
			}
			lines = append(lines, line{})
			continue
		}
		indent, err := p.measure(r)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		body := strings.TrimLeft(r, " \t")
		if normalize {
			body = strings.TrimRight(body, " \t")
		}
		lines = append(lines, line{indent: indent, text: body})
	}
	return lines, nil
}

func (p *Parser) measure(s string) (int, error) {
	width := p.TabWidth
	if width <= 0 {
		width = DefaultTabWidth
	}
	n := 0
	sawTab, sawSpace := false, false
	for _, r := range s {
		switch r {
		case ' ':
			sawSpace = true
			n++
		case '\t':
			sawTab = true
			n += width
		default:
			if sawTab && sawSpace {
				return 0, ErrMixedIndent
			}
			return n, nil
		}
	}
	return n, nil
}

// dedent shifts all lines so the shallowest one sits at column zero.
func dedent(lines []line) {
	if len(lines) == 0 {
		return
	}
	lowest := lines[0].indent
	for _, l := range lines[1:] {
		lowest = min(lowest, l.indent)
	}
	for i := range lines {
		lines[i].indent -= lowest
	}
}

// build consumes lines at indentation >= base starting at i and returns
// the outline for that level plus the index of the first unconsumed line.
func build(lines []line, i, base int) (domain.Outline, int) {
	out := domain.Outline{}
	for i < len(lines) {
		l := lines[i]
		switch {
		case l.indent < base:
			return out, i
		case l.indent == base:
			out = append(out, domain.TextItem(l.text))
			i++
		default:
			var nested domain.Outline
			nested, i = build(lines, i, l.indent)
			out = append(out, domain.ListItem(nested...))
		}
	}
	return out, i
}
