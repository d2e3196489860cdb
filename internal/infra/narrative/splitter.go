// Package narrative reads and writes heading-delimited STAR documents.
package narrative

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/runoshun/star/internal/domain"
)

// Ensure Splitter implements domain.HeadingSplitter.
var _ domain.HeadingSplitter = (*Splitter)(nil)

// headingPattern matches a markdown heading marker at the start of a line.
var headingPattern = regexp.MustCompile(`(?m)^#+[ \t]+`)

var spacePattern = regexp.MustCompile(`\s+`)

// labelAliases maps alternative heading names onto section names.
var labelAliases = map[string]string{
	"actions": domain.SectionAction,
	"results": domain.SectionResult,
}

// Splitter splits text on markdown headings.
type Splitter struct {
	lower cases.Caser
}

// NewSplitter creates a Splitter.
func NewSplitter() *Splitter {
	return &Splitter{lower: cases.Lower(language.Und)}
}

// Split returns normalized heading label -> body. Text before the first
// heading is discarded. A repeated heading replaces the earlier one.
func (s *Splitter) Split(text string) map[string]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	locs := headingPattern.FindAllStringIndex(text, -1)
	sections := make(map[string]string, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[1]:end]
		rawLabel, body, _ := strings.Cut(segment, "\n")
		label := s.NormalizeLabel(rawLabel)
		if label == "" {
			continue
		}
		sections[label] = body
	}
	return sections
}

// NormalizeLabel trims, lower-cases and joins a heading label with "_".
func (s *Splitter) NormalizeLabel(raw string) string {
	label := norm.NFC.String(strings.TrimSpace(raw))
	label = s.lower.String(label)
	label = spacePattern.ReplaceAllString(label, "_")
	if alias, ok := labelAliases[label]; ok {
		return alias
	}
	return label
}
