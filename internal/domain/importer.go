package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Section names produced by a HeadingSplitter.
const (
	SectionSituation = "situation"
	SectionTask      = "task"
	SectionAction    = "action"
	SectionResult    = "result"
)

// bulletPattern matches one leading "*" or "+" bullet, keeping the indent.
var bulletPattern = regexp.MustCompile(`(?m)^([ \t]*)[*+] `)

// Importer converts narrative text into a TaskRecord.
// Fields are ordered to minimize memory padding.
type Importer struct {
	Loader     SourceLoader
	Splitter   HeadingSplitter
	Parser     IndentParser
	Projection KeyProjection
	IDs        IDGenerator
	Clock      Clock
	Logger     Logger
}

// Import reads the locator and builds a new record.
func (im *Importer) Import(ctx context.Context, locator string) (*TaskRecord, SourceMeta, error) {
	text, meta, err := im.Loader.Read(ctx, locator)
	if err != nil {
		return nil, SourceMeta{}, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	rec, err := im.ImportText(text)
	if err != nil {
		return nil, meta, err
	}
	return rec, meta, nil
}

// ImportText builds a new record from text already in memory.
func (im *Importer) ImportText(text string) (*TaskRecord, error) {
	fields, err := im.project(text)
	if err != nil {
		return nil, err
	}

	rec := NewTaskRecord(im.IDs.NewID(), im.Clock)
	rec.Situation = fields.Situation
	rec.Task = fields.Task
	b := rec.Builder(im.IDs)
	rec.SetTrees(b.Build(KindAction, fields.Action), b.Build(KindResult, fields.Result))

	im.logger().Debug(rec.ID(), "import", fmt.Sprintf("imported %d action(s), %d result(s)",
		len(rec.Actions().Leaves()), len(rec.Results().Leaves())))
	return rec, nil
}

func (im *Importer) project(text string) (Fields, error) {
	if !startsWithHeading(text) {
		fields, err := im.Projection.Project(text)
		if err != nil {
			return Fields{}, fmt.Errorf("project structured source: %w", err)
		}
		return fields, nil
	}

	sections := im.Splitter.Split(text)
	obj := make(map[string]any, len(sections))
	for label, body := range sections {
		switch label {
		case SectionAction, SectionResult:
			outline, err := im.Parser.Parse(PrepareOutlineBody(body), true)
			if err != nil {
				return Fields{}, fmt.Errorf("parse %s outline: %w", label, err)
			}
			obj[label] = map[string]any{"items": outline}
		default:
			obj[label] = strings.TrimSpace(body)
		}
	}

	fields, err := im.Projection.Project(obj)
	if err != nil {
		return Fields{}, fmt.Errorf("project sections: %w", err)
	}
	return fields, nil
}

func (im *Importer) logger() Logger {
	if im.Logger == nil {
		return NopLogger{}
	}
	return im.Logger
}

// startsWithHeading reports whether the first non-whitespace rune is '#'.
func startsWithHeading(text string) bool {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	return strings.HasPrefix(trimmed, "#")
}

// PrepareOutlineBody strips the blank margin around an outline body and
// one level of "*"/"+" bullets per line, keeping indentation.
func PrepareOutlineBody(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	trimmed := strings.Join(lines[start:end], "\n")
	return bulletPattern.ReplaceAllString(trimmed, "$1")
}
