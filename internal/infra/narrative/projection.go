package narrative

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/star/internal/domain"
)

// Ensure Projection implements domain.KeyProjection.
var _ domain.KeyProjection = (*Projection)(nil)

// ErrNotMapping is returned when a structured source is not a key/value document.
var ErrNotMapping = errors.New("structured source must be a mapping of sections")

// Projection maps section maps and YAML documents onto domain.Fields.
//
// Structured sources look like:
//
//	situation: Server outages increased.
//	task: Reduce downtime.
//	action:
//	  items:
//	    - Add monitoring
//	    - Create runbook:
//	        - Draft
//	result:
//	  items:
//	    - Fewer incidents
//
// A list entry written as a single-key mapping becomes the text item
// followed by its nested list.
type Projection struct {
	Parser domain.IndentParser // used when an outline is given as a string
}

// NewProjection creates a Projection that parses string outlines with parser.
func NewProjection(parser domain.IndentParser) *Projection {
	return &Projection{Parser: parser}
}

// Project converts obj into Fields. Missing sections are left empty.
func (p *Projection) Project(obj any) (domain.Fields, error) {
	switch v := obj.(type) {
	case nil:
		return domain.Fields{}, nil
	case map[string]any:
		return p.projectMap(v)
	case string:
		return p.projectYAML(v)
	case []byte:
		return p.projectYAML(string(v))
	default:
		return domain.Fields{}, fmt.Errorf("unsupported source type %T", obj)
	}
}

func (p *Projection) projectYAML(text string) (domain.Fields, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Fields{}, nil
	}
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return domain.Fields{}, fmt.Errorf("parse structured source: %w", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return domain.Fields{}, ErrNotMapping
	}
	normalized := make(map[string]any, len(m))
	splitter := NewSplitter()
	for k, v := range m {
		normalized[splitter.NormalizeLabel(k)] = v
	}
	return p.projectMap(normalized)
}

func (p *Projection) projectMap(m map[string]any) (domain.Fields, error) {
	var fields domain.Fields
	var err error

	fields.Situation = scalarText(m[domain.SectionSituation])
	fields.Task = scalarText(m[domain.SectionTask])

	if fields.Action, err = p.items(m[domain.SectionAction]); err != nil {
		return domain.Fields{}, fmt.Errorf("action: %w", err)
	}
	if fields.Result, err = p.items(m[domain.SectionResult]); err != nil {
		return domain.Fields{}, fmt.Errorf("result: %w", err)
	}
	return fields, nil
}

// items accepts {items: X} or X itself.
func (p *Projection) items(v any) (domain.Outline, error) {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["items"]; ok {
			v = inner
		}
	}
	switch val := v.(type) {
	case nil:
		return domain.Outline{}, nil
	case domain.Outline:
		return val, nil
	case []any:
		return toOutline(val), nil
	case string:
		if p.Parser == nil {
			return domain.OutlineOf(strings.TrimSpace(val)), nil
		}
		return p.Parser.Parse(domain.PrepareOutlineBody(val), true)
	case map[string]any:
		return toOutline([]any{val}), nil
	default:
		return domain.OutlineOf(scalarText(val)), nil
	}
}

func toOutline(values []any) domain.Outline {
	out := make(domain.Outline, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case []any:
			out = append(out, domain.ListItem(toOutline(val)...))
		case map[string]any:
			keys := make([]string, 0, len(val))
			for k := range val {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				out = append(out, domain.TextItem(k))
				switch children := val[k].(type) {
				case []any:
					out = append(out, domain.ListItem(toOutline(children)...))
				case nil:
				default:
					out = append(out, domain.ListItem(domain.TextItem(scalarText(children))))
				}
			}
		default:
			out = append(out, domain.TextItem(scalarText(val)))
		}
	}
	return out
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
