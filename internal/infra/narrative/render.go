package narrative

import (
	"strings"

	"github.com/runoshun/star/internal/domain"
)

// Ensure Renderer implements domain.RecordRenderer.
var _ domain.RecordRenderer = Renderer{}

// Renderer writes records as heading-delimited documents.
type Renderer struct{}

// Render writes a record back as a heading-delimited document that
// imports into the same shape.
func (Renderer) Render(rec *domain.TaskRecord) string {
	var b strings.Builder
	writeSection(&b, "Situation", rec.Situation)
	writeSection(&b, "Task", rec.Task)
	writeOutlineSection(&b, "Action", rec.Actions().Outline())
	writeOutlineSection(&b, "Result", rec.Results().Outline())
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString("# " + title + "\n")
	if body != "" {
		b.WriteString(body + "\n")
	}
	b.WriteString("\n")
}

func writeOutlineSection(b *strings.Builder, title string, o domain.Outline) {
	b.WriteString("# " + title + "\n")
	writeOutline(b, o, 0)
	b.WriteString("\n")
}

func writeOutline(b *strings.Builder, o domain.Outline, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range o {
		if item.IsList() {
			writeOutline(b, item.Items, depth+1)
			continue
		}
		b.WriteString(indent + "* " + item.Text + "\n")
	}
}
