package domain

// Outline is an ordered, arbitrarily nested sequence of text items.
// It is the shape the indentation parser produces and the shape trees are
// built from.
type Outline []OutlineItem

// OutlineItem is either a line of text or a nested outline.
type OutlineItem struct {
	Text  string
	Items Outline // non-nil marks a nested sequence
}

// TextItem returns a text outline item.
func TextItem(text string) OutlineItem {
	return OutlineItem{Text: text}
}

// ListItem returns a nested outline item.
func ListItem(items ...OutlineItem) OutlineItem {
	if items == nil {
		items = Outline{}
	}
	return OutlineItem{Items: items}
}

// IsList reports whether the item is a nested sequence.
func (i OutlineItem) IsList() bool {
	return i.Items != nil
}

// OutlineOf builds an outline from strings and nested []any values.
// Other values are ignored. It is a convenience for tests and for
// projections decoded from structured documents.
func OutlineOf(values ...any) Outline {
	out := make(Outline, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case string:
			out = append(out, TextItem(val))
		case []any:
			out = append(out, ListItem(OutlineOf(val...)...))
		case Outline:
			out = append(out, ListItem(val...))
		}
	}
	return out
}
