// Package shared provides shared utilities for use cases.
package shared

import (
	"fmt"

	"github.com/runoshun/star/internal/domain"
)

// LoadRecord loads the record at path, wrapping the repository error.
func LoadRecord(repo domain.RecordRepository, path string) (*domain.TaskRecord, error) {
	rec, err := repo.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	return rec, nil
}

// Target is a node that can record status events.
type Target interface {
	Record(label domain.EventLabel) domain.EventEntry
}

// ResolveTarget maps a reference onto the record itself or an action leaf.
//
// A reference is empty (the record), the record identity, a 1-based
// dotted action path such as "2.1", or an action leaf identity.
// Result items never take status events and yield domain.ErrResultStatus.
func ResolveTarget(rec *domain.TaskRecord, ref string) (Target, string, error) {
	if ref == "" || ref == rec.ID() {
		return rec, "", nil
	}

	if path, err := domain.ParsePath(ref); err == nil {
		n, ok := rec.Actions().AtPath(path)
		if !ok {
			return nil, "", fmt.Errorf("action %s: %w", ref, domain.ErrNodeNotFound)
		}
		leaf, ok := n.AsLeaf()
		if !ok {
			return nil, "", fmt.Errorf("action %s is a list, not an item: %w", ref, domain.ErrInvalidRef)
		}
		return leaf, leaf.Text(), nil
	}

	if leaf, ok := rec.Actions().Find(ref); ok {
		return leaf, leaf.Text(), nil
	}
	if _, ok := rec.Results().Find(ref); ok {
		return nil, "", fmt.Errorf("%s: %w", ref, domain.ErrResultStatus)
	}
	return nil, "", fmt.Errorf("%s: %w", ref, domain.ErrNodeNotFound)
}

// Row is one line of a flattened tree.
// Fields are ordered to minimize memory padding.
type Row struct {
	Status    domain.EventEntry // Latest event (zero when none)
	Path      string            // 1-based dotted path
	ID        string
	Text      string // Item text (empty for lists)
	Depth     int    // Nesting depth, 0 for top-level items
	IsList    bool
	HasStatus bool
}

// Rows flattens a tree depth first.
func Rows(b *domain.Branch) []Row {
	var rows []Row
	b.Walk(func(path []int, n domain.Node) {
		row := Row{
			Path:  domain.FormatPath(path),
			ID:    n.ID(),
			Depth: len(path) - 1,
		}
		if leaf, ok := n.AsLeaf(); ok {
			row.Text = leaf.Text()
			row.Status, row.HasStatus = leaf.Status()
		} else {
			row.IsList = true
		}
		rows = append(rows, row)
	})
	return rows
}
