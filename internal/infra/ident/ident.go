// Package ident provides time-ordered node identities.
package ident

import (
	"github.com/google/uuid"

	"github.com/runoshun/star/internal/domain"
)

// Ensure Generator implements domain.IDGenerator.
var _ domain.IDGenerator = Generator{}

// Generator produces UUIDv7 identities.
//
// UUIDv7 carries a millisecond timestamp in its most significant bits
// followed by a counter that keeps ids monotonic within one process, so
// ids created in a tight loop still sort by creation and never collide.
type Generator struct{}

// NewID returns a new hyphenated UUIDv7 string.
func (Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
