package lifecycle

import (
	"fmt"

	"github.com/gradaid/gradaid-api/internal/domain"
)

// Params defines the configurable parts of the document lifecycle.
type Params struct {
	// Progress maps every document status to its completion percentage.
	Progress map[domain.DocumentStatus]int
}

// NewDefaultParams creates a new Params instance with the standard progress table.
func NewDefaultParams() *Params {
	return &Params{
		Progress: map[domain.DocumentStatus]int{
			domain.DocumentStatusNotStarted: 0,
			domain.DocumentStatusDraft:      33,
			domain.DocumentStatusInReview:   66,
			domain.DocumentStatusComplete:   100,
		},
	}
}

// Validate checks that the progress table is total over the known document
// statuses and that every value lies in 0..100.
func (p *Params) Validate() error {
	for _, status := range DocumentStatuses() {
		v, ok := p.Progress[status]
		if !ok {
			return fmt.Errorf("%w: no progress value for %s", domain.ErrInvalidProgress, status)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s maps to %d", domain.ErrInvalidProgress, status, v)
		}
	}
	return nil
}

// DocumentStatuses lists the document statuses in editing order.
func DocumentStatuses() []domain.DocumentStatus {
	return []domain.DocumentStatus{
		domain.DocumentStatusNotStarted,
		domain.DocumentStatusDraft,
		domain.DocumentStatusInReview,
		domain.DocumentStatusComplete,
	}
}
