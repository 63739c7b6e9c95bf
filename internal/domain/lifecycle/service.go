// Package lifecycle holds the pure rules of the application lifecycle:
// how document status maps to progress and how document statuses roll up
// into an application status. It performs no I/O.
package lifecycle

import (
	"errors"

	"github.com/gradaid/gradaid-api/internal/domain"
)

// Common errors
var (
	ErrNilParams = errors.New("lifecycle params cannot be nil")
)

// Service defines the interface for lifecycle rule evaluation.
type Service interface {
	// ProgressOf returns the progress percentage for a document status.
	ProgressOf(status domain.DocumentStatus) (int, error)

	// CanTransition reports whether a document may move from one status to another.
	// Document transitions are unrestricted: any valid status may follow any other.
	CanTransition(from, to domain.DocumentStatus) error

	// AggregateApplicationStatus computes the status an application should have
	// given its documents. Terminal statuses are returned unchanged. The bool
	// reports whether the result differs from current.
	AggregateApplicationStatus(
		current domain.ApplicationStatus,
		docStatuses []domain.DocumentStatus,
	) (domain.ApplicationStatus, bool)

	// CompletionPercent returns the share of complete documents, rounded to a whole percent.
	CompletionPercent(docStatuses []domain.DocumentStatus) (complete, total, percent int)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new lifecycle service with the standard progress table.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new lifecycle service with a custom progress table.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrNilParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// ProgressOf implements Service.
func (s *defaultService) ProgressOf(status domain.DocumentStatus) (int, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidDocumentStatus
	}
	return progressOf(status, s.params), nil
}

// CanTransition implements Service.
func (s *defaultService) CanTransition(from, to domain.DocumentStatus) error {
	if !from.Valid() || !to.Valid() {
		return domain.ErrInvalidDocumentStatus
	}
	return nil
}

// AggregateApplicationStatus implements Service.
func (s *defaultService) AggregateApplicationStatus(
	current domain.ApplicationStatus,
	docStatuses []domain.DocumentStatus,
) (domain.ApplicationStatus, bool) {
	if current.IsTerminal() {
		return current, false
	}

	target := aggregate(docStatuses)
	return target, target != current
}

// CompletionPercent implements Service.
func (s *defaultService) CompletionPercent(docStatuses []domain.DocumentStatus) (int, int, int) {
	complete := 0
	for _, st := range docStatuses {
		if st == domain.DocumentStatusComplete {
			complete++
		}
	}
	return complete, len(docStatuses), completionPercent(complete, len(docStatuses))
}
