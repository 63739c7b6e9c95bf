package lifecycle

import (
	"github.com/gradaid/gradaid-api/internal/domain"
)

// progressOf looks up the progress for a status. Callers validate the status first.
func progressOf(status domain.DocumentStatus, params *Params) int {
	return params.Progress[status]
}

// aggregate derives the automatic application status from its documents.
//
// Zero documents yields not_started while all-not_started yields draft. The
// two cases are intentionally distinct.
func aggregate(docStatuses []domain.DocumentStatus) domain.ApplicationStatus {
	if len(docStatuses) == 0 {
		return domain.ApplicationStatusNotStarted
	}

	for _, s := range docStatuses {
		if s != domain.DocumentStatusNotStarted {
			return domain.ApplicationStatusInProgress
		}
	}

	return domain.ApplicationStatusDraft
}

// completionPercent returns round(complete/total*100), or 0 for no documents.
func completionPercent(complete, total int) int {
	if total <= 0 {
		return 0
	}
	return (complete*200 + total) / (total * 2)
}
