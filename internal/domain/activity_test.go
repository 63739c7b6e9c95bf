package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivity_TypeFollowsDetails(t *testing.T) {
	t.Parallel()

	docID := uuid.New()
	a, err := NewActivity(uuid.New(), "Status changed", DocumentStatusChanged{
		DocumentID: docID,
		OldStatus:  DocumentStatusNotStarted,
		NewStatus:  DocumentStatusComplete,
	})
	require.NoError(t, err)
	assert.Equal(t, ActivityDocumentStatusUpdate, a.Type)

	_, err = NewActivity(uuid.Nil, "x", CreditsUsed{})
	assert.ErrorIs(t, err, ErrEmptyActivityUserID)

	_, err = NewActivity(uuid.New(), "x", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeActivityDetails(t *testing.T) {
	t.Parallel()

	docID := uuid.New()
	appID := uuid.New()
	reset := time.Date(2026, 11, 17, 10, 0, 0, 0, time.UTC)

	details := []ActivityDetails{
		DocumentCreated{DocumentID: docID, ApplicationID: appID, DocumentType: DocumentTypeSOP},
		DocumentStatusChanged{DocumentID: docID, OldStatus: DocumentStatusDraft, NewStatus: DocumentStatusInReview},
		DocumentProgressChanged{DocumentID: docID, OldProgress: 33, NewProgress: 66},
		DocumentContentUpdated{DocumentID: docID, ContentLength: 1200},
		RecommenderUpdated{DocumentID: docID},
		AISuggestionRecorded{DocumentID: docID, SuggestionsCount: 3},
		ApplicationUpdated{ApplicationID: appID, OldStatus: ApplicationStatusDraft, NewStatus: ApplicationStatusInProgress},
		CreditsUsed{CreditsUsed: 50, RemainingCredits: 450},
		CreditsReset{TotalCredits: 500, ResetDate: reset},
	}

	for _, d := range details {
		t.Run(string(d.ActivityType()), func(t *testing.T) {
			raw, err := json.Marshal(d)
			require.NoError(t, err)

			decoded, err := DecodeActivityDetails(d.ActivityType(), raw)
			require.NoError(t, err)
			assert.Equal(t, d, decoded)
		})
	}
}

func TestDecodeActivityDetails_Errors(t *testing.T) {
	t.Parallel()

	_, err := DecodeActivityDetails(ActivityType("card_review"), []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownActivityType)

	_, err = DecodeActivityDetails(ActivityAIUsage, []byte(`{"creditsUsed":"many"}`))
	assert.Error(t, err)

	d, err := DecodeActivityDetails(ActivityLORUpdate, nil)
	require.NoError(t, err)
	assert.Equal(t, RecommenderUpdated{}, d)
}

func TestActivityMetadataUsesCamelCase(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(CreditsUsed{CreditsUsed: 10, RemainingCredits: 490})
	require.NoError(t, err)
	assert.JSONEq(t, `{"creditsUsed":10,"remainingCredits":490}`, string(raw))
}
