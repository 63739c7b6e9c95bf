package generation

import (
	"testing"

	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{
			name: "sop",
			req:  Request{DocumentType: domain.DocumentTypeSOP, UniversityID: "mit", ProgramID: "eecs-ms"},
		},
		{
			name: "lor with recommender",
			req: Request{
				DocumentType: domain.DocumentTypeLOR,
				UniversityID: "mit",
				ProgramID:    "eecs-ms",
				Recommender:  &domain.Recommender{Name: "Dr. Ada Lovelace", Email: "ada@example.edu"},
			},
		},
		{
			name:    "lor without recommender",
			req:     Request{DocumentType: domain.DocumentTypeLOR, UniversityID: "mit", ProgramID: "eecs-ms"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			req:     Request{DocumentType: "cv", UniversityID: "mit", ProgramID: "eecs-ms"},
			wantErr: true,
		},
		{
			name:    "missing program",
			req:     Request{DocumentType: domain.DocumentTypeSOP, UniversityID: "mit", ProgramID: "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUsageType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.CreditUsageSOPRequest, UsageType(domain.DocumentTypeSOP, false))
	assert.Equal(t, domain.CreditUsageSOPUpdate, UsageType(domain.DocumentTypeSOP, true))
	assert.Equal(t, domain.CreditUsageLORRequest, UsageType(domain.DocumentTypeLOR, false))
	assert.Equal(t, domain.CreditUsageLORUpdate, UsageType(domain.DocumentTypeLOR, true))
}
