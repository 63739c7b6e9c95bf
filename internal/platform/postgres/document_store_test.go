package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentRowColumns = []string{
	"id", "application_id", "user_id", "type", "title", "status", "progress", "content",
	"recommender_name", "recommender_email", "last_edited", "ai_suggestions_count",
}

func TestPostgresDocumentStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresDocumentStore(db, nil)

	doc, err := domain.NewApplicationDocument(uuid.New(), uuid.New(), domain.DocumentTypeSOP)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO application_documents`).
		WithArgs(doc.ID, doc.ApplicationID, doc.UserID, "sop", "Statement of Purpose", "not_started", 0, "",
			nil, nil, doc.LastEdited, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), doc))
}

func TestPostgresDocumentStore_CreateMultiple_ValidatesFirst(t *testing.T) {
	db, _ := newMock(t)
	s := NewPostgresDocumentStore(db, nil)

	good, err := domain.NewApplicationDocument(uuid.New(), uuid.New(), domain.DocumentTypeSOP)
	require.NoError(t, err)
	bad := *good
	bad.Type = "cv"

	// No INSERT is expected: the invalid document is rejected up front.
	err = s.CreateMultiple(context.Background(), []*domain.ApplicationDocument{good, &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
}

func TestPostgresDocumentStore_GetByID(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresDocumentStore(db, nil)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM application_documents WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(id.String(), uuid.New().String(), uuid.New().String(), "lor", "Letter of Recommendation", "draft", 33, "Dear committee",
				"Prof. Hopper", "hopper@navy.mil", now, 2))

	doc, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeLOR, doc.Type)
	assert.Equal(t, domain.DocumentStatusDraft, doc.Status)
	assert.Equal(t, 33, doc.Progress)
	assert.Equal(t, "Prof. Hopper", doc.RecommenderName)
	assert.Equal(t, 2, doc.AISuggestionsCount)

	mock.ExpectQuery(`SELECT .+ FROM application_documents`).WillReturnError(sql.ErrNoRows)
	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestPostgresDocumentStore_ListByApplication(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresDocumentStore(db, nil)

	appID := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`FROM application_documents\s+WHERE application_id = \$1`).
		WithArgs(appID).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(uuid.New().String(), appID.String(), uuid.New().String(), "sop", "Statement of Purpose", "not_started", 0, "", nil, nil, now, 0).
			AddRow(uuid.New().String(), appID.String(), uuid.New().String(), "lor", "Letter of Recommendation", "complete", 100, "x", nil, nil, now, 0))

	docs, err := s.ListByApplication(context.Background(), appID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "", docs[0].RecommenderName)
	assert.Equal(t, domain.DocumentStatusComplete, docs[1].Status)
}

func TestPostgresDocumentStore_Update(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresDocumentStore(db, nil)

	doc, err := domain.NewApplicationDocument(uuid.New(), uuid.New(), domain.DocumentTypeLOR)
	require.NoError(t, err)
	doc.Status = domain.DocumentStatusComplete
	doc.Progress = 100
	doc.RecommenderName = "Ada"
	doc.RecommenderEmail = "ada@example.com"

	mock.ExpectExec(`UPDATE application_documents`).
		WithArgs("complete", 100, "", "Ada", "ada@example.com", doc.LastEdited, 0, doc.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(context.Background(), doc))

	mock.ExpectExec(`UPDATE application_documents`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(context.Background(), doc), store.ErrDocumentNotFound)

	doc.Progress = 150
	assert.ErrorIs(t, s.Update(context.Background(), doc), domain.ErrInvalidProgress)
}
