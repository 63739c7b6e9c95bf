package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/domain/lifecycle"
	"github.com/gradaid/gradaid-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// memState is an in-memory backing store shared by the fake stores. Values are
// copied on the way in and out so services cannot mutate stored state without
// calling a write method.
type memState struct {
	mu         sync.Mutex
	users      map[uuid.UUID]domain.User
	apps       map[uuid.UUID]domain.Application
	docs       map[uuid.UUID]domain.ApplicationDocument
	docOrder   []uuid.UUID
	accounts   map[uuid.UUID]domain.CreditAccount
	usage      []domain.CreditUsage
	activities []domain.Activity
	failures   map[string]error
}

func newMemState() *memState {
	return &memState{
		users:    map[uuid.UUID]domain.User{},
		apps:     map[uuid.UUID]domain.Application{},
		docs:     map[uuid.UUID]domain.ApplicationDocument{},
		accounts: map[uuid.UUID]domain.CreditAccount{},
		failures: map[string]error{},
	}
}

// failOn makes the named fake method return err.
func (m *memState) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

func (m *memState) fail(op string) error {
	return m.failures[op]
}

func (m *memState) activitiesOfType(t domain.ActivityType) []domain.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Activity
	for _, a := range m.activities {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func (m *memState) activityCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.activities)
}

func (m *memState) usageRecords() []domain.CreditUsage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CreditUsage(nil), m.usage...)
}

func (m *memState) account(userID uuid.UUID) (domain.CreditAccount, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	return a, ok
}

func (m *memState) application(id uuid.UUID) domain.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apps[id]
}

func (m *memState) document(id uuid.UUID) domain.ApplicationDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[id]
}

func (m *memState) putApplication(app *domain.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[app.ID] = *app
}

func (m *memState) putDocument(doc *domain.ApplicationDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		m.docOrder = append(m.docOrder, doc.ID)
	}
	m.docs[doc.ID] = *doc
}

func (m *memState) putAccount(a *domain.CreditAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.UserID] = *a
}

// Users

type fakeUserStore struct{ m *memState }

func (s fakeUserStore) Create(_ context.Context, u *domain.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("users.Create"); err != nil {
		return err
	}
	for _, existing := range s.m.users {
		if existing.ExternalID == u.ExternalID {
			return store.ErrUserExists
		}
	}
	s.m.users[u.ID] = *u
	return nil
}

func (s fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s fakeUserStore) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.ExternalID == externalID {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s fakeUserStore) Update(_ context.Context, u *domain.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.m.users[u.ID] = *u
	return nil
}

func (s fakeUserStore) WithTx(*sql.Tx) store.UserStore { return s }

// Applications

type fakeApplicationStore struct{ m *memState }

func (s fakeApplicationStore) Create(_ context.Context, app *domain.Application) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("applications.Create"); err != nil {
		return err
	}
	for _, existing := range s.m.apps {
		if existing.UserID == app.UserID &&
			existing.UniversityID == app.UniversityID &&
			existing.ProgramID == app.ProgramID {
			return store.ErrApplicationExists
		}
	}
	s.m.apps[app.ID] = *app
	return nil
}

func (s fakeApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Application, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	app, ok := s.m.apps[id]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	return &app, nil
}

func (s fakeApplicationStore) FindByProgram(
	_ context.Context,
	userID uuid.UUID,
	universityID, programID string,
) (*domain.Application, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, app := range s.m.apps {
		if app.UserID == userID && app.UniversityID == universityID && app.ProgramID == programID {
			return &app, nil
		}
	}
	return nil, store.ErrApplicationNotFound
}

func (s fakeApplicationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Application, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*domain.Application
	for _, app := range s.m.apps {
		if app.UserID == userID {
			app := app
			out = append(out, &app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out, nil
}

func (s fakeApplicationStore) UpdateStatus(_ context.Context, app *domain.Application) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("applications.UpdateStatus"); err != nil {
		return err
	}
	if _, ok := s.m.apps[app.ID]; !ok {
		return store.ErrApplicationNotFound
	}
	s.m.apps[app.ID] = *app
	return nil
}

func (s fakeApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.apps[id]; !ok {
		return store.ErrApplicationNotFound
	}
	delete(s.m.apps, id)
	for docID, doc := range s.m.docs {
		if doc.ApplicationID == id {
			delete(s.m.docs, docID)
		}
	}
	return nil
}

func (s fakeApplicationStore) WithTx(*sql.Tx) store.ApplicationStore { return s }

// Documents

type fakeDocumentStore struct{ m *memState }

func (s fakeDocumentStore) Create(_ context.Context, doc *domain.ApplicationDocument) error {
	if err := s.m.fail("documents.Create"); err != nil {
		return err
	}
	s.m.putDocument(doc)
	return nil
}

func (s fakeDocumentStore) CreateMultiple(ctx context.Context, docs []*domain.ApplicationDocument) error {
	for _, doc := range docs {
		if err := s.Create(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s fakeDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.ApplicationDocument, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	doc, ok := s.m.docs[id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return &doc, nil
}

func (s fakeDocumentStore) list(match func(domain.ApplicationDocument) bool) []*domain.ApplicationDocument {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*domain.ApplicationDocument
	for _, id := range s.m.docOrder {
		doc, ok := s.m.docs[id]
		if ok && match(doc) {
			out = append(out, &doc)
		}
	}
	return out
}

func (s fakeDocumentStore) ListByApplication(
	_ context.Context,
	applicationID uuid.UUID,
) ([]*domain.ApplicationDocument, error) {
	if err := s.m.fail("documents.ListByApplication"); err != nil {
		return nil, err
	}
	return s.list(func(d domain.ApplicationDocument) bool { return d.ApplicationID == applicationID }), nil
}

func (s fakeDocumentStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.ApplicationDocument, error) {
	return s.list(func(d domain.ApplicationDocument) bool { return d.UserID == userID }), nil
}

func (s fakeDocumentStore) Update(_ context.Context, doc *domain.ApplicationDocument) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("documents.Update"); err != nil {
		return err
	}
	if _, ok := s.m.docs[doc.ID]; !ok {
		return store.ErrDocumentNotFound
	}
	s.m.docs[doc.ID] = *doc
	return nil
}

func (s fakeDocumentStore) WithTx(*sql.Tx) store.DocumentStore { return s }

// Credit accounts

type fakeAccountStore struct{ m *memState }

func (s fakeAccountStore) GetByUser(_ context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	a, ok := s.m.accounts[userID]
	if !ok {
		return nil, store.ErrCreditAccountNotFound
	}
	return &a, nil
}

func (s fakeAccountStore) Create(_ context.Context, a *domain.CreditAccount) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.accounts[a.UserID]; ok {
		return store.ErrCreditAccountExists
	}
	s.m.accounts[a.UserID] = *a
	return nil
}

func (s fakeAccountStore) Update(_ context.Context, a *domain.CreditAccount) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("accounts.Update"); err != nil {
		return err
	}
	if _, ok := s.m.accounts[a.UserID]; !ok {
		return store.ErrCreditAccountNotFound
	}
	s.m.accounts[a.UserID] = *a
	return nil
}

func (s fakeAccountStore) ListDue(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var due []domain.CreditAccount
	for _, a := range s.m.accounts {
		if !a.ResetDate.After(now) {
			due = append(due, a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ResetDate.Before(due[j].ResetDate) })
	ids := make([]uuid.UUID, 0, len(due))
	for i, a := range due {
		if limit > 0 && i >= limit {
			break
		}
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

func (s fakeAccountStore) WithTx(*sql.Tx) store.CreditAccountStore { return s }

// Credit usage

type fakeUsageStore struct{ m *memState }

func (s fakeUsageStore) Create(_ context.Context, u *domain.CreditUsage) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.usage = append(s.m.usage, *u)
	return nil
}

func (s fakeUsageStore) SumByType(_ context.Context, userID uuid.UUID) (map[domain.CreditUsageType]int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sums := map[domain.CreditUsageType]int{}
	for _, u := range s.m.usage {
		if u.UserID == userID {
			sums[u.Type] += u.Credits
		}
	}
	return sums, nil
}

func (s fakeUsageStore) WithTx(*sql.Tx) store.CreditUsageStore { return s }

// Activities

type fakeActivityStore struct{ m *memState }

func (s fakeActivityStore) Create(_ context.Context, a *domain.Activity) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("activities.Create"); err != nil {
		return err
	}
	s.m.activities = append(s.m.activities, *a)
	return nil
}

func (s fakeActivityStore) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []*domain.Activity
	for i := len(s.m.activities) - 1; i >= 0 && len(out) < limit; i-- {
		a := s.m.activities[i]
		if a.UserID == userID {
			out = append(out, &a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s fakeActivityStore) CountSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	n := 0
	for _, a := range s.m.activities {
		if a.UserID == userID && !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s fakeActivityStore) WithTx(*sql.Tx) store.ActivityStore { return s }

// recordingMetrics counts metric calls.
type recordingMetrics struct {
	mu          sync.Mutex
	debited     map[domain.CreditUsageType]int
	rejected    map[string]int
	resets      int
	docChanges  int
	appChanges  int
	autoChanges int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		debited:  map[domain.CreditUsageType]int{},
		rejected: map[string]int{},
	}
}

func (r *recordingMetrics) CreditsDebited(t domain.CreditUsageType, amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debited[t] += amount
}

func (r *recordingMetrics) DebitRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

func (r *recordingMetrics) CreditsReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *recordingMetrics) DocumentStatusChanged(_, _ domain.DocumentStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docChanges++
}

func (r *recordingMetrics) ApplicationStatusChanged(_, _ domain.ApplicationStatus, automatic bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appChanges++
	if automatic {
		r.autoChanges++
	}
}

// testEnv wires every service against the in-memory stores and a sqlmock
// database that supplies real Begin/Commit/Rollback calls.
type testEnv struct {
	t       *testing.T
	mem     *memState
	mock    sqlmock.Sqlmock
	repos   *Repositories
	now     time.Time
	metrics *recordingMetrics

	activity     ActivityService
	credits      CreditService
	documents    DocumentService
	applications ApplicationService
	users        UserService
	dashboard    DashboardService
}

// testNow is a Wednesday.
var testNow = time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

var testSettings = LedgerSettings{DefaultTotal: 500, ResetWindow: 30 * 24 * time.Hour}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	env := &testEnv{
		t:       t,
		mem:     newMemState(),
		mock:    mock,
		now:     testNow,
		metrics: newRecordingMetrics(),
	}
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	env.repos = &Repositories{
		DB:           db,
		Users:        fakeUserStore{env.mem},
		Applications: fakeApplicationStore{env.mem},
		Documents:    fakeDocumentStore{env.mem},
		Accounts:     fakeAccountStore{env.mem},
		Usage:        fakeUsageStore{env.mem},
		Activities:   fakeActivityStore{env.mem},
	}

	opts := []Option{WithClock(env.clock), WithMetrics(env.metrics)}
	log := testLogger()

	env.activity, err = NewActivityService(env.repos, log, opts...)
	require.NoError(t, err)
	env.credits, err = NewCreditService(env.repos, env.activity, testSettings, log, opts...)
	require.NoError(t, err)
	rules := lifecycle.NewDefaultService()
	env.documents, err = NewDocumentService(env.repos, rules, env.activity, log, opts...)
	require.NoError(t, err)
	env.applications, err = NewApplicationService(env.repos, rules, env.activity, log, opts...)
	require.NoError(t, err)
	env.users, err = NewUserService(env.repos, env.credits, log, opts...)
	require.NoError(t, err)
	env.dashboard, err = NewDashboardService(env.repos, env.credits, env.activity, log)
	require.NoError(t, err)

	return env
}

func (e *testEnv) clock() time.Time { return e.now }

// expectCommit expects n committed transactions.
func (e *testEnv) expectCommit(n int) {
	for i := 0; i < n; i++ {
		e.mock.ExpectBegin()
		e.mock.ExpectCommit()
	}
}

// expectRollback expects one rolled back transaction.
func (e *testEnv) expectRollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

// expectLostCommit expects one transaction whose commit Postgres aborts with a
// serialization failure.
func (e *testEnv) expectLostCommit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit().WillReturnError(&pgconn.PgError{
		Code:    "40001",
		Message: "could not serialize access due to read/write dependencies among transactions",
	})
}

// seedApplication stores an application with documents in the given statuses.
func (e *testEnv) seedApplication(
	userID uuid.UUID,
	status domain.ApplicationStatus,
	docStatuses ...domain.DocumentStatus,
) (*domain.Application, []*domain.ApplicationDocument) {
	e.t.Helper()

	app, err := domain.NewApplication(userID, "uni-"+uuid.NewString(), "prog-1",
		testNow.Add(60*24*time.Hour), domain.PriorityHigh, "")
	require.NoError(e.t, err)
	app.Status = status
	e.mem.putApplication(app)

	rules := lifecycle.NewDefaultService()
	docs := make([]*domain.ApplicationDocument, 0, len(docStatuses))
	for i, st := range docStatuses {
		docType := domain.DocumentTypeLOR
		if i == 0 {
			docType = domain.DocumentTypeSOP
		}
		doc, err := domain.NewApplicationDocument(app.ID, userID, docType)
		require.NoError(e.t, err)
		doc.Status = st
		doc.Progress, err = rules.ProgressOf(st)
		require.NoError(e.t, err)
		e.mem.putDocument(doc)
		docs = append(docs, doc)
	}

	return app, docs
}
