package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/dbx"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/config"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/categories"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/records"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memStore backs every fake repository with plain maps. Timestamps come from
// a clock that advances one second per write so ordering is deterministic.
type memStore struct {
	mu     sync.Mutex
	clock  time.Time
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
	cats   map[string]*models.Category
	recs   map[string]*models.Record

	// failures injected by tests
	createRecordErr error
	createUserErr   error
}

func newMemStore() *memStore {
	return &memStore{
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:  map[string]*models.User{},
		tokens: map[string]*models.RefreshToken{},
		cats:   map[string]*models.Category{},
		recs:   map[string]*models.Record{},
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type fakeRepoManager struct{ s *memStore }

func (f fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f fakeRepoManager) Users(dbx.DBTX) users.Repository               { return fakeUsers{f.s} }
func (f fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return fakeTokens{f.s}
}
func (f fakeRepoManager) Categories(dbx.DBTX) categories.Repository { return fakeCategories{f.s} }
func (f fakeRepoManager) Records(dbx.DBTX) records.Repository       { return fakeRecords{f.s} }

// --- users ---

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createUserErr != nil {
		return nil, f.s.createUserErr
	}
	for _, x := range f.s.users {
		if x.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = f.s.tick()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f fakeUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.UserName == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

// --- refresh tokens ---

type fakeTokens struct{ s *memStore }

func (f fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.tokens[token] = &models.RefreshToken{
		ID: uuid.NewString(), UserID: userID, Token: token,
		Expires: time.Now().Add(validity), CreatedAt: time.Now(),
	}
	return nil
}

func (f fakeTokens) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.s.tokens, token)
	return t, nil
}

func (f fakeTokens) Delete(_ context.Context, token string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.tokens, token)
	return nil
}

func (f fakeTokens) DeleteExpired(_ context.Context, userID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for k, t := range f.s.tokens {
		if t.UserID == userID && t.Expires.Before(time.Now()) {
			delete(f.s.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- categories ---

type fakeCategories struct{ s *memStore }

func (f fakeCategories) Create(_ context.Context, c *models.Category) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = f.s.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.s.cats[c.ID] = &cp
	return nil
}

func (f fakeCategories) GetByID(_ context.Context, id string) (*models.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.cats[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeCategories) ListByUser(_ context.Context, userID string) ([]models.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.Category{}
	for _, c := range f.s.cats {
		if c.UserID != userID {
			continue
		}
		cp := *c
		n := f.s.countLocked(c.ID)
		cp.RecordsCount = &n
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f fakeCategories) FindByName(_ context.Context, userID, name string) (*models.Category, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var found *models.Category
	for _, c := range f.s.cats {
		if c.UserID == userID && c.Name == name && (found == nil || c.CreatedAt.Before(found.CreatedAt)) {
			found = c
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	cp := *found
	return &cp, nil
}

func (f fakeCategories) Update(_ context.Context, c *models.Category) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.cats[c.ID]; !ok {
		return common.ErrorNotFound
	}
	c.UpdatedAt = f.s.tick()
	cp := *c
	cp.Records, cp.RecordsCount = nil, nil
	f.s.cats[c.ID] = &cp
	return nil
}

func (f fakeCategories) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.cats[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.cats, id)
	return nil
}

func (f fakeCategories) CountRecords(_ context.Context, id string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.countLocked(id), nil
}

func (m *memStore) countLocked(categoryID string) int64 {
	var n int64
	for _, r := range m.recs {
		if r.CategoryID != nil && *r.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// --- records ---

type fakeRecords struct{ s *memStore }

func (f fakeRecords) Create(_ context.Context, rec *models.Record) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createRecordErr != nil {
		return f.s.createRecordErr
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = f.s.tick()
	rec.UpdatedAt = rec.CreatedAt
	f.s.recs[rec.ID] = f.s.stripLocked(rec)
	return nil
}

func (m *memStore) stripLocked(rec *models.Record) *models.Record {
	cp := *rec
	cp.Category, cp.Plaintext = nil, nil
	cp.Tags = append([]string{}, rec.Tags...)
	cp.EncryptedData = bytes.Clone(rec.EncryptedData)
	return &cp
}

// joinLocked copies r and attaches its category the way the SQL join does.
func (m *memStore) joinLocked(r *models.Record) models.Record {
	cp := *r
	cp.Tags = append([]string{}, r.Tags...)
	if r.CategoryID != nil {
		if c, ok := m.cats[*r.CategoryID]; ok {
			cc := *c
			cp.Category = &cc
		}
	}
	return cp
}

func (f fakeRecords) GetByID(_ context.Context, id string) (*models.Record, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.recs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := f.s.joinLocked(r)
	return &out, nil
}

func (f fakeRecords) Update(_ context.Context, rec *models.Record) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.recs[rec.ID]; !ok {
		return common.ErrorNotFound
	}
	rec.UpdatedAt = f.s.tick()
	f.s.recs[rec.ID] = f.s.stripLocked(rec)
	return nil
}

func (f fakeRecords) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.recs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.recs, id)
	return nil
}

func (f fakeRecords) DeleteAllByUser(_ context.Context, userID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for id, r := range f.s.recs {
		if r.UserID == userID {
			delete(f.s.recs, id)
			n++
		}
	}
	return n, nil
}

func (f fakeRecords) Find(_ context.Context, userID string, flt models.RecordFilter) ([]models.Record, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var all []models.Record
	for _, r := range f.s.recs {
		if r.UserID != userID {
			continue
		}
		rec := f.s.joinLocked(r)
		if flt.CategoryID != nil && (rec.CategoryID == nil || *rec.CategoryID != *flt.CategoryID) {
			continue
		}
		if flt.FavoritesOnly && !rec.IsFavorite {
			continue
		}
		if flt.Search != "" && !matchesSearch(rec, flt.Search) {
			continue
		}
		if flt.CategoryName != "" && (rec.Category == nil || !containsFold(rec.Category.Name, flt.CategoryName)) {
			continue
		}
		all = append(all, rec)
	}
	sortNewestFirst(all)

	total := int64(len(all))
	start := flt.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + flt.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f fakeRecords) ListByUser(_ context.Context, userID string) ([]models.Record, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []models.Record
	for _, r := range f.s.recs {
		if r.UserID == userID {
			out = append(out, f.s.joinLocked(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeRecords) ListByCategory(_ context.Context, categoryID string) ([]models.Record, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.Record{}
	for _, r := range f.s.recs {
		if r.CategoryID != nil && *r.CategoryID == categoryID {
			cp := *r
			out = append(out, cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(rs []models.Record) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return rs[i].ID > rs[j].ID
	})
}

func matchesSearch(r models.Record, q string) bool {
	if containsFold(r.Title, q) {
		return true
	}
	if r.Description != nil && containsFold(*r.Description, q) {
		return true
	}
	return containsFold(strings.Join(r.Tags, " "), q)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// --- sealer and object store ---

// stubSealer is reversible and deterministic; Open rejects anything it did
// not produce.
type stubSealer struct{}

const stubPrefix = "enc:"

func (stubSealer) Seal(p []byte) ([]byte, error) {
	return append([]byte(stubPrefix), p...), nil
}

func (stubSealer) Open(c []byte) ([]byte, error) {
	if !bytes.HasPrefix(c, []byte(stubPrefix)) {
		return nil, fmt.Errorf("%w: bad prefix", common.ErrorEncryption)
	}
	return bytes.Clone(c[len(stubPrefix):]), nil
}

type fakeObjectStore struct {
	objects  map[string][]byte
	types    map[string]string
	putErr   error
	signErr  error
	signedTT time.Duration
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	f.types[key] = contentType
	return nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signedTT = ttl
	return "https://s3.test/" + key + "?sig=1", nil
}

// --- wiring ---

type fixture struct {
	store      *memStore
	db         *sql.DB
	mock       sqlmock.Sqlmock
	users      *UserService
	categories *CategoryService
	records    *RecordService
	transfer   *TransferService
	objects    *fakeObjectStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := newMemStore()
	rm := fakeRepoManager{s}
	log := logging.Nop()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}

	recs := NewRecordService(db, rm, stubSealer{}, models.DefaultPerPage, log)
	objects := newFakeObjectStore()
	return &fixture{
		store:      s,
		db:         db,
		mock:       mock,
		users:      NewUserService(db, rm, cfg, log),
		categories: NewCategoryService(db, rm, log),
		records:    recs,
		transfer:   NewTransferService(recs, objects, log),
		objects:    objects,
	}
}

// category creates a category for owner directly in the store.
func (fx *fixture) category(t *testing.T, owner, name string) *models.Category {
	t.Helper()
	c := &models.Category{UserID: owner, Name: name, Color: models.DefaultCategoryColor, Icon: models.DefaultCategoryIcon}
	if err := (fakeCategories{fx.store}).Create(context.Background(), c); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func (fx *fixture) record(t *testing.T, owner string, in models.RecordInput) *models.Record {
	t.Helper()
	if in.DataType == "" {
		in.DataType = models.DataTypeNote
	}
	if in.Data == "" {
		in.Data = "secret"
	}
	r, err := fx.records.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	return r
}

func ptr[T any](v T) *T { return &v }
