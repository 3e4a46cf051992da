package httpapi

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/server/models"
)

const (
	testToken = "good-token"
	testUser  = "11111111-1111-1111-1111-111111111111"
)

type fakeAuth struct {
	registerErr error
	loginErr    error
	loggedOut   string
}

func (f *fakeAuth) Register(_ context.Context, username, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: testUser, UserName: username, Salt: []byte("s"), Verifier: []byte("v")}, nil
}

func (f *fakeAuth) Login(context.Context, string, string) (*models.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.TokenPair{AccessToken: testToken, RefreshToken: "r1", TokenType: "bearer", ExpiresIn: 900}, nil
}

func (f *fakeAuth) RefreshToken(_ context.Context, token string) (*models.TokenPair, error) {
	if token != "r1" {
		return nil, common.ErrInvalidToken
	}
	return &models.TokenPair{AccessToken: testToken, RefreshToken: "r2", TokenType: "bearer", ExpiresIn: 900}, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.loggedOut = token
	return nil
}

func (f *fakeAuth) GetUser(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, UserName: "alice"}, nil
}

func (f *fakeAuth) UserIDFromAccessToken(token string) (string, error) {
	if token != testToken {
		return "", common.ErrInvalidToken
	}
	return testUser, nil
}

type fakeCategories struct {
	err     error
	gotIn   models.CategoryInput
	gotPat  models.CategoryPatch
	gotID   string
	gotUser string
}

func (f *fakeCategories) List(_ context.Context, owner string) ([]models.Category, error) {
	f.gotUser = owner
	return nil, f.err
}

func (f *fakeCategories) Create(_ context.Context, owner string, in models.CategoryInput) (*models.Category, error) {
	f.gotUser, f.gotIn = owner, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: "c1", UserID: owner, Name: in.Name}, nil
}

func (f *fakeCategories) Get(_ context.Context, owner, id string) (*models.Category, error) {
	f.gotUser, f.gotID = owner, id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: id, UserID: owner, Name: "Work"}, nil
}

func (f *fakeCategories) Update(_ context.Context, owner, id string, p models.CategoryPatch) (*models.Category, error) {
	f.gotUser, f.gotID, f.gotPat = owner, id, p
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: id, UserID: owner, Name: p.Name.Or("Work")}, nil
}

func (f *fakeCategories) Delete(_ context.Context, owner, id string) error {
	f.gotUser, f.gotID = owner, id
	return f.err
}

type fakeRecords struct {
	err       error
	gotFilter models.RecordFilter
	gotQuery  string
	gotPatch  models.RecordPatch
	gotID     string
	panicOn   string
}

func (f *fakeRecords) Create(_ context.Context, owner string, in models.RecordInput) (*models.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Record{ID: "r1", UserID: owner, Title: in.Title, EncryptedData: []byte("sealed")}, nil
}

func (f *fakeRecords) Get(_ context.Context, owner, id string) (*models.Record, error) {
	if f.panicOn == id {
		panic("boom")
	}
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	plain := "hunter2"
	return &models.Record{ID: id, UserID: owner, Title: "t", EncryptedData: []byte("sealed"), Plaintext: &plain}, nil
}

func (f *fakeRecords) Update(_ context.Context, owner, id string, p models.RecordPatch) (*models.Record, error) {
	f.gotID, f.gotPatch = id, p
	if f.err != nil {
		return nil, f.err
	}
	return &models.Record{ID: id, UserID: owner}, nil
}

func (f *fakeRecords) Delete(_ context.Context, _, id string) error {
	f.gotID = id
	return f.err
}

func (f *fakeRecords) ResetAll(context.Context, string) (int64, error) {
	return 3, f.err
}

func (f *fakeRecords) List(_ context.Context, _ string, flt models.RecordFilter) (models.Page[models.Record], error) {
	f.gotFilter = flt
	return models.NewPage[models.Record](nil, 1, 15, 0), f.err
}

func (f *fakeRecords) Search(_ context.Context, _ string, q string, page, perPage int) (models.Page[models.Record], error) {
	f.gotQuery = q
	f.gotFilter = models.RecordFilter{Search: q, Page: page, PerPage: perPage}
	return models.NewPage[models.Record](nil, 1, 15, 0), f.err
}

func (f *fakeRecords) ListByCategoryName(_ context.Context, _ string, name string, page, perPage int) (models.Page[models.Record], error) {
	f.gotQuery = name
	f.gotFilter = models.RecordFilter{CategoryName: name, Page: page, PerPage: perPage}
	return models.NewPage[models.Record](nil, 1, 15, 0), f.err
}

type fakeTransfer struct {
	err     error
	gotRows []models.ImportRow
}

func (f *fakeTransfer) Export(context.Context, string) (*models.ExportBundle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ExportBundle{Data: []models.ExportRow{{Title: "t", Data: "plain", Tags: []string{}}}}, nil
}

func (f *fakeTransfer) Import(_ context.Context, _ string, rows []models.ImportRow) (*models.ImportResult, error) {
	f.gotRows = rows
	if f.err != nil {
		return nil, f.err
	}
	return &models.ImportResult{Message: "Imported 1 items successfully", ImportedCount: 1, Errors: []string{"Row 1: bad"}}, nil
}

func (f *fakeTransfer) Snapshot(context.Context, string) (*models.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Snapshot{Key: "exports/k.json", URL: "https://s3/k", Records: 1}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

var errDBDown = errors.New("db down")
