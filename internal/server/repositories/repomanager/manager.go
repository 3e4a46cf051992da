package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/datavault/internal/dbx"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/categories"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/records"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository code against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Categories(db dbx.DBTX) categories.Repository
	Records(db dbx.DBTX) records.Repository
}
