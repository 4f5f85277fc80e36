package repomanager

import (
	"context"
	"database/sql"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/scanlogs"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/users"
)

// RepositoryManager builds repositories over any DBTX so services can use
// the same code inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ScanLogs(db dbx.DBTX) scanlogs.Repository
}
