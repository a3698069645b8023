package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/medkeeper/internal/dbx"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/doselogs"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/medications"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/medkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so that services
// can run the same repository inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Medications(db dbx.DBTX) medications.Repository
	DoseLogs(db dbx.DBTX) doselogs.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
