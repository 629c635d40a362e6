// Package services contains server-side business logic. Directory owns
// account persistence rules; AuthService orchestrates registration and login
// on top of it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/accountd/internal/clockx"
	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountd/internal/server/validation"
)

// Directory is the account store facade. Emails passed in are normalized
// before every lookup.
type Directory struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       clockx.Clock
	logger      logging.Logger
}

func NewDirectory(db *sql.DB, m repomanager.RepositoryManager, clock clockx.Clock, logger logging.Logger) *Directory {
	return &Directory{
		db:          db,
		repomanager: m,
		clock:       clock,
		logger:      logger.With("module", "directory"),
	}
}

func (d *Directory) Exists(ctx context.Context, email string) (bool, error) {
	return d.repomanager.Accounts(d.db).ExistsByEmail(ctx, validation.NormalizeEmail(email))
}

// Create assigns the id and creation time and stores the account. A taken
// email is reported as ErrEmailInUse by the store's unique constraint;
// callers wanting an early answer use Exists first.
func (d *Directory) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	a := *account
	a.ID = uuid.NewString()
	a.Email = validation.NormalizeEmail(a.Email)
	a.CreatedAt = d.clock.Now().UTC()
	a.UpdatedAt = nil

	if err := d.repomanager.Accounts(d.db).Create(ctx, &a); err != nil {
		return nil, err
	}

	d.logger.Info(ctx, "account created", "account_id", a.ID, "email", a.Email)
	return &a, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return d.repomanager.Accounts(d.db).GetByEmail(ctx, validation.NormalizeEmail(email))
}

func (d *Directory) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if !isUUID(id) {
		return nil, common.ErrorNotFound
	}
	return d.repomanager.Accounts(d.db).GetByID(ctx, id)
}

// Update replaces the profile fields of an existing account inside a
// transaction. Nothing is written when the account does not exist or the
// new email belongs to another account.
func (d *Directory) Update(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	upd.Email = validation.NormalizeEmail(upd.Email)
	upd.FirstName = validation.NormalizeName(upd.FirstName)
	upd.LastName = validation.NormalizeName(upd.LastName)

	if err := validation.ValidateEmail(upd.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidateNames(upd.FirstName, upd.LastName); err != nil {
		return nil, err
	}
	if !isUUID(id) {
		return nil, common.ErrorNotFound
	}

	updated, err := dbx.WithTxResult(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Account, error) {
		repo := d.repomanager.Accounts(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if current.Email != upd.Email {
			other, err := repo.GetByEmail(ctx, upd.Email)
			switch {
			case err == nil && other.ID != id:
				return nil, common.ErrEmailInUse
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return nil, err
			}
		}

		return repo.Update(ctx, id, upd, d.clock.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info(ctx, "account updated", "account_id", id)
	return updated, nil
}

func (d *Directory) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return common.ErrorNotFound
	}
	if err := d.repomanager.Accounts(d.db).Delete(ctx, id); err != nil {
		return err
	}
	d.logger.Info(ctx, "account deleted", "account_id", id)
	return nil
}

// List returns every account ordered by creation time, then id.
func (d *Directory) List(ctx context.Context) ([]models.Account, error) {
	list, err := d.repomanager.Accounts(d.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return list, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
