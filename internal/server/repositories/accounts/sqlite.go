package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

const sqliteColumns = `id, first_name, last_name, email, password_hash, created_at, updated_at`

// SQLiteRepository backs local development and single-node deployments.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, first_name, last_name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		return sqliteError(err)
	}
	return nil
}

func (r *SQLiteRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM accounts WHERE email = ?`, email))
	if err != nil {
		return nil, sqliteError(err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		return nil, sqliteError(err)
	}
	return a, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, upd models.AccountUpdate, updatedAt time.Time) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `
		UPDATE accounts
		SET first_name = ?, last_name = ?, email = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+sqliteColumns,
		upd.FirstName, upd.LastName, upd.Email, updatedAt, id))
	if err != nil {
		return nil, sqliteError(err)
	}
	return a, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func sqliteError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", common.ErrEmailInUse, se)
	}
	return fmt.Errorf("db error: %w", err)
}
