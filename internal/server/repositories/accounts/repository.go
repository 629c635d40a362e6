// Package accounts persists Account records. Both implementations map a
// violated email uniqueness constraint to common.ErrEmailInUse and a missing
// row to common.ErrorNotFound.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, id string, upd models.AccountUpdate, updatedAt time.Time) (*models.Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Account, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner) (*models.Account, error) {
	a := &models.Account{}
	if err := s.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}
