package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/validation"
)

const (
	MessageRegistered = "Registration successful"
	MessageLoggedIn   = "Login successful"
)

// AccountStore is the part of Directory the auth flow needs.
type AccountStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

type TokenIssuer interface {
	Issue(account *models.Account) (string, error)
}

// Credentials are the plain registration inputs. They are never stored.
type Credentials struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Message string
	Account models.AccountSummary
	Token   string
}

type AuthService struct {
	accounts AccountStore
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	logger   logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(accounts AccountStore, hasher auth.PasswordHasher, tokens TokenIssuer, logger logging.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With("module", "auth"),
	}
}

// Register validates the credentials, creates the account and issues a token.
func (s *AuthService) Register(ctx context.Context, c Credentials) (*AuthResult, error) {
	account, err := s.create(ctx, c)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}

	return &AuthResult{Message: MessageRegistered, Account: account.Summary(), Token: token}, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password both produce ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = validation.NormalizeEmail(email)

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy())
			s.logger.Info(ctx, "login rejected", "email", email)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "login succeeded", "account_id", account.ID)
	return &AuthResult{Message: MessageLoggedIn, Account: account.Summary(), Token: token}, nil
}

// CreateAccount is the administrative create. It applies the registration
// policy but does not issue a token.
func (s *AuthService) CreateAccount(ctx context.Context, c Credentials) (*models.AccountSummary, error) {
	account, err := s.create(ctx, c)
	if err != nil {
		return nil, err
	}
	summary := account.Summary()
	return &summary, nil
}

func (s *AuthService) create(ctx context.Context, c Credentials) (*models.Account, error) {
	email := validation.NormalizeEmail(c.Email)
	first := validation.NormalizeName(c.FirstName)
	last := validation.NormalizeName(c.LastName)

	if err := validation.ValidateCredentials(email, c.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateNames(first, last); err != nil {
		return nil, err
	}

	exists, err := s.accounts.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrEmailInUse
	}

	hash, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	return s.accounts.Create(ctx, &models.Account{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hash,
	})
}

// dummy returns a hash of a fixed password used to equalize login timing.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("Dummy-password-for-timing")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
