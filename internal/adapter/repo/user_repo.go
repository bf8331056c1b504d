package repo

import (
	"context"
	"fmt"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository using PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUserRepository constructs the repository.
func NewUserRepository(db infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// Create inserts a new account and returns it with server-assigned fields.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, sqlinline.QInsertUser,
		user.Email, user.CredentialHash, user.CreditsRemaining, string(user.Plan))
	created := *user
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %s: %w", user.Email, domain.ErrDuplicateEmail)
		}
		return nil, err
	}
	return &created, nil
}

// GetByID returns the account or domain.ErrNotFound.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail returns the account or domain.ErrNotFound.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// DebitCredits subtracts amount from the balance. The statement only matches
// when the balance covers the amount, so a no-rows result maps to
// domain.ErrInsufficientCredits and the stored balance is untouched.
func (r *UserRepositoryPG) DebitCredits(ctx context.Context, userID string, amount int) (int, error) {
	var remaining int
	err := r.db.QueryRow(ctx, sqlinline.QDebitUserCredits, userID, amount).Scan(&remaining)
	if err != nil {
		if infra.IsNoRows(err) {
			return 0, domain.ErrInsufficientCredits
		}
		return 0, err
	}
	return remaining, nil
}

// AddCredits increases the balance and returns the new value.
func (r *UserRepositoryPG) AddCredits(ctx context.Context, userID string, amount int) (int, error) {
	var remaining int
	err := r.db.QueryRow(ctx, sqlinline.QAddUserCredits, userID, amount).Scan(&remaining)
	if err != nil {
		if infra.IsNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return remaining, nil
}

func (r *UserRepositoryPG) scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	var plan string
	if err := row.Scan(&user.ID, &user.Email, &user.CredentialHash, &user.CreditsRemaining, &plan, &user.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.Plan = domain.SubscriptionPlan(plan)
	return &user, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
