package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"customs_clearance_service/internal/identity/domain"
)

// UserRepository definition get user info
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUserActive(ctx context.Context, userID string, active bool) error
	FindByUser(ctx context.Context, q *domain.UserQuery) (*domain.User, error)
}

// ErrUserNotFound no account matches the query
var ErrUserNotFound = errors.New("no user found with given criteria")

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO users(id, email, password, name, role, org_id, active) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		user.ID, user.Email, user.Password, user.Name, user.Role, user.OrgID, user.Active)
	return err
}

func (r *userRepository) UpdateUserActive(ctx context.Context, userID string, active bool) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET active = $1 WHERE id = $2", active, userID)
	return err
}

func (r *userRepository) FindByUser(ctx context.Context, q *domain.UserQuery) (*domain.User, error) {
	queryStr := "SELECT id, email, password, name, role, org_id, active, created_at FROM users WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if q.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *q.ID)
		paramCount++
	}
	if q.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *q.Email)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Role, &user.OrgID, &user.Active, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
