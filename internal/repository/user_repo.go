package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/guregu/null.v4"

	"parkbooking/internal/db"
	apperrors "parkbooking/internal/errors"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByID(ctx context.Context, id string) (*db.User, error)
	CreateUser(ctx context.Context, email, password, phone string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByEmail returns nil, nil when no user has that email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, phone, password_hash, created_at FROM users WHERE email = $1",
		strings.ToLower(email),
	).Scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("querying user by email", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, id)
	}
	var u db.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, phone, password_hash, created_at FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, id)
		}
		return nil, storeErr("querying user", err)
	}
	return &u, nil
}

// CreateUser hashes password with bcrypt and inserts the user.
func (r *userRepository) CreateUser(ctx context.Context, email, password, phone string) (*db.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &db.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		Phone:        null.NewString(phone, phone != ""),
		PasswordHash: string(hashedPassword),
	}
	err = r.db.QueryRowContext(ctx,
		"INSERT INTO users (id, email, phone, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at",
		u.ID, u.Email, u.Phone, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrInvalidInput)
		}
		return nil, storeErr("inserting user", err)
	}
	return u, nil
}
