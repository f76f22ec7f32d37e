package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/isdelr/booking-api/internal/auth"
	"github.com/isdelr/booking-api/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// UserService provides registration and credential checking backed by the
// users table. It never stores or logs a plaintext password.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password. Email uniqueness is
// enforced by the database constraint, which surfaces as
// models.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username, email and password are required", models.ErrValidation)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(username, email, password_hash) VALUES(?, ?, ?)",
		username, email, hashed)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return s.getUserByID(ctx, id)
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password both come back as models.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		log.Warn().Str("username", username).Msg("Failed authentication attempt")
		return models.User{}, models.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByUsername retrieves a single user by username, including the
// password hash.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?",
		username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) getUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
