package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"parkbooking/internal/auth"
	"parkbooking/internal/entities"
	apperrors "parkbooking/internal/errors"
	"parkbooking/internal/repository"
)

const minPasswordLength = 6

type AuthService interface {
	Signup(ctx context.Context, req entities.SignupRequest) (*entities.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*entities.TokenResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *authService) Signup(ctx context.Context, req entities.SignupRequest) (*entities.TokenResponse, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", apperrors.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidInput, minPasswordLength)
	}

	user, err := s.repo.CreateUser(ctx, email, req.Password, strings.TrimSpace(req.Phone))
	if err != nil {
		return nil, err
	}
	return s.issue(user.ID, user.Email)
}

func (s *authService) Login(ctx context.Context, email, password string) (*entities.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorizedHTTP("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrUnauthorizedHTTP("invalid credentials")
	}
	return s.issue(user.ID, user.Email)
}

func (s *authService) issue(userID, email string) (*entities.TokenResponse, error) {
	token, err := auth.IssueToken(s.jwtSecret, userID, email, s.tokenTTL, time.Now())
	if err != nil {
		return nil, err
	}
	return &entities.TokenResponse{Token: token, UserID: userID}, nil
}
