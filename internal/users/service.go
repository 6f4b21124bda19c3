package users

import (
	"context"
	"errors"
	"strings"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/internal/credentials"
	"github.com/NithinKS007/PDF-extractor-server/internal/messages"
	"github.com/NithinKS007/PDF-extractor-server/internal/models"
	"github.com/NithinKS007/PDF-extractor-server/internal/tokens"
)

// PasswordHasher is satisfied by *credentials.Hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// TokenIssuer is satisfied by *tokens.Issuer.
type TokenIssuer interface {
	GenerateAccessToken(p tokens.Payload) (string, error)
	GenerateRefreshToken(p tokens.Payload) (string, error)
	VerifyRefreshToken(raw string) (*tokens.Payload, error)
}

// Service handles signup, signin and access token refresh.
type Service struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(r UserRepository, h PasswordHasher, t TokenIssuer) *Service {
	return &Service{repo: r, hasher: h, tokens: t}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// SigninResult carries both tokens; only the access token goes in the body.
type SigninResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// NormalizeEmail trims and lower-cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperror.New(apperror.MissingFields)
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err)
	}
	if existing != nil {
		return nil, apperror.New(apperror.EmailConflict)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrPasswordTooLong) {
			return nil, apperror.Wrap(apperror.InvalidInput, err).WithMessage(messages.PasswordTooLong)
		}
		return nil, apperror.Wrap(apperror.Internal, err)
	}

	u := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperror.Wrap(apperror.EmailConflict, err)
		}
		return nil, apperror.Wrap(apperror.Internal, err)
	}
	return u, nil
}

func (s *Service) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.New(apperror.MissingFields)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err)
	}
	if u == nil {
		return nil, apperror.New(apperror.UserNotFound)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, credentials.ErrMismatch) {
			return nil, apperror.New(apperror.IncorrectPassword)
		}
		return nil, apperror.Wrap(apperror.Internal, err)
	}

	p := tokens.Payload{UserID: u.ID, Email: u.Email}
	access, err := s.tokens.GenerateAccessToken(p)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(p)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, err)
	}
	return &SigninResult{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken issues a new access token from a valid refresh token.
func (s *Service) RefreshAccessToken(_ context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperror.New(apperror.NoRefreshToken)
	}
	p, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperror.Wrap(apperror.InvalidToken, err)
	}
	access, err := s.tokens.GenerateAccessToken(*p)
	if err != nil {
		return "", apperror.Wrap(apperror.Internal, err)
	}
	return access, nil
}
