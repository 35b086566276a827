package services

import (
	"context"
	"time"

	"chipset-komputer/internal/auth"
	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/repository"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type AuthService struct {
	store    repository.Store
	sessions *auth.SessionManager
	hashCost int
}

func NewAuthService(store repository.Store, sessions *auth.SessionManager) *AuthService {
	return &AuthService{store: store, sessions: sessions, hashCost: bcrypt.DefaultCost}
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, domain.RoleCustomer)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &domain.User{
		Email:        email,
		Name:         in.Name,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "role": role}).Info("user registered")
	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}

	token, expires, err := s.sessions.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, errors.Wrap(err, "issue session")
	}
	return user, token, expires, nil
}

// Authenticate resolves a session token to the current user record, so role
// changes take effect without a new login.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// EnsureAdmin creates an admin account, or promotes the existing account with
// that email.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (*domain.User, error) {
	existing, err := s.store.Users().FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return s.createUser(ctx, in, domain.RoleAdmin)
	}
	if existing.Role == domain.RoleAdmin {
		return existing, nil
	}
	existing.Role = domain.RoleAdmin
	if err := s.store.Users().Update(ctx, existing); err != nil {
		return nil, err
	}
	log.WithField("user_id", existing.ID).Info("user promoted to admin")
	return existing, nil
}
