package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/metrics"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/sanitize"
)

const (
	msgUserExists         = "User already exists."
	msgInvalidCredentials = "Invalid credentials!"
	msgTooManyAttempts    = "Too many login attempts, try again later."
)

// SignupInput is a new member's registration data.
type SignupInput struct {
	Name          string
	Email         string
	Password      string
	StreetAddress string
	PostalCode    string
	Phone         string
	Bio           string
	Hobbies       []string
}

// Session is the result of a successful login.
type Session struct {
	User      *model.User
	Token     string
	CSRFToken string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	AdminLogin(ctx context.Context, email, password string) (*Session, error)
}

type authService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	throttle *auth.LoginThrottle
	log      *zap.Logger
}

// NewAuthService creates a new authentication service. throttle may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	throttle *auth.LoginThrottle,
	log *zap.Logger,
) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a member account. The unique email index is the source of
// truth; the lookup only avoids hashing for obvious duplicates.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	email := NormalizeEmail(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict(msgUserExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:          sanitize.Text(in.Name),
		Email:         email,
		PasswordHash:  hash,
		Role:          model.RoleMember,
		StreetAddress: sanitize.Text(in.StreetAddress),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		Phone:         strings.TrimSpace(in.Phone),
		Bio:           sanitize.Text(in.Bio),
		Hobbies:       sanitize.Strings(in.Hobbies),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(msgUserExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a member or admin through the regular entry point.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.checkCredentials(ctx, "member", email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, "member", user)
}

// AdminLogin authenticates and additionally requires the admin role. The
// password is verified before the role so the response does not reveal the
// role of an account to someone without its password.
func (s *authService) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.checkCredentials(ctx, "admin", email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		metrics.Logins.WithLabelValues("admin", "forbidden").Inc()
		s.log.Info("non-admin attempted admin login", zap.String("user_id", user.ID.Hex()))
		return nil, apperrors.Forbidden(auth.MsgAdminOnly)
	}
	return s.issue(ctx, "admin", user)
}

func (s *authService) checkCredentials(ctx context.Context, kind, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	if err := s.throttle.Check(ctx, email); err != nil {
		metrics.Logins.WithLabelValues(kind, "throttled").Inc()
		return nil, apperrors.TooManyRequests(msgTooManyAttempts)
	}

	user, err := s.users.FindByEmailWithPassword(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		metrics.Logins.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		s.throttle.Fail(ctx, email)
		metrics.Logins.WithLabelValues(kind, "invalid").Inc()
		return nil, apperrors.Unauthenticated(msgInvalidCredentials)
	}

	s.throttle.Reset(ctx, email)
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) issue(_ context.Context, kind string, user *model.User) (*Session, error) {
	token, csrf, err := s.tokens.Issue(user)
	if err != nil {
		metrics.Logins.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("issue session: %w", err)
	}
	metrics.Logins.WithLabelValues(kind, "success").Inc()
	return &Session{User: user, Token: token, CSRFToken: csrf}, nil
}
