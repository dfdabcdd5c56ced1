// Package auth orchestrates registration, login, refresh, and logout over
// the credential store, the refresh-token ledger, and the token codec.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-todo-server/token"
	"github.com/jrsteele09/go-todo-server/token/ledger"
	"github.com/jrsteele09/go-todo-server/users"
	"github.com/pkg/errors"
)

// Messages returned to clients. Credential failures share one constant
// message so callers can never learn which check failed.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgRefreshRequired    = "Refresh token required"
	MsgInvalidRefresh     = "Invalid or expired refresh token"
)

// Repos holds the repository dependencies for the Service.
type Repos struct {
	Users  users.UserRepo
	Ledger ledger.Repo
}

// Session is the result of a successful Register or Login.
type Session struct {
	User         *users.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // access token lifetime in seconds
}

// Refreshed is the result of a successful Refresh. The refresh token is
// deliberately absent: refresh reissues only the access token and leaves
// the ledger row untouched.
type Refreshed struct {
	AccessToken string
	ExpiresIn   int
}

// Service implements the authentication flow. Each call is a fresh
// invocation; no state persists between calls outside the repositories.
type Service struct {
	repos      Repos
	codec      *token.Codec
	bcryptCost int
	nowTime    func() time.Time
}

// ServiceOption modifies a Service.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithBcryptCost overrides the password hashing work factor.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// NewService initializes a Service with its required dependencies.
func NewService(repos Repos, codec *token.Codec, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Ledger == nil {
		return nil, errors.New("[NewService] Ledger repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] token codec is required")
	}

	s := &Service{
		repos:      repos,
		codec:      codec,
		bcryptCost: 10,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Register validates the input, creates the user, and issues a token pair.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	fields := map[string][]string{}
	if err := users.ValidateEmail(email); err != nil {
		fields["email"] = append(fields["email"], err.Error())
	}
	if err := users.ValidatePassword(password); err != nil {
		fields["password"] = append(fields["password"], err.Error())
	}
	if err := users.ValidateName(name); err != nil {
		fields["name"] = append(fields["name"], err.Error())
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	if _, err := s.repos.Users.GetByEmail(ctx, email); err == nil {
		return nil, NewConflictError("email", "Email already registered")
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, NewInternalError(errors.Wrap(err, "[Service.Register] Users.GetByEmail"))
	}

	hash, err := users.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, NewInternalError(errors.Wrap(err, "[Service.Register] HashPassword"))
	}

	user := &users.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the lookup above; the
		// unique constraint is the backstop.
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, NewConflictError("email", "Email already registered")
		}
		return nil, NewInternalError(errors.Wrap(err, "[Service.Register] Users.Create"))
	}

	return s.issueSession(ctx, user)
}

// Login verifies credentials and issues a token pair. A wrong password and
// an unknown email produce identical errors.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	fields := map[string][]string{}
	if email == "" {
		fields["email"] = append(fields["email"], "email is required")
	}
	if password == "" {
		fields["password"] = append(fields["password"], "password is required")
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, NewUnauthorizedError(MsgInvalidCredentials)
		}
		return nil, NewInternalError(errors.Wrap(err, "[Service.Login] Users.GetByEmail"))
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, NewUnauthorizedError(MsgInvalidCredentials)
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token and its ledger row are left in place; the same token stays
// valid until its expiry or an explicit logout.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Refreshed, error) {
	if refreshToken == "" {
		return nil, NewUnauthorizedError(MsgRefreshRequired)
	}

	claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, NewUnauthorizedError(MsgInvalidRefresh)
	}

	record, err := s.repos.Ledger.Get(ctx, claims.JTI())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, NewUnauthorizedError(MsgInvalidRefresh)
		}
		return nil, NewInternalError(errors.Wrap(err, "[Service.Refresh] Ledger.Get"))
	}
	if record.UserID != claims.UserID {
		return nil, NewUnauthorizedError(MsgInvalidRefresh)
	}
	if record.ExpiresAt.Before(s.nowTime()) {
		return nil, NewUnauthorizedError(MsgInvalidRefresh)
	}

	user, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// The account was deleted after the token was issued.
			return nil, NewUnauthorizedError(MsgInvalidRefresh)
		}
		return nil, NewInternalError(errors.Wrap(err, "[Service.Refresh] Users.GetByID"))
	}

	accessToken, err := s.codec.SignAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, NewInternalError(errors.Wrap(err, "[Service.Refresh] SignAccessToken"))
	}

	return &Refreshed{
		AccessToken: accessToken,
		ExpiresIn:   int(s.codec.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout revokes the ledger row behind the given refresh token. It never
// fails from the caller's perspective: a missing, malformed, or already
// revoked token is simply ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return
	}
	_ = s.repos.Ledger.DeleteByJTI(ctx, claims.JTI())
}

// PruneExpiredSessions removes ledger rows whose expiry has passed. Expired
// rows are already rejected at refresh time; this reclaims the storage.
func (s *Service) PruneExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repos.Ledger.DeleteExpired(ctx, s.nowTime())
	if err != nil {
		return 0, NewInternalError(errors.Wrap(err, "[Service.PruneExpiredSessions] Ledger.DeleteExpired"))
	}
	return n, nil
}

// UserByID fetches the user behind validated access-token claims, for the
// /auth/me endpoint.
func (s *Service) UserByID(ctx context.Context, id string) (*users.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, NewNotFoundError("User not found")
		}
		return nil, NewInternalError(errors.Wrap(err, "[Service.UserByID] Users.GetByID"))
	}
	return user, nil
}

func (s *Service) issueSession(ctx context.Context, user *users.User) (*Session, error) {
	accessToken, err := s.codec.SignAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, NewInternalError(errors.Wrap(err, "[Service.issueSession] SignAccessToken"))
	}

	refreshToken, jti, err := s.codec.SignRefreshToken(user.ID)
	if err != nil {
		return nil, NewInternalError(errors.Wrap(err, "[Service.issueSession] SignRefreshToken"))
	}

	// Concurrent logins insert independent rows; one live session per
	// device is the intended behavior.
	record := &ledger.Record{
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: s.codec.RefreshTokenExpiry(),
	}
	if err := s.repos.Ledger.Create(ctx, record); err != nil {
		return nil, NewInternalError(errors.Wrap(err, "[Service.issueSession] Ledger.Create"))
	}

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.codec.AccessTokenTTL().Seconds()),
	}, nil
}
