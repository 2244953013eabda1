package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/yuqiannemo/WanderMind/app/observability/metrics"
	"github.com/yuqiannemo/WanderMind/config"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Signup(ctx context.Context, req types.SignupRequest) (types.TokenResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (types.TokenResponse, error)
	Me(ctx context.Context, userID string) (types.User, error)
	UpdatePreferences(ctx context.Context, userID string, interests []string) (types.User, error)
	// VerifyToken returns the user id of a valid token whose user still exists.
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthServiceImpl struct {
	repo       UserRepo
	jwtCfg     config.JWTConfig
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(repo UserRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return newAuthService(repo, jwtCfg, logger, bcrypt.DefaultCost)
}

func newAuthService(repo UserRepo, jwtCfg config.JWTConfig, logger *slog.Logger, cost int) *AuthServiceImpl {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("wandermind-dummy-password"), cost)
	if jwtCfg.AccessTokenTTL <= 0 {
		jwtCfg.AccessTokenTTL = 7 * 24 * time.Hour
	}
	return &AuthServiceImpl{
		repo:       repo,
		jwtCfg:     jwtCfg,
		logger:     logger,
		bcryptCost: cost,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

// Signup creates an account and returns a token for it.
func (s *AuthServiceImpl) Signup(ctx context.Context, req types.SignupRequest) (types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signup")
	defer span.End()

	req.Email = NormaliseEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	l := s.logger.With(slog.String("method", "Signup"), slog.String("email", req.Email))

	if err := api.ValidateStruct(req); err != nil {
		span.SetStatus(codes.Error, "Invalid signup request")
		return types.TokenResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return types.TokenResponse{}, api.NewValidationError("password", "must be at most 72 bytes long")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return types.TokenResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	user := types.UserAuth{
		User: types.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Name:      req.Name,
			Interests: []string{},
			CreatedAt: s.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, api.ErrConflict) {
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return types.TokenResponse{}, err
	}

	resp, err := s.issue(user.User)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue token")
		return types.TokenResponse{}, err
	}

	metrics.Inc(ctx, metrics.Get().SignupsTotal)
	span.SetAttributes(attribute.String("user.id", user.ID))
	span.SetStatus(codes.Ok, "User signed up")
	l.InfoContext(ctx, "User signed up", slog.String("userID", user.ID))
	return resp, nil
}

// Login checks credentials. Unknown emails and wrong passwords fail alike.
func (s *AuthServiceImpl) Login(ctx context.Context, req types.LoginRequest) (types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	req.Email = NormaliseEmail(req.Email)
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", req.Email))

	if err := api.ValidateStruct(req); err != nil {
		return types.TokenResponse{}, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, api.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		l.InfoContext(ctx, "Login for unknown email")
		span.SetStatus(codes.Error, "Invalid credentials")
		return types.TokenResponse{}, api.Errorf(api.ErrUnauthenticated, credentialsMessage)
	case err != nil:
		l.ErrorContext(ctx, "Failed to load user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user")
		return types.TokenResponse{}, fmt.Errorf("loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		l.InfoContext(ctx, "Login with wrong password")
		span.SetStatus(codes.Error, "Invalid credentials")
		return types.TokenResponse{}, api.Errorf(api.ErrUnauthenticated, credentialsMessage)
	}

	resp, err := s.issue(user.User)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue token")
		return types.TokenResponse{}, err
	}
	span.SetStatus(codes.Ok, "User logged in")
	return resp, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (types.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdatePreferences replaces the user's interest set.
func (s *AuthServiceImpl) UpdatePreferences(ctx context.Context, userID string, interests []string) (types.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "UpdatePreferences", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	user, err := s.repo.UpdateInterests(ctx, userID, NormaliseInterests(interests))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update preferences")
		return types.User{}, err
	}
	span.SetStatus(codes.Ok, "Preferences updated")
	return user, nil
}

// VerifyToken checks signature, algorithm, issuer, audience and expiry, and
// that the account still exists.
func (s *AuthServiceImpl) VerifyToken(ctx context.Context, token string) (string, error) {
	claims := &types.Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.jwtCfg.Issuer),
		jwt.WithTimeFunc(s.now),
	}
	if s.jwtCfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.jwtCfg.Audience))
	}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.jwtCfg.SecretKey), nil
	}, opts...)
	if err != nil {
		msg := "invalid or expired token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token has expired"
		}
		return "", fmt.Errorf("%s: %w", msg, errors.Join(api.ErrUnauthenticated, err))
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return "", api.Errorf(api.ErrUnauthenticated, "user no longer exists")
		}
		return "", fmt.Errorf("loading token user: %w", err)
	}
	return userID, nil
}

func (s *AuthServiceImpl) issue(user types.User) (types.TokenResponse, error) {
	now := s.now()
	claims := types.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}
	if s.jwtCfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.jwtCfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return types.TokenResponse{}, fmt.Errorf("signing token: %w", err)
	}
	return types.TokenResponse{AccessToken: signed, TokenType: TokenType, User: user.Clone()}, nil
}
