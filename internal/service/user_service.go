package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// Fixed user-facing error values. Internal causes are logged upstream and
// never substituted into these.
var (
	ErrEmailTaken           = errors.New("there is a user with that email already")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("wrong password")
	ErrVerificationNotFound = errors.New("verification not found")
)

// UserService coordinates account creation, login and profile flows.
type UserService struct {
	users         repository.UserRepository
	verifications repository.VerificationRepository
	tokenMgr      *auth.TokenManager
	dispatcher    events.Dispatcher
	bcryptCost    int
}

// UserDependencies bundles repo requirements for the user service.
type UserDependencies struct {
	UserRepo         repository.UserRepository
	VerificationRepo repository.VerificationRepository
	Dispatcher       events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:         deps.UserRepo,
		verifications: deps.VerificationRepo,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher:    deps.Dispatcher,
		bcryptCost:    cfg.Auth.BcryptCost,
	}
}

// CreateAccount registers a new account and kicks off email verification.
func (s *UserService) CreateAccount(ctx context.Context, email, password string, role domain.UserRole) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	verification := &domain.Verification{
		Code:   uuid.NewString(),
		UserID: user.ID,
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventAccountCreated, events.AccountCreatedPayload{
		UserID:           user.ID,
		Email:            user.Email,
		VerificationCode: verification.Code,
	})
	return user, nil
}

// Login authenticates an account and issues a token for its id.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", ErrWrongPassword
	}
	return s.tokenMgr.Sign(user.ID)
}

// FindByID returns the user profile for the given id.
func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EditProfile updates email and/or password. A changed email resets the
// verified flag and issues a fresh verification code.
func (s *UserService) EditProfile(ctx context.Context, userID int64, email, password *string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	if email != nil && *email != "" && *email != user.Email {
		user.Email = *email
		user.Verified = false
		if err := s.verifications.DeleteByUserID(ctx, user.ID); err != nil {
			return err
		}
		verification := &domain.Verification{
			Code:   uuid.NewString(),
			UserID: user.ID,
		}
		if err := s.verifications.Create(ctx, verification); err != nil {
			return err
		}
		s.publish(ctx, events.EventEmailChanged, events.EmailChangedPayload{
			UserID:           user.ID,
			Email:            user.Email,
			VerificationCode: verification.Code,
		})
	}

	if password != nil && *password != "" {
		hash, err := auth.HashPassword(*password, s.bcryptCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	return s.users.Update(ctx, user)
}

// VerifyEmail marks the owning user verified and consumes the code.
func (s *UserService) VerifyEmail(ctx context.Context, code string) error {
	verification, err := s.verifications.GetByCode(ctx, code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrVerificationNotFound
		}
		return err
	}

	user, err := s.users.GetByID(ctx, verification.UserID)
	if err != nil {
		return err
	}
	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.verifications.Delete(ctx, verification.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *UserService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
