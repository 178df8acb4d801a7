package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/pkg/crypto"
	"cryptorafts.backend/pkg/jwt"
	"cryptorafts.backend/pkg/logger"
)

const verificationCodeTTL = 10 * time.Minute

// codeStore is satisfied by redis.CodeStore
type codeStore interface {
	Save(ctx context.Context, userID, email, code string, expiration time.Duration) error
	Verify(ctx context.Context, userID, code string) error
	Invalidate(ctx context.Context, userID string) error
}

// registrationNotifier is the slice of Mailer the auth flow needs
type registrationNotifier interface {
	SendRegistrationConfirmation(ctx context.Context, to, name, token string) bool
	SendVerificationCode(ctx context.Context, to, name, code string) bool
}

var allowedRoles = map[entities.UserRole]bool{
	entities.UserRoleFounder:    true,
	entities.UserRoleVC:         true,
	entities.UserRoleExchange:   true,
	entities.UserRoleIDO:        true,
	entities.UserRoleAgency:     true,
	entities.UserRoleInfluencer: true,
}

// AuthUsecase handles registration, login and email verification
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	verifyRepo repositories.EmailVerificationRepository
	jwtService *jwt.JWTService
	notifier   registrationNotifier
	codes      codeStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	verifyRepo repositories.EmailVerificationRepository,
	jwtService *jwt.JWTService,
	notifier registrationNotifier,
	codes codeStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		verifyRepo: verifyRepo,
		jwtService: jwtService,
		notifier:   notifier,
		codes:      codes,
	}
}

// Register creates a user account and sends the confirmation email
func (u *AuthUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.AuthResponse, error) {
	role := entities.UserRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if !allowedRoles[role] {
		return nil, domainerrors.BadRequest("unknown role")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.Conflict("email already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
		KYCStatus:    entities.StatusPending,
		KYBStatus:    entities.StatusPending,
	}
	if input.CompanyName != "" {
		user.CompanyName = null.StringFrom(input.CompanyName)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.sendConfirmation(ctx, user)

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// Login authenticates with email and password
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}, nil
}

// VerifyEmail consumes a confirmation token and flags the account verified
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) (*entities.User, error) {
	user, err := u.verifyRepo.GetUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := u.verifyRepo.MarkVerified(ctx, token); err != nil {
		return nil, err
	}
	if err := u.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsEmailVerified = true
	return user, nil
}

// Me returns the authenticated user's account
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// RequestCode issues a one-time code for a sensitive action and emails it
func (u *AuthUsecase) RequestCode(ctx context.Context, userID uuid.UUID) error {
	if u.codes == nil {
		return domainerrors.ErrNotConfigured
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	code, err := crypto.GenerateRandomToken(3) // 6 hex chars
	if err != nil {
		return err
	}
	if err := u.codes.Save(ctx, user.ID.String(), user.Email, code, verificationCodeTTL); err != nil {
		return err
	}

	if u.notifier != nil {
		u.notifier.SendVerificationCode(ctx, user.Email, user.Name, code)
	}
	return nil
}

// VerifyCode checks and consumes a one-time code
func (u *AuthUsecase) VerifyCode(ctx context.Context, userID uuid.UUID, code string) error {
	if u.codes == nil {
		return domainerrors.ErrNotConfigured
	}
	return u.codes.Verify(ctx, userID.String(), code)
}

func (u *AuthUsecase) sendConfirmation(ctx context.Context, user *entities.User) {
	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		logger.Error(ctx, "generate verification token failed", zap.Error(err))
		return
	}
	if err := u.verifyRepo.Create(ctx, user.ID, token); err != nil {
		logger.Error(ctx, "store verification token failed", zap.Error(err))
		return
	}
	if u.notifier != nil {
		u.notifier.SendRegistrationConfirmation(ctx, user.Email, user.Name, token)
	}
}
