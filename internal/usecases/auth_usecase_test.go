package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/usecases"
	"cryptorafts.backend/pkg/crypto"
	"cryptorafts.backend/pkg/jwt"
)

type MockCodeStore struct {
	mock.Mock
}

func (m *MockCodeStore) Save(ctx context.Context, userID, email, code string, expiration time.Duration) error {
	args := m.Called(ctx, userID, email, code, expiration)
	return args.Error(0)
}

func (m *MockCodeStore) Verify(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *MockCodeStore) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testJWTService() *jwt.JWTService {
	return jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestAuthRegister_IssuesTokensAndSendsConfirmation(t *testing.T) {
	userRepo := new(MockUserRepository)
	verifyRepo := new(MockEmailVerificationRepository)
	notifier := new(MockNotifier)
	uc := usecases.NewAuthUsecase(userRepo, verifyRepo, testJWTService(), notifier, nil)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, domainerrors.ErrNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == entities.UserRoleFounder &&
			u.KYCStatus == entities.StatusPending &&
			u.PasswordHash != "" && u.PasswordHash != "secret123"
	})).Return(nil)
	verifyRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("string")).Return(nil)
	notifier.On("SendRegistrationConfirmation", ctx, "new@example.com", "New User", mock.AnythingOfType("string")).Return(true)

	resp, err := uc.Register(ctx, &entities.CreateUserInput{
		Email:    " New@Example.com ",
		Password: "secret123",
		Name:     "New User",
		Role:     "Founder",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	notifier.AssertExpectations(t)
}

func TestAuthRegister_AdminRoleRejected(t *testing.T) {
	uc := usecases.NewAuthUsecase(new(MockUserRepository), new(MockEmailVerificationRepository), testJWTService(), nil, nil)

	_, err := uc.Register(context.Background(), &entities.CreateUserInput{
		Email:    "boss@example.com",
		Password: "secret123",
		Role:     "admin",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewAuthUsecase(userRepo, new(MockEmailVerificationRepository), testJWTService(), nil, nil)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "taken@example.com").Return(&entities.User{ID: uuid.New()}, nil)

	_, err := uc.Register(ctx, &entities.CreateUserInput{
		Email:    "taken@example.com",
		Password: "secret123",
		Role:     "vc",
	})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewAuthUsecase(userRepo, new(MockEmailVerificationRepository), testJWTService(), nil, nil)
	ctx := context.Background()

	hash, err := crypto.HashPassword("right-password")
	require.NoError(t, err)
	userRepo.On("GetByEmail", ctx, "user@example.com").Return(&entities.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
	}, nil)

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "user@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthLogin_UnknownEmailSameError(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewAuthUsecase(userRepo, new(MockEmailVerificationRepository), testJWTService(), nil, nil)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domainerrors.ErrNotFound)

	_, err := uc.Login(ctx, &entities.LoginInput{Email: "ghost@example.com", Password: "whatever"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthRefresh_RoundTrip(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := testJWTService()
	uc := usecases.NewAuthUsecase(userRepo, new(MockEmailVerificationRepository), svc, nil, nil)
	ctx := context.Background()

	user := &entities.User{ID: uuid.New(), Email: "user@example.com", Role: entities.UserRoleVC}
	pair, err := svc.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	resp, err := uc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, user.ID, resp.User.ID)
}

func TestAuthRefresh_GarbageToken(t *testing.T) {
	uc := usecases.NewAuthUsecase(new(MockUserRepository), new(MockEmailVerificationRepository), testJWTService(), nil, nil)

	_, err := uc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthVerifyEmail_ConsumesToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	verifyRepo := new(MockEmailVerificationRepository)
	uc := usecases.NewAuthUsecase(userRepo, verifyRepo, testJWTService(), nil, nil)
	ctx := context.Background()

	user := &entities.User{ID: uuid.New(), Email: "user@example.com"}
	verifyRepo.On("GetUserByToken", ctx, "tok123").Return(user, nil)
	verifyRepo.On("MarkVerified", ctx, "tok123").Return(nil)
	userRepo.On("MarkEmailVerified", ctx, user.ID).Return(nil)

	got, err := uc.VerifyEmail(ctx, "tok123")
	require.NoError(t, err)
	require.True(t, got.IsEmailVerified)
	verifyRepo.AssertExpectations(t)
}

func TestAuthVerifyEmail_UnknownToken(t *testing.T) {
	verifyRepo := new(MockEmailVerificationRepository)
	uc := usecases.NewAuthUsecase(new(MockUserRepository), verifyRepo, testJWTService(), nil, nil)
	ctx := context.Background()

	verifyRepo.On("GetUserByToken", ctx, "stale").Return(nil, domainerrors.ErrNotFound)

	_, err := uc.VerifyEmail(ctx, "stale")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAuthRequestCode_SavesAndEmails(t *testing.T) {
	userRepo := new(MockUserRepository)
	codes := new(MockCodeStore)
	notifier := new(MockNotifier)
	uc := usecases.NewAuthUsecase(userRepo, new(MockEmailVerificationRepository), testJWTService(), notifier, codes)
	ctx := context.Background()

	user := &entities.User{ID: uuid.New(), Email: "user@example.com", Name: "User"}
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	var issued string
	codes.On("Save", ctx, user.ID.String(), user.Email, mock.AnythingOfType("string"), 10*time.Minute).
		Run(func(args mock.Arguments) { issued = args.String(3) }).
		Return(nil)
	notifier.On("SendVerificationCode", ctx, user.Email, user.Name, mock.AnythingOfType("string")).Return(true)

	require.NoError(t, uc.RequestCode(ctx, user.ID))
	require.Len(t, issued, 6)

	codes.On("Verify", ctx, user.ID.String(), issued).Return(nil)
	require.NoError(t, uc.VerifyCode(ctx, user.ID, issued))
}

func TestAuthRequestCode_NotConfigured(t *testing.T) {
	uc := usecases.NewAuthUsecase(new(MockUserRepository), new(MockEmailVerificationRepository), testJWTService(), nil, nil)

	err := uc.RequestCode(context.Background(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotConfigured)
}
