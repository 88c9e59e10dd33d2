package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
)

type fakeUserRepo struct {
	nextID  int64
	byID    map[int64]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID:  1,
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	existing, ok := f.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.byEmail, existing.Email)
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

type fakeVerificationRepo struct {
	nextID int64
	byCode map[string]*domain.Verification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{nextID: 1, byCode: make(map[string]*domain.Verification)}
}

func (f *fakeVerificationRepo) Create(_ context.Context, verification *domain.Verification) error {
	verification.ID = f.nextID
	f.nextID++
	stored := *verification
	f.byCode[verification.Code] = &stored
	return nil
}

func (f *fakeVerificationRepo) GetByCode(_ context.Context, code string) (*domain.Verification, error) {
	verification, ok := f.byCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *verification
	return &copied, nil
}

func (f *fakeVerificationRepo) Delete(_ context.Context, id int64) error {
	for code, verification := range f.byCode {
		if verification.ID == id {
			delete(f.byCode, code)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeVerificationRepo) DeleteByUserID(_ context.Context, userID int64) error {
	for code, verification := range f.byCode {
		if verification.UserID == userID {
			delete(f.byCode, code)
		}
	}
	return nil
}

func (f *fakeVerificationRepo) codeForUser(userID int64) string {
	for code, verification := range f.byCode {
		if verification.UserID == userID {
			return code
		}
	}
	return ""
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "service-test-secret",
			BcryptCost: 4,
		},
	}
}

func newTestUserService() (*UserService, *fakeUserRepo, *fakeVerificationRepo, events.Dispatcher) {
	users := newFakeUserRepo()
	verifications := newFakeVerificationRepo()
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewUserService(testConfig(), UserDependencies{
		UserRepo:         users,
		VerificationRepo: verifications,
		Dispatcher:       dispatcher,
	})
	return svc, users, verifications, dispatcher
}

func TestCreateAccountAndLogin(t *testing.T) {
	svc, _, verifications, dispatcher := newTestUserService()
	ctx := context.Background()

	var published []events.Event
	dispatcher.Subscribe(events.EventAccountCreated, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	user, err := svc.CreateAccount(ctx, "owner@example.com", "pa55word", domain.RoleOwner)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.Verified {
		t.Fatalf("new accounts must start unverified")
	}
	if code := verifications.codeForUser(user.ID); code == "" {
		t.Fatalf("expected verification code for new account")
	}
	if len(published) != 1 {
		t.Fatalf("expected 1 account_created event, got %d", len(published))
	}

	token, err := svc.Login(ctx, "owner@example.com", "pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	subjectID, err := svc.TokenManager().Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subjectID != user.ID {
		t.Fatalf("token subject %d, want %d", subjectID, user.ID)
	}
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestUserService()
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, "dup@example.com", "secret", domain.RoleClient); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateAccount(ctx, "dup@example.com", "secret", domain.RoleClient); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginFixedErrors(t *testing.T) {
	svc, _, _, _ := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Login(ctx, "ghost@example.com", "whatever"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := svc.CreateAccount(ctx, "real@example.com", "correct", domain.RoleClient); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Login(ctx, "real@example.com", "incorrect"); err != ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	svc, users, verifications, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "verify@example.com", "secret", domain.RoleClient)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	code := verifications.codeForUser(user.ID)

	if err := svc.VerifyEmail(ctx, code); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	stored, _ := users.GetByID(ctx, user.ID)
	if !stored.Verified {
		t.Fatalf("user not marked verified")
	}
	if err := svc.VerifyEmail(ctx, code); err != ErrVerificationNotFound {
		t.Fatalf("expected ErrVerificationNotFound on reuse, got %v", err)
	}
}

func TestEditProfileEmailChangeResetsVerification(t *testing.T) {
	svc, users, verifications, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "before@example.com", "secret", domain.RoleClient)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.VerifyEmail(ctx, verifications.codeForUser(user.ID)); err != nil {
		t.Fatalf("verify: %v", err)
	}

	newEmail := "after@example.com"
	if err := svc.EditProfile(ctx, user.ID, &newEmail, nil); err != nil {
		t.Fatalf("edit profile: %v", err)
	}

	stored, _ := users.GetByID(ctx, user.ID)
	if stored.Email != newEmail {
		t.Fatalf("email not updated: %s", stored.Email)
	}
	if stored.Verified {
		t.Fatalf("email change must reset verified flag")
	}
	if verifications.codeForUser(user.ID) == "" {
		t.Fatalf("expected fresh verification code after email change")
	}
}
