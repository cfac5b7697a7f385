package repository

import (
	"errors"
	"testing"

	"github.com/witple/witple/internal/model"
	"github.com/witple/witple/internal/testutil"
)

func TestCreateUser_AssignsIDAndTimestamps(t *testing.T) {
	repo, ctx := newTestRepo(t)

	user := testutil.NewTestUser(t, "create")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.ID == 0 {
		t.Error("expected an assigned id")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Email != user.Email || got.Username != user.Username {
		t.Errorf("roundtrip mismatch: %+v vs %+v", got, user)
	}
	if got.UpdatedAt != nil {
		t.Error("updated_at should be null before any update")
	}
}

func TestCreateUser_Conflicts(t *testing.T) {
	repo, ctx := newTestRepo(t)

	first := testutil.NewTestUser(t, "conflict")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dupEmail := testutil.NewTestUser(t, "other")
	dupEmail.Email = first.Email
	if err := repo.CreateUser(ctx, dupEmail); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	dupUsername := testutil.NewTestUser(t, "another")
	dupUsername.Username = first.Username
	if err := repo.CreateUser(ctx, dupUsername); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}

func TestGetUserByIdentifier(t *testing.T) {
	repo, ctx := newTestRepo(t)

	user := testutil.NewTestUser(t, "ident")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := repo.GetUserByIdentifier(ctx, user.Email)
	if err != nil {
		t.Fatalf("lookup by email failed: %v", err)
	}
	byUsername, err := repo.GetUserByIdentifier(ctx, user.Username)
	if err != nil {
		t.Fatalf("lookup by username failed: %v", err)
	}
	if byEmail.ID != user.ID || byUsername.ID != user.ID {
		t.Error("identifier lookups should resolve the same user")
	}

	if _, err := repo.GetUserByIdentifier(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUser_PartialPatch(t *testing.T) {
	repo, ctx := newTestRepo(t)

	user := testutil.NewTestUser(t, "patch")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	fullName := "Test User"
	updated, err := repo.UpdateUser(ctx, user.ID, model.UserPatch{FullName: &fullName})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if updated.FullName == nil || *updated.FullName != fullName {
		t.Errorf("expected full_name set, got %v", updated.FullName)
	}
	if updated.Email != user.Email || updated.Username != user.Username {
		t.Error("untouched fields changed")
	}
	if updated.HashedPassword != user.HashedPassword {
		t.Error("password digest changed by a name-only patch")
	}
	if updated.UpdatedAt == nil {
		t.Error("updated_at should be set after update")
	}
}

func TestUpdateUser_EmptyPatch(t *testing.T) {
	repo, ctx := newTestRepo(t)

	user := testutil.NewTestUser(t, "nop")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := repo.UpdateUser(ctx, user.ID, model.UserPatch{})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if got.UpdatedAt != nil {
		t.Error("empty patch should not touch the row")
	}
}

func TestUpdateUser_NotFoundAndConflict(t *testing.T) {
	repo, ctx := newTestRepo(t)

	first := testutil.NewTestUser(t, "one")
	second := testutil.NewTestUser(t, "two")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, second); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	name := "ghost"
	if _, err := repo.UpdateUser(ctx, 999999, model.UserPatch{FullName: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := repo.UpdateUser(ctx, second.ID, model.UserPatch{Email: &first.Email}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}
