package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, username, email string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username: username,
		Email:    email,
		Role:     domain.RoleUser,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_List(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	seedUser(t, repo, "alice", "alice@example.com")
	inactive := seedUser(t, repo, "bob", "bob@example.com")
	repo.users[inactive.ID].IsActive = false

	page, err := svc.List(context.Background(), ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Users) != 1 || page.Users[0].Username != "alice" {
		t.Fatalf("expected only active users, got %+v", page.Users)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != 10 {
		t.Fatalf("expected default pagination, got %+v", page.Pagination)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	u := seedUser(t, repo, "carol", "carol@example.com")

	first := "Carol"
	updated, err := svc.UpdateProfile(context.Background(), u.ID, ports.UpdateProfileInput{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "Carol" {
		t.Fatalf("first name not applied: %+v", updated)
	}
	if updated.Username != "carol" || updated.Email != "carol@example.com" {
		t.Fatalf("untouched fields must be preserved: %+v", updated)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	u := seedUser(t, repo, "dave", "dave@example.com")

	if _, err := svc.UpdateRole(context.Background(), u.ID, "superuser"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	updated, err := svc.UpdateRole(context.Background(), u.ID, domain.RoleModerator)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if updated.Role != domain.RoleModerator {
		t.Fatalf("role not applied: %+v", updated)
	}
}

func TestUserService_DeactivateAndDelete(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	u := seedUser(t, repo, "erin", "erin@example.com")

	if err := svc.Deactivate(context.Background(), u.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if repo.users[u.ID].IsActive {
		t.Fatalf("expected is_active false after soft delete")
	}
	if _, ok := repo.users[u.ID]; !ok {
		t.Fatalf("soft delete must keep the record")
	}

	if err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.users[u.ID]; ok {
		t.Fatalf("permanent delete must remove the record")
	}

	if err := svc.Delete(context.Background(), u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
