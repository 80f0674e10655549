package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"zhiyu.io/assistantportal/internal/model"
)

const (
	assistantActive   = model.AssistantStatusActive
	assistantInactive = model.AssistantStatusInactive
)

func seedAssistant(t *testing.T, store *memStore, externalID, status string) *model.Assistant {
	t.Helper()

	assistant := &model.Assistant{
		AssistantID: externalID,
		Name:        externalID,
		Status:      status,
	}
	repo := &stubAssistantRepo{store: store}
	if err := repo.Create(context.Background(), assistant); err != nil {
		t.Fatalf("failed to seed assistant %q: %v", externalID, err)
	}
	return assistant
}

func seedRole(t *testing.T, store *memStore, name string) *model.Role {
	t.Helper()

	role := &model.Role{Name: name}
	repo := &stubRoleRepo{store: store}
	if err := repo.Create(context.Background(), role); err != nil {
		t.Fatalf("failed to seed role %q: %v", name, err)
	}
	return role
}

func seedUser(t *testing.T, store *memStore, username, email string, roleIDs ...uint) uint {
	t.Helper()
	return seedUserWithPassword(t, store, username, email, "secret-password", roleIDs...)
}

func seedUserWithPassword(t *testing.T, store *memStore, username, email, password string, roleIDs ...uint) uint {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash seed password: %v", err)
	}

	user := &model.User{
		Username:     username,
		RealName:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}
	repo := &stubUserRepo{store: store}
	if err := repo.Create(context.Background(), user, roleIDs); err != nil {
		t.Fatalf("failed to seed user %q: %v", username, err)
	}
	return user.ID
}

func grant(t *testing.T, store *memStore, roleID, assistantID uint) {
	t.Helper()

	repo := &stubRoleRepo{store: store}
	if err := repo.Grant(context.Background(), roleID, assistantID); err != nil {
		t.Fatalf("failed to seed grant (%d, %d): %v", roleID, assistantID, err)
	}
}
