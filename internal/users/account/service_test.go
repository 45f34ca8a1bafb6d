// Copyright (c) 2026 PrepDeck. All rights reserved.

package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
	"github.com/prepdeck/prepdeck/internal/users/auth"
)

type memoryUsers struct {
	byID map[string]*auth.User
}

func newMemoryUsers(users ...*auth.User) *memoryUsers {
	m := &memoryUsers{byID: make(map[string]*auth.User)}
	for _, user := range users {
		m.byID[user.ID] = user
	}
	return m
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := m.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range m.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, user *auth.User) error {
	existing, ok := m.byID[user.ID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	existing.Name = user.Name
	existing.Email = user.Email
	return nil
}

func (m *memoryUsers) UpdateSubscription(_ context.Context, userID string, subscription auth.Subscription) error {
	user, ok := m.byID[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.Subscription = subscription
	return nil
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileTouchesOnlyProvidedFields(t *testing.T) {
	users := newMemoryUsers(&auth.User{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	service := NewService(users)

	updated, err := service.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Name: strPtr("Ada Lovelace"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email, "unset fields must be preserved")
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	service := NewService(newMemoryUsers())

	_, err := service.UpdateProfile(context.Background(), "ghost", UpdateProfileInput{Name: strPtr("X")})
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

func TestUpdateSubscriptionActivatesTier(t *testing.T) {
	users := newMemoryUsers(&auth.User{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	service := NewService(users)

	updated, err := service.UpdateSubscription(context.Background(), "u1", auth.Subscription{
		Plan:     sec.PlanPro,
		IsActive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, sec.PlanPro, updated.Subscription.Plan)
	assert.True(t, updated.Subscription.HasAtLeast(sec.PlanPremium))
}
