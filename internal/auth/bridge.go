// Package auth connects identity sign-in to the users collection.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/taskboard/internal/identity"
	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

// ProfileStore reads and creates users/{uid} records.
type ProfileStore interface {
	GetUser(ctx context.Context, id string) (models.UserProfile, error)
	CreateUser(ctx context.Context, profile models.UserProfile) (models.UserProfile, error)
}

type Bridge struct {
	identity identity.Provider
	profiles ProfileStore
}

func NewBridge(provider identity.Provider, profiles ProfileStore) *Bridge {
	return &Bridge{identity: provider, profiles: profiles}
}

// Register creates the account and its user-role profile, then signs
// out again. Registering never leaves a live session.
func (b *Bridge) Register(ctx context.Context, email, password string) (models.UserProfile, error) {
	user, err := b.identity.CreateAccount(ctx, email, password)
	if err != nil {
		return models.UserProfile{}, err
	}

	profile, createErr := b.profiles.CreateUser(ctx, models.UserProfile{
		ID:    user.ID,
		Email: user.Email,
		Role:  models.RoleUser,
	})
	if errors.Is(createErr, storage.ErrAlreadyExists) {
		profile, createErr = b.profiles.GetUser(ctx, user.ID)
	}

	if err := b.identity.SignOut(ctx); err != nil {
		return models.UserProfile{}, err
	}
	if createErr != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create profile: %w", createErr)
	}

	logger.Info("Registered account", "user", profile.ID)
	return profile, nil
}

func (b *Bridge) Login(ctx context.Context, email, password string) (*identity.User, error) {
	return b.identity.SignIn(ctx, email, password)
}

// LoginWithGoogle signs in through Google. The first sign-in creates the
// profile with role user; later sign-ins leave the profile untouched.
func (b *Bridge) LoginWithGoogle(ctx context.Context) (*identity.User, error) {
	user, err := b.identity.SignInFederated(ctx)
	if err != nil {
		return nil, err
	}

	_, err = b.profiles.GetUser(ctx, user.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	_, err = b.profiles.CreateUser(ctx, models.UserProfile{
		ID:          user.ID,
		Email:       user.Email,
		Role:        models.RoleUser,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	})
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return user, nil
}

func (b *Bridge) Logout(ctx context.Context) error {
	return b.identity.SignOut(ctx)
}
