// Package accounts provisions buyer accounts in the account registry
// (Firebase Auth) when an order is fulfilled.
package accounts

import (
	"context"
	"fmt"
	"os"
	"strings"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"storeflow/internal/models"
)

const fallbackPassword = "trocar-senha-123"

// registry is the slice of the Firebase auth client the provisioner uses.
type registry interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
}

type profileStore interface {
	CustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	SaveCustomerProfile(ctx context.Context, customer models.Customer) error
}

type Provisioner struct {
	registry        registry
	profiles        profileStore
	defaultPassword string
	logger          *zap.SugaredLogger
}

func NewProvisioner(authClient *auth.Client, profiles profileStore, logger *zap.SugaredLogger) *Provisioner {
	password := os.Getenv("DEFAULT_ACCOUNT_PASSWORD")
	if password == "" {
		password = fallbackPassword
	}
	var reg registry
	if authClient != nil {
		reg = authClient
	}
	return &Provisioner{
		registry:        reg,
		profiles:        profiles,
		defaultPassword: password,
		logger:          logger,
	}
}

// EnsureAccount creates a buyer account for the email, or recovers the
// identifier of the existing one. Recovery order on an email conflict:
// registry lookup first, local profile table second.
func (p *Provisioner) EnsureAccount(ctx context.Context, email, name, phone string) (string, error) {
	if p.registry == nil {
		return "", fmt.Errorf("account registry not configured")
	}

	params := (&auth.UserToCreate{}).
		Email(email).
		Password(p.defaultPassword).
		DisplayName(name)

	record, err := p.registry.CreateUser(ctx, params)
	if err == nil {
		p.saveProfile(ctx, record.UID, email, name, phone)
		return record.UID, nil
	}

	if !isEmailConflict(err) {
		return "", fmt.Errorf("failed to create account for %s: %w", email, err)
	}

	existing, lookupErr := p.registry.GetUserByEmail(ctx, email)
	if lookupErr == nil {
		return existing.UID, nil
	}
	p.logger.Warnw("registry lookup failed after email conflict, trying profile table",
		"email", email, "error", lookupErr)

	customer, profileErr := p.profiles.CustomerByEmail(ctx, email)
	if profileErr != nil {
		return "", fmt.Errorf("failed to resolve existing account for %s: %w", email, profileErr)
	}
	if customer == nil || customer.UserID == "" {
		return "", fmt.Errorf("account for %s exists in registry but could not be resolved", email)
	}
	return customer.UserID, nil
}

func (p *Provisioner) saveProfile(ctx context.Context, userID, email, name, phone string) {
	profile := models.Customer{
		UserID: userID,
		Email:  email,
		Name:   name,
		Phone:  phone,
	}
	if err := p.profiles.SaveCustomerProfile(ctx, profile); err != nil {
		// Profile row is a convenience copy; account creation already stuck.
		p.logger.Warnw("failed to save customer profile", "email", email, "error", err)
	}
}

// isEmailConflict matches both the typed SDK error and the raw API error
// string, since lookups behind the REST surface return the latter.
func isEmailConflict(err error) bool {
	if auth.IsEmailAlreadyExists(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "email_exists") || strings.Contains(msg, "already exists") || strings.Contains(msg, "already registered")
}
