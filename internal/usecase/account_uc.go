package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/auth"
	"github.com/phenrril/storefront/internal/domain"
)

const defaultCustomerName = "Customer"

var nonWord = regexp.MustCompile(`\W+`)

type AccountUC struct {
	Customers domain.CustomerRepo
	Admins    domain.AdminRepo
	Tokens    *auth.Issuer
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Country  string
	City     string
	Contact  string
	Address  string
	Zipcode  string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Customer  *domain.Customer
	Admin     *domain.Admin
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (uc *AccountUC) Register(ctx context.Context, in RegisterInput) (*domain.Customer, error) {
	email := normalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)
	if email == "" || password == "" {
		return nil, domain.BadRequest("email_and_password_required")
	}
	if _, err := uc.Customers.FindByEmail(ctx, email); err == nil {
		return nil, domain.Conflict("email_already_registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultCustomerName
	}
	username, err := uc.pickUsername(ctx, strings.TrimSpace(in.Username), name)
	if err != nil {
		return nil, err
	}
	hash, err := auth.Hash(password)
	if err != nil {
		return nil, err
	}
	c := &domain.Customer{
		Name:     name,
		Username: username,
		Email:    email,
		Password: hash,
		Country:  strings.TrimSpace(in.Country),
		City:     strings.TrimSpace(in.City),
		Contact:  strings.TrimSpace(in.Contact),
		Address:  strings.TrimSpace(in.Address),
		Zipcode:  strings.TrimSpace(in.Zipcode),
	}
	if err := uc.Customers.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// lost a race; report whichever key is now taken
			if _, ferr := uc.Customers.FindByEmail(ctx, email); ferr == nil {
				return nil, domain.Conflict("email_already_registered")
			}
			return nil, domain.Conflict("username_taken")
		}
		return nil, err
	}
	return c, nil
}

// pickUsername keeps an explicit username as is and derives one from the
// name otherwise, appending a counter until it is free.
func (uc *AccountUC) pickUsername(ctx context.Context, explicit, name string) (string, error) {
	if explicit != "" {
		taken, err := uc.Customers.UsernameExists(ctx, explicit)
		if err != nil {
			return "", err
		}
		if taken {
			return "", domain.Conflict("username_taken")
		}
		return explicit, nil
	}
	base := nonWord.ReplaceAllString(strings.ToLower(name), "")
	if base == "" {
		base = strings.ToLower(defaultCustomerName)
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := uc.Customers.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func (uc *AccountUC) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, domain.BadRequest("email_and_password_required")
	}
	c, err := uc.Customers.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	cred := auth.ParseCredential(c.Password)
	if !cred.Verify(password) {
		return nil, domain.ErrInvalidCredentials
	}
	if cred.NeedsRehash() {
		uc.rehash(ctx, "customer", c.ID, password, uc.Customers.UpdatePassword)
	}
	tok, exp, err := uc.Tokens.Issue(auth.CustomerSubject(c.ID, c.Email))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, ExpiresAt: exp, Customer: c}, nil
}

func (uc *AccountUC) Me(ctx context.Context, customerID uint) (*domain.Customer, error) {
	c, err := uc.Customers.FindByID(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNotFound
	}
	return c, err
}

func (uc *AccountUC) AdminLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, domain.BadRequest("username_and_password_required")
	}
	a, err := uc.Admins.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	cred := auth.ParseCredential(a.Password)
	if !cred.Verify(password) {
		return nil, domain.ErrInvalidCredentials
	}
	if cred.NeedsRehash() {
		uc.rehash(ctx, "admin", a.ID, password, uc.Admins.UpdatePassword)
	}
	tok, exp, err := uc.Tokens.Issue(auth.AdminSubject(a.ID, a.Username))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, ExpiresAt: exp, Admin: a}, nil
}

// EnsureAdmin creates the configured admin account when it does not exist.
// An existing account is left untouched.
func (uc *AccountUC) EnsureAdmin(ctx context.Context, name, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}
	_, err := uc.Admins.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := auth.Hash(password)
	if err != nil {
		return err
	}
	if name == "" {
		name = username
	}
	if err := uc.Admins.Save(ctx, &domain.Admin{Name: name, Username: username, Password: hash}); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("admin account seeded")
	return nil
}

// rehash replaces a legacy or foreign credential with a bcrypt hash.
// Failures only cost a retry on the next login.
func (uc *AccountUC) rehash(ctx context.Context, kind string, id uint, password string, update func(context.Context, uint, string) error) {
	hash, err := auth.Hash(password)
	if err == nil {
		err = update(ctx, id, hash)
	}
	if err != nil {
		log.Warn().Err(err).Str("account", kind).Uint("id", id).Msg("credential upgrade failed")
		return
	}
	log.Info().Str("account", kind).Uint("id", id).Msg("credential upgraded")
}
