// Package userservice manages the business logic layer of users.
package userservice

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mae-finance/wallet/internal/domain"
	"github.com/mae-finance/wallet/pkg/errorspkg"
	"github.com/mae-finance/wallet/pkg/passpkg"
)

// Repo provides the data storage interface needed by the user service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, username string) (domain.User, error)
	UpdateFullName(ctx context.Context, username, fullName string) (domain.User, error)
}

// AccountOpener opens the wallet account alongside a freshly created user.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type AccountOpener interface {
	Open(ctx context.Context, owner string) (domain.Account, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo     Repo
	accounts AccountOpener
}

// New returns a user Service.
func New(repo Repo, accounts AccountOpener) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Create hashes the password, creates the user and opens their wallet
// account with the onboarding grant.
func (s *Service) Create(ctx context.Context, username, password, fullName, email string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	hashed, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.UserWithoutPassword{}, errorspkg.ErrInternal
	}

	u, err := s.repo.Create(ctx, domain.CreateUserParams{
		Username:       username,
		HashedPassword: hashed,
		FullName:       fullName,
		Email:          email,
	})
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	if _, err := s.accounts.Open(ctx, u.Username); err != nil {
		if !errors.Is(err, domain.ErrAccountAlreadyExists) {
			return domain.UserWithoutPassword{}, err
		}
	}

	return stripPassword(u), nil
}

// CheckPassword verifies the user's password and returns the user on success.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.UserWithoutPassword, error) {
	u, err := s.repo.Get(ctx, username)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	if err := passpkg.Check(password, u.HashedPassword); err != nil {
		return domain.UserWithoutPassword{}, domain.ErrWrongPassword
	}

	return stripPassword(u), nil
}

// UpdateFullName changes the user's display name.
func (s *Service) UpdateFullName(ctx context.Context, username, fullName string) (domain.UserWithoutPassword, error) {
	u, err := s.repo.UpdateFullName(ctx, username, fullName)
	if err != nil {
		return domain.UserWithoutPassword{}, err
	}

	return stripPassword(u), nil
}

func stripPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
