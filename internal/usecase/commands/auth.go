package commands

import (
	"context"
	"log/slog"

	"carhive/internal/domain/user"
	"carhive/internal/infra"
	"carhive/internal/pkg/errs"
	"carhive/internal/pkg/jwt"
	"carhive/internal/pkg/password"
	"carhive/internal/usecase/queries"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound           = errs.New("user not found")
	ErrInvalidCredentials     = errs.New("invalid credentials")
	ErrUserInactive           = errs.New("user inactive")
	ErrEmailAlreadyRegistered = errs.New("email already registered")
	ErrAuthenticationFailed   = errs.New("authentication failed")
	ErrTokenGeneration        = errs.New("token generation failed")
)

type RegisterCommand struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type LoginResult struct {
	UserID      uuid.UUID
	Role        user.Role
	AccessToken string
}

type AuthCommands interface {
	Register(ctx context.Context, cmd RegisterCommand) (uuid.UUID, error)
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

type UserCredentialReader interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*queries.CredentialView, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  UserCredentialReader
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore UserCredentialReader, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

// Register creates a customer account. Admin accounts are seeded, never
// self-registered.
func (a *authCommandsImpl) Register(ctx context.Context, cmd RegisterCommand) (uuid.UUID, error) {
	email, err := user.NewEmail(cmd.Email)
	if err != nil {
		return uuid.Nil, err
	}
	pass, err := user.NewPassword(cmd.Password)
	if err != nil {
		return uuid.Nil, err
	}
	fullName, err := user.NewFullName(cmd.FullName)
	if err != nil {
		return uuid.Nil, err
	}
	phone, err := user.NewPhone(cmd.Phone)
	if err != nil {
		return uuid.Nil, err
	}

	hash, err := password.HashPassword(pass.Value())
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	newUser := user.NewUser(email, hash, fullName, phone, user.RoleCustomer)

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, newUser)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrEmailAlreadyRegistered
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return newUser.ID(), nil
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	credentials, err := a.readStore.FindCredentialsByEmail(ctx, email)
	if err != nil {
		// Same error as password mismatch to prevent user enumeration
		return nil, ErrInvalidCredentials
	}

	if !credentials.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(credentials.PasswordHash, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(credentials.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateToken(credentials.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Users().UpdateLastLogin(ctx, credentials.ID); updateErr != nil {
			slog.Warn("failed to update last login", "user_id", credentials.ID, "error", updateErr.Error())
		}
		return nil
	})
	if err != nil {
		slog.Warn("transaction failed during login", "user_id", credentials.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      credentials.ID,
		Role:        role,
		AccessToken: accessToken,
	}, nil
}
