package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

// AuthService owns account registration and session issuance.
type AuthService struct {
	uow        uow.Factory
	issuer     *auth.Issuer
	bcryptCost int
}

func NewAuthService(factory uow.Factory, issuer *auth.Issuer, bcryptCost int) *AuthService {
	return &AuthService{uow: factory, issuer: issuer, bcryptCost: bcryptCost}
}

// RegisterInput is the data needed to open an account. The password arrives
// in plain text and is hashed here.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// Register creates an account with the base "user" role. The same message is
// not needed here as for login: a duplicate email is a visible conflict, since
// the caller has already proven control of the address.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, apperr.Internal("could not hash password")
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = scope.Close() }()

	u := model.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := scope.Users().Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, apperr.AlreadyExists("email already registered")
		}
		return model.User{}, err
	}

	roles, err := scope.Roles().ListAll(ctx)
	if err != nil {
		return model.User{}, err
	}
	base, ok := roleByName(roles, model.RoleUser)
	if !ok {
		return model.User{}, apperr.Internal("base role is not provisioned")
	}
	if err := scope.Roles().Assign(ctx, u.ID, base.ID); err != nil {
		return model.User{}, err
	}

	if err := scope.Commit(); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login checks credentials and returns a signed access token carrying a
// snapshot of the user's roles. Unknown email and wrong password produce the
// exact same error so the endpoint cannot be used to enumerate accounts.
// A blocked account is refused before the password is checked, so it gets the
// distinct permission-denied status no matter what was typed.
func (s *AuthService) Login(ctx context.Context, address, password string) (string, model.User, error) {
	address = strings.ToLower(strings.TrimSpace(address))

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return "", model.User{}, err
	}
	defer func() { _ = scope.Close() }()

	u, err := scope.Users().GetByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", model.User{}, apperr.Unauthorized("invalid email or password")
		}
		return "", model.User{}, err
	}
	if !u.IsActive {
		return "", model.User{}, apperr.PermissionDenied("account is blocked")
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return "", model.User{}, apperr.Unauthorized("invalid email or password")
	}

	roles, err := scope.Roles().ListForUser(ctx, u.ID)
	if err != nil {
		return "", model.User{}, err
	}

	token, err := s.issuer.Create(auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  roles,
	}, auth.KindAccess)
	if err != nil {
		return "", model.User{}, apperr.Internal("could not issue access token")
	}

	// Last-login is bookkeeping; a failure here must not block the login.
	if err := scope.Users().TouchLastLogin(ctx, u.ID); err != nil {
		log.Printf("auth: touch last login for user %d failed: %v", u.ID, err)
	}
	if err := scope.Commit(); err != nil {
		return "", model.User{}, err
	}
	return token, u, nil
}

func roleByName(roles []model.Role, name string) (model.Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return model.Role{}, false
}
