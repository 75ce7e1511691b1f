package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/entities"
)

// emailPattern is a deliberately loose RFC-ish check; the mailbox is
// verified out of band, this only catches obvious garbage.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// dummyHash is compared against when the account does not exist, so a
// failed lookup costs the same as a failed password check.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// UserRepository defines the user data access this service needs. The
// users repository satisfies it.
type UserRepository interface {
	Create(email, passwordHash, displayName string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
}

// Service handles registration and credential checks on top of a user
// repository.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{users: users, config: cfg}
}

// Register validates the input, hashes the password and creates the
// account. A taken email surfaces as ErrUserExists.
func (s *Service) Register(email, password, displayName string) (*entities.User, error) {
	// RFC 5321 caps mailbox addresses at 254 octets.
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if len(password) < s.config.MinPasswordLength {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, s.config.MinPasswordLength)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(email, hash, displayName)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns the account. Unknown
// emails and wrong passwords both answer ErrInvalidCredentials so a
// caller cannot probe which addresses are registered.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			_ = CheckPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}
