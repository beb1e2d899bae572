package guest

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errors.New("guest name is required")
	ErrInvalidEmail = errors.New("invalid guest email format")
	ErrInvalidPhone = errors.New("invalid guest phone number")
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9\- ]{7,15}$`)
)

// Guest is an anonymous renter captured inline with a booking. Guests are
// never authenticated; the booking reference is their only credential.
type Guest struct {
	id        uuid.UUID
	fullName  string
	email     string
	phone     string
	createdAt time.Time
}

func NewGuest(fullName, email, phone string) (*Guest, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrEmptyName
	}
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	phone = strings.TrimSpace(phone)
	if !phoneRegex.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	return &Guest{
		id:       uuid.New(),
		fullName: fullName,
		email:    email,
		phone:    phone,
	}, nil
}

func Reconstruct(id uuid.UUID, fullName, email, phone string, createdAt time.Time) *Guest {
	return &Guest{id: id, fullName: fullName, email: email, phone: phone, createdAt: createdAt}
}

func (g *Guest) ID() uuid.UUID        { return g.id }
func (g *Guest) FullName() string     { return g.fullName }
func (g *Guest) Email() string        { return g.email }
func (g *Guest) Phone() string        { return g.phone }
func (g *Guest) CreatedAt() time.Time { return g.createdAt }
