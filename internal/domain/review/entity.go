package review

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment must be at most 500 characters")
)

const maxCommentLength = 500

// Review is a rating left by a registered user for a car they actually
// rented. Uniqueness per (user, booking) is enforced by the database.
type Review struct {
	id        uuid.UUID
	userID    uuid.UUID
	carID     uuid.UUID
	bookingID uuid.UUID
	rating    int
	comment   *string
	createdAt time.Time
}

func NewReview(userID, carID, bookingID uuid.UUID, rating int, comment *string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if len(trimmed) > maxCommentLength {
			return nil, ErrCommentTooLong
		}
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}

	return &Review{
		id:        uuid.New(),
		userID:    userID,
		carID:     carID,
		bookingID: bookingID,
		rating:    rating,
		comment:   comment,
	}, nil
}

func Reconstruct(id, userID, carID, bookingID uuid.UUID, rating int, comment *string, createdAt time.Time) *Review {
	return &Review{
		id:        id,
		userID:    userID,
		carID:     carID,
		bookingID: bookingID,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
	}
}

func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) UserID() uuid.UUID    { return r.userID }
func (r *Review) CarID() uuid.UUID     { return r.carID }
func (r *Review) BookingID() uuid.UUID { return r.bookingID }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Comment() *string     { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
