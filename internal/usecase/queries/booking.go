package queries

import (
	"context"

	"carhive/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingAccessDenied = errs.New("booking access denied")

type BookingQueries interface {
	// GetByReference returns the booking view. Guests present the reference
	// itself as the credential; registered users must own the booking.
	GetByReference(ctx context.Context, reference string, actorID *uuid.UUID, isAdmin bool) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
}

type BookingViewRepo interface {
	FindByReference(ctx context.Context, reference string) (*BookingView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByReference(ctx context.Context, reference string, actorID *uuid.UUID, isAdmin bool) (*BookingView, error) {
	view, err := q.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if isAdmin || view.GuestID != nil {
		return view, nil
	}
	if actorID == nil || view.UserID == nil || *view.UserID != *actorID {
		return nil, ErrBookingAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error) {
	return q.repo.FindByUserID(ctx, userID)
}
