package commands

import (
	"context"

	"carhive/internal/domain/booking"
	domreview "carhive/internal/domain/review"
	"carhive/internal/infra"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReviewNotAllowed = errs.New("booking is not eligible for review")
	ErrDuplicateReview  = errs.New("review already submitted for this booking")
)

type CreateReviewCommand struct {
	BookingID uuid.UUID
	Rating    int
	Comment   *string
}

type CreateReviewResult struct {
	ReviewID uuid.UUID
	CarID    uuid.UUID
}

type ReviewCommands interface {
	CreateReview(ctx context.Context, cmd CreateReviewCommand, userID uuid.UUID) (*CreateReviewResult, error)
}

type reviewUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewReviewUseCase(uow shared.UnitOfWork) ReviewCommands {
	return &reviewUseCaseImpl{uow: uow}
}

// CreateReview records a rating for the car of a completed booking owned by
// the user, then refreshes the car's denormalized rating.
func (uc *reviewUseCaseImpl) CreateReview(ctx context.Context, cmd CreateReviewCommand, userID uuid.UUID) (*CreateReviewResult, error) {
	var result *CreateReviewResult

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, cmd.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !b.Renter().IsUser(userID) {
			return ErrReviewNotAllowed
		}
		if b.Status() != booking.StatusCompleted {
			return ErrReviewNotAllowed
		}

		rev, err := domreview.NewReview(userID, b.CarID(), b.ID(), cmd.Rating, cmd.Comment)
		if err != nil {
			return err
		}

		if err := tx.Reviews().Create(ctx, rev); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateReview
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Cars().RecalcRating(ctx, b.CarID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &CreateReviewResult{ReviewID: rev.ID(), CarID: b.CarID()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
