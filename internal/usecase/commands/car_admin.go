package commands

import (
	"context"

	"carhive/internal/domain/car"
	"carhive/internal/infra"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDuplicateRegistration = errs.New("registration number already exists")

// ImageStore abstracts where uploaded photos live. Delete is best effort.
type ImageStore interface {
	Delete(imageURL string)
}

type UpdateCarCommand struct {
	Spec   car.Spec
	Status string
}

type CarCommands interface {
	CreateCar(ctx context.Context, spec car.Spec) (uuid.UUID, error)
	UpdateCar(ctx context.Context, id uuid.UUID, cmd UpdateCarCommand) error
	DeleteCar(ctx context.Context, id uuid.UUID) error
	SetCarImage(ctx context.Context, id uuid.UUID, imageURL string) error
}

type carCommandsImpl struct {
	uow    shared.UnitOfWork
	images ImageStore
}

func NewCarCommands(uow shared.UnitOfWork, images ImageStore) CarCommands {
	return &carCommandsImpl{uow: uow, images: images}
}

func (uc *carCommandsImpl) CreateCar(ctx context.Context, spec car.Spec) (uuid.UUID, error) {
	entity, err := car.NewCar(spec)
	if err != nil {
		return uuid.Nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Cars().Create(ctx, entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateRegistration
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity.ID(), nil
}

func (uc *carCommandsImpl) UpdateCar(ctx context.Context, id uuid.UUID, cmd UpdateCarCommand) error {
	status, err := car.NewStatus(cmd.Status)
	if err != nil {
		return err
	}
	// Validate the spec through the constructor before persisting.
	if _, err := car.NewCar(cmd.Spec); err != nil {
		return err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Cars().Update(ctx, id, cmd.Spec, status)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrCarNotFound
		case infra.IsKind(err, infra.KindDuplicateKey):
			return ErrDuplicateRegistration
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *carCommandsImpl) DeleteCar(ctx context.Context, id uuid.UUID) error {
	var imageURL *string

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Cars().FindByID(ctx, id)
		if err != nil {
			return err
		}
		imageURL = entity.ImageURL()
		return tx.Cars().Delete(ctx, id)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrCarNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return ErrInvalidBookingState
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if imageURL != nil {
		uc.images.Delete(*imageURL)
	}
	return nil
}

func (uc *carCommandsImpl) SetCarImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	var previous *string

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Cars().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = entity.ImageURL()
		return tx.Cars().UpdateImageURL(ctx, id, &imageURL)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCarNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if previous != nil && *previous != imageURL {
		uc.images.Delete(*previous)
	}
	return nil
}
