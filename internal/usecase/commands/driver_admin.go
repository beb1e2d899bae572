package commands

import (
	"context"

	"carhive/internal/domain/driver"
	"carhive/internal/infra"
	"carhive/internal/pkg/clock"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDuplicateLicense = errs.New("driver license number already exists")

type DriverCommands interface {
	CreateDriver(ctx context.Context, spec driver.Spec) (uuid.UUID, error)
	UpdateDriver(ctx context.Context, id uuid.UUID, spec driver.Spec) error
	DeleteDriver(ctx context.Context, id uuid.UUID) error
	SetDriverStatus(ctx context.Context, id uuid.UUID, status string) error
}

type driverCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewDriverCommands(uow shared.UnitOfWork, clk clock.Clock) DriverCommands {
	return &driverCommandsImpl{uow: uow, clock: clk}
}

func (uc *driverCommandsImpl) CreateDriver(ctx context.Context, spec driver.Spec) (uuid.UUID, error) {
	entity, err := driver.NewDriver(spec, uc.clock.Now())
	if err != nil {
		return uuid.Nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Drivers().Create(ctx, entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateLicense
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity.ID(), nil
}

func (uc *driverCommandsImpl) UpdateDriver(ctx context.Context, id uuid.UUID, spec driver.Spec) error {
	if _, err := driver.NewDriver(spec, uc.clock.Now()); err != nil {
		return err
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Drivers().Update(ctx, id, spec)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrDriverNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *driverCommandsImpl) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Drivers().Delete(ctx, id)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrDriverNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return ErrInvalidBookingState
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *driverCommandsImpl) SetDriverStatus(ctx context.Context, id uuid.UUID, status string) error {
	driverStatus, err := driver.NewStatus(status)
	if err != nil {
		return err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Drivers().UpdateStatus(ctx, id, driverStatus)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrDriverNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
