package commands

import (
	"context"

	"carhive/internal/domain/discount"
	"carhive/internal/infra"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDuplicateDiscountCode = errs.New("discount code already exists")

type DiscountCommands interface {
	CreateDiscountCode(ctx context.Context, spec discount.Spec) (uuid.UUID, error)
	DeactivateDiscountCode(ctx context.Context, code string) error
	DeleteDiscountCode(ctx context.Context, id uuid.UUID) error
}

type discountCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewDiscountCommands(uow shared.UnitOfWork) DiscountCommands {
	return &discountCommandsImpl{uow: uow}
}

func (uc *discountCommandsImpl) CreateDiscountCode(ctx context.Context, spec discount.Spec) (uuid.UUID, error) {
	entity, err := discount.NewDiscountCode(spec)
	if err != nil {
		return uuid.Nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Discounts().Create(ctx, entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateDiscountCode
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity.ID(), nil
}

func (uc *discountCommandsImpl) DeactivateDiscountCode(ctx context.Context, code string) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Discounts().FindByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		entity.Deactivate()
		return tx.Discounts().Update(ctx, entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrDiscountNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *discountCommandsImpl) DeleteDiscountCode(ctx context.Context, id uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Discounts().Delete(ctx, id)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrDiscountNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return ErrInvalidBookingState
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
