package commands

import (
	"context"

	"carhive/internal/domain/insurance"
	"carhive/internal/infra"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDuplicateInsurance = errs.New("insurance name already exists")

type InsuranceCommand struct {
	Name            string
	CoveragePercent int32
	Description     *string
}

type InsuranceCommands interface {
	CreateInsurance(ctx context.Context, cmd InsuranceCommand) (uuid.UUID, error)
	UpdateInsurance(ctx context.Context, id uuid.UUID, cmd InsuranceCommand) error
	DeleteInsurance(ctx context.Context, id uuid.UUID) error
}

type insuranceCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewInsuranceCommands(uow shared.UnitOfWork) InsuranceCommands {
	return &insuranceCommandsImpl{uow: uow}
}

func (uc *insuranceCommandsImpl) CreateInsurance(ctx context.Context, cmd InsuranceCommand) (uuid.UUID, error) {
	entity, err := insurance.NewInsurance(cmd.Name, cmd.CoveragePercent, cmd.Description)
	if err != nil {
		return uuid.Nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Insurances().Create(ctx, entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateInsurance
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity.ID(), nil
}

func (uc *insuranceCommandsImpl) UpdateInsurance(ctx context.Context, id uuid.UUID, cmd InsuranceCommand) error {
	if _, err := insurance.NewInsurance(cmd.Name, cmd.CoveragePercent, cmd.Description); err != nil {
		return err
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Insurances().Update(ctx, id, cmd.Name, cmd.CoveragePercent, cmd.Description)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrInsuranceNotFound
		case infra.IsKind(err, infra.KindDuplicateKey):
			return ErrDuplicateInsurance
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *insuranceCommandsImpl) DeleteInsurance(ctx context.Context, id uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Insurances().Delete(ctx, id)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrInsuranceNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return ErrInvalidBookingState
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
