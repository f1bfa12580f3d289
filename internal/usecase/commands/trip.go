package commands

import (
	"context"
	"time"

	"tripcore/internal/domain/ledger"
	"tripcore/internal/domain/trip"
	"tripcore/internal/infra"
	"tripcore/internal/pkg/clock"
	"tripcore/internal/pkg/config"
	"tripcore/internal/pkg/errs"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
)

type ScheduleTripParams struct {
	ProductID uuid.UUID
	SiteName  string
	Capacity  int
	StartsAt  time.Time
}

type TripCommands interface {
	Schedule(ctx context.Context, params ScheduleTripParams, actorID uuid.UUID) (uuid.UUID, error)
	Start(ctx context.Context, tripID, actorID uuid.UUID) error
	Complete(ctx context.Context, tripID, actorID uuid.UUID) error
	Cancel(ctx context.Context, tripID, actorID uuid.UUID, reason string) error
}

type tripCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.ReserveConfig
}

func NewTripCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.ReserveConfig) TripCommands {
	return &tripCommandsImpl{uow: uow, clock: clk, cfg: cfg}
}

func (c *tripCommandsImpl) Schedule(ctx context.Context, params ScheduleTripParams, actorID uuid.UUID) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	now := c.clock.Now()
	t, err := trip.NewTrip(params.ProductID, params.SiteName, params.Capacity, params.StartsAt, now)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().ProductByID(ctx, params.ProductID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrProductNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Trips().Create(ctx, t); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		ev, err := ledger.NewEvent(t.ID(), ledger.KindTripScheduled, actorID, nil, now,
			ledger.TripScheduledPayload{
				ProductID: params.ProductID,
				SiteName:  t.SiteName(),
				Capacity:  t.Capacity(),
				StartsAt:  t.StartsAt(),
			})
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if _, err := tx.Ledger().Append(ctx, ev); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID(), nil
}

func (c *tripCommandsImpl) Start(ctx context.Context, tripID, actorID uuid.UUID) error {
	return c.transition(ctx, tripID, actorID, ledger.KindTripStarted, "", (*trip.Trip).Start)
}

func (c *tripCommandsImpl) Complete(ctx context.Context, tripID, actorID uuid.UUID) error {
	return c.transition(ctx, tripID, actorID, ledger.KindTripCompleted, "", (*trip.Trip).Complete)
}

// Cancel cancels the trip itself. Bookings on the trip stay untouched; the
// operator cancels or refunds them as a separate follow-up.
func (c *tripCommandsImpl) Cancel(ctx context.Context, tripID, actorID uuid.UUID, reason string) error {
	return c.transition(ctx, tripID, actorID, ledger.KindTripCancelled, reason, (*trip.Trip).Cancel)
}

func (c *tripCommandsImpl) transition(
	ctx context.Context,
	tripID, actorID uuid.UUID,
	kind ledger.Kind,
	reason string,
	apply func(*trip.Trip) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Trips().FindForUpdate(ctx, tripID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrTripNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		from := t.Status()
		if err := apply(t); err != nil {
			return err
		}
		if err := tx.Trips().Save(ctx, t); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		ev, err := ledger.NewEvent(tripID, kind, actorID, nil, c.clock.Now(),
			ledger.TripTransitionPayload{From: from, To: t.Status(), Reason: reason})
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if _, err := tx.Ledger().Append(ctx, ev); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
