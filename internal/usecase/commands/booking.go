package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/ledger"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/domain/trip"
	"tripcore/internal/infra"
	"tripcore/internal/pkg/clock"
	"tripcore/internal/pkg/config"
	"tripcore/internal/pkg/errs"
	"tripcore/internal/usecase/queries"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReserveParams struct {
	TripID    uuid.UUID
	SubjectID uuid.UUID
	PromoCode *string
	// DeferConfirmation parks the booking in pending_payment instead of
	// confirming immediately. Either way the seat is taken.
	DeferConfirmation bool
}

type ReserveResult struct {
	Booking  *queries.BookingView
	Decision eligibility.Decision
	// Replayed marks an idempotent replay of a previously completed request.
	Replayed bool
}

type BookingCommands interface {
	Reserve(ctx context.Context, params ReserveParams, actorID, idempotencyKey uuid.UUID) (*ReserveResult, error)
	Confirm(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*queries.BookingView, error)
	CheckIn(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
	Complete(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
	MarkNoShow(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	idempotency    shared.IdempotencyRepository
	bookingQueries queries.BookingQueries
	clock          clock.Clock
	cfg            config.ReserveConfig
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	idempotency shared.IdempotencyRepository,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	cfg config.ReserveConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		idempotency:    idempotency,
		bookingQueries: bookingQueries,
		clock:          clk,
		cfg:            cfg,
	}
}

// Reserve takes a seat on a trip for a subject. The capacity check, the
// booking insert and the ledger append all happen in one transaction with the
// trip row locked; two concurrent calls against the last seat serialize, and
// exactly one of them wins.
func (c *bookingCommandsImpl) Reserve(
	ctx context.Context,
	params ReserveParams,
	actorID, idempotencyKey uuid.UUID,
) (*ReserveResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := calculateRequestHash(params)
	replayed, err := c.claimIdempotencyKey(ctx, idempotencyKey, params.SubjectID, requestHash)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	var (
		created  *booking.Booking
		decision eligibility.Decision
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tripEntity, err := tx.Trips().FindForUpdate(ctx, params.TripID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrTripNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		now := c.clock.Now()
		if !tripEntity.OpenForReservation(now) {
			if now.Before(tripEntity.StartsAt()) {
				return errs.ErrTripNotOpen
			}
			return errs.ErrReservationClosed
		}

		existing, err := tx.Bookings().FindActiveBySubjectAndTrip(ctx, params.SubjectID, params.TripID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if existing != nil {
			return errs.ErrAlreadyReserved
		}

		taken, err := tx.Bookings().CountActiveByTrip(ctx, params.TripID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if taken >= tripEntity.Capacity() {
			return errs.ErrCapacityExceeded
		}

		subject, product, adjustments, err := c.loadPricingInputs(ctx, tx.Reads(), tripEntity.SiteName(), tripEntity.ProductID(), params)
		if err != nil {
			return err
		}

		decision = eligibility.Evaluate(*subject, product.Requirements, now)
		if !decision.Eligible {
			return &eligibility.NotEligibleError{Decision: decision}
		}

		breakdown, err := pricing.Calculate(
			pricing.Product{BaseCents: product.BaseCents, Currency: product.Currency},
			adjustments,
			now,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}

		created = booking.New(params.TripID, params.SubjectID, breakdown, !params.DeferConfirmation, now)
		if err := tx.Bookings().Create(ctx, created); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		tripEntity.Touch()
		if err := tx.Trips().Save(ctx, tripEntity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		bookingID := created.ID()
		ev, err := ledger.NewEvent(params.TripID, ledger.KindReservationCreated, actorID, &bookingID, now,
			ledger.ReservationCreatedPayload{
				BookingID: bookingID,
				SubjectID: params.SubjectID,
				Status:    created.Status(),
				Decision:  decision,
				Price:     breakdown,
			})
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if _, err := tx.Ledger().Append(ctx, ev); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		return tx.Idempotency().MarkSucceeded(ctx, idempotencyKey, params.SubjectID, bookingID)
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, created.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &ReserveResult{Booking: view, Decision: decision}, nil
}

func (c *bookingCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	key, subjectID uuid.UUID,
	requestHash string,
) (*ReserveResult, error) {
	expiresAt := c.clock.Now().Add(c.cfg.IdemKeyTTL)

	claimed, err := c.idempotency.TryInsert(ctx, key, subjectID, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	record, err := c.idempotency.Get(ctx, key, subjectID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if record.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyMismatch
	}

	switch record.Status {
	case "succeeded":
		if record.ResultBookingID == nil {
			return nil, errs.New("succeeded idempotency record missing booking reference")
		}
		view, err := c.bookingQueries.GetByID(ctx, *record.ResultBookingID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return &ReserveResult{Booking: view, Replayed: true}, nil
	case "processing":
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency record status")
	}
}

func (c *bookingCommandsImpl) loadPricingInputs(
	ctx context.Context,
	reads shared.CommandReads,
	siteName string,
	productID uuid.UUID,
	params ReserveParams,
) (*eligibility.Subject, *shared.ProductSnapshot, pricing.Adjustments, error) {
	var adjustments pricing.Adjustments

	subject, err := reads.SubjectByID(ctx, params.SubjectID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, adjustments, errs.ErrSubjectNotFound
		}
		return nil, nil, adjustments, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	product, err := reads.ProductByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, adjustments, errs.ErrProductNotFound
		}
		return nil, nil, adjustments, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	site, err := reads.SiteAdjustment(ctx, siteName)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, nil, adjustments, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	adjustments.Site = site

	if product.TierDiscountPercent > 0 && subject.CertTier.AtLeast(product.TierDiscountMin) {
		adjustments.Tier = &pricing.TierDiscount{
			Segment:    string(subject.CertTier),
			PercentOff: product.TierDiscountPercent,
		}
	}

	if params.PromoCode != nil {
		promo, err := reads.PromoByCode(ctx, *params.PromoCode)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil, adjustments, errs.ErrPromoNotFound
			}
			return nil, nil, adjustments, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		adjustments.Promo = promo
	}

	return subject, product, adjustments, nil
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, actorID, "", func(b *booking.Booking) error {
		return b.Confirm()
	})
}

func (c *bookingCommandsImpl) CheckIn(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, actorID, "", func(b *booking.Booking) error {
		return b.CheckIn()
	})
}

func (c *bookingCommandsImpl) Complete(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, actorID, "", func(b *booking.Booking) error {
		return b.Complete()
	})
}

func (c *bookingCommandsImpl) MarkNoShow(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, bookingID, actorID, "", func(b *booking.Booking) error {
		return b.MarkNoShow()
	})
}

// Cancel releases the seat. Cancelling an already-terminal booking is an
// idempotent no-op: success is returned and no second event is appended.
func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*queries.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, _, err := c.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status().IsTerminal() {
			return nil
		}

		from := b.Status()
		if err := b.Cancel(); err != nil {
			return err
		}
		return c.saveTransition(ctx, tx, b, from, reason, actorID)
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByID(ctx, bookingID)
}

func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	reason string,
	apply func(*booking.Booking) error,
) (*queries.BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, tripEntity, err := c.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		// A cancelled trip accepts no further booking transitions; Cancel has
		// its own path and stays available.
		if tripEntity.Status() == trip.StatusCancelled {
			return errs.ErrTripNotOpen
		}

		from := b.Status()
		if err := apply(b); err != nil {
			return err
		}
		return c.saveTransition(ctx, tx, b, from, reason, actorID)
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByID(ctx, bookingID)
}

// lockBooking resolves the booking and then takes the trip row lock, which
// serializes the transition against concurrent Reserve calls and keeps the
// trip's event sequence gap-free. The booking is re-read after the lock so
// the transition is judged against committed state, and the locked trip is
// returned so callers can consult its status.
func (c *bookingCommandsImpl) lockBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, *trip.Trip, error) {
	b, err := tx.Bookings().Find(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrBookingNotFound
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	tripEntity, err := tx.Trips().FindForUpdate(ctx, b.TripID())
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	b, err = tx.Bookings().Find(ctx, bookingID)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, tripEntity, nil
}

func (c *bookingCommandsImpl) saveTransition(
	ctx context.Context,
	tx shared.Tx,
	b *booking.Booking,
	from booking.Status,
	reason string,
	actorID uuid.UUID,
) error {
	if err := tx.Bookings().Save(ctx, b); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	ev, err := ledger.NewReservationTransition(b.TripID(), actorID, b.ID(), from, b.Status(), reason, c.clock.Now())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if _, err := tx.Ledger().Append(ctx, ev); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func calculateRequestHash(params ReserveParams) string {
	data, _ := json.Marshal(struct {
		TripID    uuid.UUID `json:"trip_id"`
		SubjectID uuid.UUID `json:"subject_id"`
		PromoCode *string   `json:"promo_code"`
		Defer     bool      `json:"defer"`
	}{params.TripID, params.SubjectID, params.PromoCode, params.DeferConfirmation})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// IsNotEligible unwraps the typed eligibility rejection for callers that need
// the full decision.
func IsNotEligible(err error) (*eligibility.NotEligibleError, bool) {
	var ne *eligibility.NotEligibleError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}
