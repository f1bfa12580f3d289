package trip

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrEmptySite       = errors.New("site name must not be empty")
	ErrStartNotFuture  = errors.New("trip must start in the future")
)

// Trip is a single bookable instance of an activity: fixed departure, fixed
// capacity. It is the unit of contention for the whole reservation engine.
type Trip struct {
	id        uuid.UUID
	productID uuid.UUID
	siteName  string
	capacity  int
	startsAt  time.Time
	status    Status
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

func NewTrip(productID uuid.UUID, siteName string, capacity int, startsAt, now time.Time) (*Trip, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if strings.TrimSpace(siteName) == "" {
		return nil, ErrEmptySite
	}
	if !startsAt.After(now) {
		return nil, ErrStartNotFuture
	}
	return &Trip{
		id:        uuid.New(),
		productID: productID,
		siteName:  strings.TrimSpace(siteName),
		capacity:  capacity,
		startsAt:  startsAt,
		status:    StatusScheduled,
		version:   1,
	}, nil
}

func Reconstruct(
	id, productID uuid.UUID,
	siteName string,
	capacity int,
	startsAt time.Time,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Trip {
	return &Trip{
		id:        id,
		productID: productID,
		siteName:  siteName,
		capacity:  capacity,
		startsAt:  startsAt,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// OpenForReservation reports whether a new booking may be taken as of the
// given time. Late reservations (at or after departure) are never accepted.
func (t *Trip) OpenForReservation(asOf time.Time) bool {
	return t.status == StatusScheduled && asOf.Before(t.startsAt)
}

func (t *Trip) Start() error {
	return t.transition(StatusInProgress)
}

func (t *Trip) Complete() error {
	return t.transition(StatusCompleted)
}

func (t *Trip) Cancel() error {
	return t.transition(StatusCancelled)
}

func (t *Trip) transition(to Status) error {
	if !canTransition(t.status, to) {
		return &InvalidTransitionError{From: t.status, To: to}
	}
	t.status = to
	t.version++
	return nil
}

// Touch bumps the version without a status change. Called when a booking is
// added so readers can detect roster movement on the trip row alone.
func (t *Trip) Touch() {
	t.version++
}

func (t *Trip) ID() uuid.UUID        { return t.id }
func (t *Trip) ProductID() uuid.UUID { return t.productID }
func (t *Trip) SiteName() string     { return t.siteName }
func (t *Trip) Capacity() int        { return t.capacity }
func (t *Trip) StartsAt() time.Time  { return t.startsAt }
func (t *Trip) Status() Status       { return t.status }
func (t *Trip) Version() int64       { return t.version }
func (t *Trip) CreatedAt() time.Time { return t.createdAt }
func (t *Trip) UpdatedAt() time.Time { return t.updatedAt }
