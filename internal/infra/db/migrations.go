package db

import (
	"context"

	"tripcore/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is applied idempotently at startup. Destructive changes require a
// manual migration; this file only ever adds.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS subjects (
    id                 UUID PRIMARY KEY,
    full_name          TEXT NOT NULL,
    cert_tier          TEXT NOT NULL DEFAULT 'none',
    medical_cleared_at TIMESTAMPTZ,
    logged_dives       INTEGER NOT NULL DEFAULT 0,
    birth_date         DATE NOT NULL,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
    id                    UUID PRIMARY KEY,
    name                  TEXT NOT NULL,
    currency              TEXT NOT NULL DEFAULT 'USD',
    base_cents            BIGINT NOT NULL,
    tier_discount_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    tier_discount_min     TEXT NOT NULL DEFAULT 'none',
    requirements          JSONB NOT NULL DEFAULT '[]',
    created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS site_adjustments (
    site_name    TEXT PRIMARY KEY,
    amount_cents BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS promo_codes (
    code            TEXT PRIMARY KEY,
    amount_off_cents BIGINT NOT NULL DEFAULT 0,
    percent_off     DOUBLE PRECISION NOT NULL DEFAULT 0,
    valid_from      TIMESTAMPTZ NOT NULL,
    valid_to        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    id         UUID PRIMARY KEY,
    product_id UUID NOT NULL REFERENCES products(id),
    site_name  TEXT NOT NULL,
    capacity   INTEGER NOT NULL CHECK (capacity >= 1),
    starts_at  TIMESTAMPTZ NOT NULL,
    status     TEXT NOT NULL DEFAULT 'scheduled',
    version    BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_trips_upcoming ON trips (starts_at) WHERE status = 'scheduled';

CREATE TABLE IF NOT EXISTS bookings (
    id         UUID PRIMARY KEY,
    trip_id    UUID NOT NULL REFERENCES trips(id),
    subject_id UUID NOT NULL REFERENCES subjects(id),
    status     TEXT NOT NULL,
    price      JSONB NOT NULL,
    total_cents BIGINT NOT NULL,
    currency   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    decided_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_bookings_trip ON bookings (trip_id);
CREATE INDEX IF NOT EXISTS idx_bookings_subject ON bookings (subject_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_subject_trip
    ON bookings (trip_id, subject_id) WHERE status <> 'cancelled';

CREATE TABLE IF NOT EXISTS ledger_events (
    id           UUID PRIMARY KEY,
    aggregate_id UUID NOT NULL,
    seq          BIGINT NOT NULL,
    kind         TEXT NOT NULL,
    actor_id     UUID NOT NULL,
    booking_id   UUID,
    occurred_at  TIMESTAMPTZ NOT NULL,
    payload      JSONB NOT NULL,
    UNIQUE (aggregate_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_ledger_events_booking ON ledger_events (booking_id) WHERE booking_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS idempotency_keys (
    key               UUID NOT NULL,
    subject_id        UUID NOT NULL,
    status            TEXT NOT NULL DEFAULT 'processing',
    request_hash      TEXT NOT NULL,
    result_booking_id UUID,
    expires_at        TIMESTAMPTZ NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (key, subject_id)
);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return errs.Wrap(err, "failed to apply schema")
	}
	return nil
}
