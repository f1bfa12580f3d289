//go:build e2e

package dbtest

import (
	"context"
	"time"

	"tripcore/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fixed identifiers so e2e tests can reference seeded rows directly.
var (
	OperatorAccountID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	GuideAccountID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	DiverAccountID    = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	EligibleSubjectID  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	SecondSubjectID    = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	MinorSubjectID     = uuid.MustParse("66666666-6666-6666-6666-666666666666")
	ReefDiveProductID  = uuid.MustParse("77777777-7777-7777-7777-777777777777")
	DeepWreckProductID = uuid.MustParse("88888888-8888-8888-8888-888888888888")
)

const (
	OperatorEmail = "operator@example.com"
	GuideEmail    = "guide@example.com"
	DiverEmail    = "diver@example.com"
	SeedPassword  = "password123"

	BlueHoleSite  = "Blue Hole"
	SummerPromo   = "SUMMER"
	ExpiredPromo  = "LASTYEAR"
	reefDiveReqs  = `[{"kind":"min_cert_tier","hard":true,"min_tier":"open_water"},{"kind":"min_age","hard":true,"min_years":18}]`
	deepWreckReqs = `[{"kind":"min_cert_tier","hard":true,"min_tier":"advanced"},{"kind":"medical_clearance","hard":true,"max_age_days":365},{"kind":"min_logged_dives","hard":false,"min_count":20}]`
)

// SeedReferenceData loads the accounts, subjects and catalog rows every e2e
// suite builds on. Trips and bookings are created through the API under test.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hash, err := password.Hash(SeedPassword)
	if err != nil {
		return err
	}

	accounts := []struct {
		id    uuid.UUID
		email string
		role  string
	}{
		{OperatorAccountID, OperatorEmail, "operator"},
		{GuideAccountID, GuideEmail, "guide"},
		{DiverAccountID, DiverEmail, "diver"},
	}
	for _, a := range accounts {
		if _, err := pool.Exec(ctx,
			`INSERT INTO accounts (id, email, password_hash, role, is_active)
			 VALUES ($1, $2, $3, $4, TRUE)
			 ON CONFLICT (id) DO NOTHING`,
			a.id, a.email, hash, a.role); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	cleared := now.AddDate(0, -2, 0)
	subjects := []struct {
		id        uuid.UUID
		name      string
		tier      string
		cleared   *time.Time
		dives     int
		birthDate time.Time
	}{
		{EligibleSubjectID, "Ada Marlin", "advanced", &cleared, 50, now.AddDate(-30, 0, 0)},
		{SecondSubjectID, "Ben Coral", "rescue", &cleared, 120, now.AddDate(-42, 0, 0)},
		{MinorSubjectID, "Casey Reef", "open_water", &cleared, 12, now.AddDate(-16, 0, 0)},
	}
	for _, s := range subjects {
		if _, err := pool.Exec(ctx,
			`INSERT INTO subjects (id, full_name, cert_tier, medical_cleared_at, logged_dives, birth_date)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			s.id, s.name, s.tier, s.cleared, s.dives, s.birthDate); err != nil {
			return err
		}
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO products (id, name, currency, base_cents, tier_discount_percent, tier_discount_min, requirements)
		 VALUES ($1, 'Two-Tank Reef Dive', 'USD', 10000, 0, 'none', $2),
		        ($3, 'Deep Wreck Expedition', 'USD', 25000, 10, 'advanced', $4)
		 ON CONFLICT (id) DO NOTHING`,
		ReefDiveProductID, reefDiveReqs, DeepWreckProductID, deepWreckReqs); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO site_adjustments (site_name, amount_cents)
		 VALUES ($1, 2000)
		 ON CONFLICT (site_name) DO NOTHING`,
		BlueHoleSite); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO promo_codes (code, amount_off_cents, percent_off, valid_from, valid_to)
		 VALUES ($1, 500, 0, $2, $3),
		        ($4, 1000, 0, $5, $6)
		 ON CONFLICT (code) DO NOTHING`,
		SummerPromo, now.AddDate(0, -1, 0), now.AddDate(0, 1, 0),
		ExpiredPromo, now.AddDate(-1, 0, 0), now.AddDate(0, -6, 0)); err != nil {
		return err
	}

	return nil
}

// ResetDB wipes everything the API wrote during a subtest. Reference data
// seeded above is left in place.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx,
		`TRUNCATE bookings, ledger_events, idempotency_keys, trips CASCADE`)
	return err
}
