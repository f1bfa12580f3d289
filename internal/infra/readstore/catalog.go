package readstore

import (
	"context"
	"encoding/json"
	"errors"

	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogReadStore serves the write-side snapshots of collaborator-owned data:
// subjects from identity, products and adjustments from the catalog.
type CatalogReadStore struct {
	dbtx db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) shared.CommandReads {
	return &CatalogReadStore{dbtx: dbtx}
}

func (s *CatalogReadStore) SubjectByID(ctx context.Context, id uuid.UUID) (*eligibility.Subject, error) {
	const query = `
		SELECT id, cert_tier, medical_cleared_at, logged_dives, birth_date
		FROM subjects WHERE id = $1`

	var subject eligibility.Subject
	var tier string
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&subject.ID, &tier, &subject.MedicalClearedAt, &subject.LoggedDives, &subject.BirthDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "subject not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan subject", err)
	}
	subject.CertTier = eligibility.CertTier(tier)
	return &subject, nil
}

func (s *CatalogReadStore) ProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	const query = `
		SELECT id, name, currency, base_cents, tier_discount_percent, tier_discount_min, requirements
		FROM products WHERE id = $1`

	var snapshot shared.ProductSnapshot
	var minTier string
	var requirementsJSON []byte
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&snapshot.ID, &snapshot.Name, &snapshot.Currency, &snapshot.BaseCents,
		&snapshot.TierDiscountPercent, &minTier, &requirementsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "product not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan product", err)
	}

	snapshot.TierDiscountMin = eligibility.CertTier(minTier)
	if err := json.Unmarshal(requirementsJSON, &snapshot.Requirements); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode product requirements", err)
	}
	return &snapshot, nil
}

func (s *CatalogReadStore) SiteAdjustment(ctx context.Context, siteName string) (*pricing.SiteAdjustment, error) {
	const query = `SELECT site_name, amount_cents FROM site_adjustments WHERE site_name = $1`

	var adj pricing.SiteAdjustment
	err := s.dbtx.QueryRow(ctx, query, siteName).Scan(&adj.SiteName, &adj.AmountCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "site adjustment not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan site adjustment", err)
	}
	return &adj, nil
}

func (s *CatalogReadStore) PromoByCode(ctx context.Context, code string) (*pricing.PromoCode, error) {
	const query = `
		SELECT code, amount_off_cents, percent_off, valid_from, valid_to
		FROM promo_codes WHERE code = $1`

	var promo pricing.PromoCode
	err := s.dbtx.QueryRow(ctx, query, code).Scan(
		&promo.Code, &promo.AmountOffCents, &promo.PercentOff, &promo.ValidFrom, &promo.ValidTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "promo code not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan promo code", err)
	}
	return &promo, nil
}
