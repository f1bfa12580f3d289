//go:build unit || e2e

package builder

import (
	"time"

	"tripcore/internal/domain/eligibility"

	"github.com/google/uuid"
)

// SubjectBuilder produces a subject that passes the default requirement set;
// tests mutate a single attribute to trigger the failure under test.
type SubjectBuilder struct {
	id               uuid.UUID
	certTier         eligibility.CertTier
	medicalClearedAt *time.Time
	loggedDives      int
	birthDate        time.Time
}

func NewSubjectBuilder() *SubjectBuilder {
	cleared := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &SubjectBuilder{
		id:               uuid.New(),
		certTier:         eligibility.TierAdvanced,
		medicalClearedAt: &cleared,
		loggedDives:      50,
		birthDate:        time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (b *SubjectBuilder) WithCertTier(tier eligibility.CertTier) *SubjectBuilder {
	b.certTier = tier
	return b
}

func (b *SubjectBuilder) WithMedicalClearedAt(t *time.Time) *SubjectBuilder {
	b.medicalClearedAt = t
	return b
}

func (b *SubjectBuilder) WithLoggedDives(count int) *SubjectBuilder {
	b.loggedDives = count
	return b
}

func (b *SubjectBuilder) WithBirthDate(t time.Time) *SubjectBuilder {
	b.birthDate = t
	return b
}

func (b *SubjectBuilder) Build() eligibility.Subject {
	return eligibility.Subject{
		ID:               b.id,
		CertTier:         b.certTier,
		MedicalClearedAt: b.medicalClearedAt,
		LoggedDives:      b.loggedDives,
		BirthDate:        b.birthDate,
	}
}
