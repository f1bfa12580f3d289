package eligibility

import (
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the closed set of requirement predicates. Adding a kind is a
// compile-time-visible change: the evaluator switch must handle it or the
// requirement fails hard as unsupported.
type Kind string

const (
	KindMinCertTier      Kind = "min_cert_tier"
	KindMedicalClearance Kind = "medical_clearance"
	KindMinLoggedDives   Kind = "min_logged_dives"
	KindMinAge           Kind = "min_age"
)

type CertTier string

const (
	TierNone       CertTier = "none"
	TierOpenWater  CertTier = "open_water"
	TierAdvanced   CertTier = "advanced"
	TierRescue     CertTier = "rescue"
	TierDivemaster CertTier = "divemaster"
	TierInstructor CertTier = "instructor"
)

var tierRank = map[CertTier]int{
	TierNone:       0,
	TierOpenWater:  1,
	TierAdvanced:   2,
	TierRescue:     3,
	TierDivemaster: 4,
	TierInstructor: 5,
}

func (t CertTier) AtLeast(min CertTier) bool {
	return tierRank[t] >= tierRank[min]
}

// Requirement is one published predicate on a product definition. Requirements
// are immutable once published; a product revision carries a new set rather
// than editing entries in place.
type Requirement struct {
	Kind Kind `json:"kind"`
	// Hard requirements flip the overall outcome when they fail; soft ones are
	// advisory and only reported.
	Hard bool `json:"hard"`

	// Kind-specific parameters.
	MinTier    CertTier `json:"min_tier,omitempty"`
	MaxAgeDays int      `json:"max_age_days,omitempty"`
	MinCount   int      `json:"min_count,omitempty"`
	MinYears   int      `json:"min_years,omitempty"`
}

// Subject is the point-in-time attribute snapshot of the person being judged.
// The identity subsystem owns the source data.
type Subject struct {
	ID               uuid.UUID
	CertTier         CertTier
	MedicalClearedAt *time.Time
	LoggedDives      int
	BirthDate        time.Time
}
