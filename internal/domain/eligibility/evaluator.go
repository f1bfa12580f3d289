package eligibility

import (
	"fmt"
	"time"
)

// Check records one requirement's verdict with a remediation-grade reason.
type Check struct {
	Requirement Requirement `json:"requirement"`
	Passed      bool        `json:"passed"`
	Reason      string      `json:"reason"`
}

// Decision is the complete result of evaluating a requirement set against a
// subject at a point in time. It is a value: never mutated, persisted only
// inside the ledger event that recorded it.
type Decision struct {
	Eligible    bool      `json:"eligible"`
	Checks      []Check   `json:"checks"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NotEligibleError carries the full decision so callers can surface every
// deficiency, not just a boolean.
type NotEligibleError struct {
	Decision Decision
}

func (e *NotEligibleError) Error() string {
	failed := 0
	for _, c := range e.Decision.Checks {
		if !c.Passed && c.Requirement.Hard {
			failed++
		}
	}
	return fmt.Sprintf("subject not eligible: %d hard requirement(s) failed", failed)
}

// Evaluate judges every requirement in declaration order against the subject
// as of the given time. A failing hard requirement makes the decision
// ineligible but evaluation always continues so the caller gets the complete
// list of deficiencies. Pure: no I/O, no clock reads, deterministic.
func Evaluate(subject Subject, requirements []Requirement, asOf time.Time) Decision {
	decision := Decision{
		Eligible:    true,
		Checks:      make([]Check, 0, len(requirements)),
		EvaluatedAt: asOf,
	}

	for _, req := range requirements {
		passed, reason := evaluateOne(subject, req, asOf)
		decision.Checks = append(decision.Checks, Check{
			Requirement: req,
			Passed:      passed,
			Reason:      reason,
		})
		if !passed && req.Hard {
			decision.Eligible = false
		}
	}

	return decision
}

func evaluateOne(subject Subject, req Requirement, asOf time.Time) (bool, string) {
	switch req.Kind {
	case KindMinCertTier:
		if subject.CertTier.AtLeast(req.MinTier) {
			return true, fmt.Sprintf("certification tier %s meets required %s", subject.CertTier, req.MinTier)
		}
		return false, fmt.Sprintf("requires tier >= %s, subject has %s", req.MinTier, subject.CertTier)

	case KindMedicalClearance:
		if subject.MedicalClearedAt == nil {
			return false, fmt.Sprintf("requires medical clearance within %d days, subject has none on file", req.MaxAgeDays)
		}
		expiry := subject.MedicalClearedAt.AddDate(0, 0, req.MaxAgeDays)
		if asOf.After(expiry) {
			return false, fmt.Sprintf("medical clearance from %s expired %s (max age %d days)",
				subject.MedicalClearedAt.Format("2006-01-02"), expiry.Format("2006-01-02"), req.MaxAgeDays)
		}
		return true, fmt.Sprintf("medical clearance from %s is current", subject.MedicalClearedAt.Format("2006-01-02"))

	case KindMinLoggedDives:
		if subject.LoggedDives >= req.MinCount {
			return true, fmt.Sprintf("%d logged dives meets required %d", subject.LoggedDives, req.MinCount)
		}
		return false, fmt.Sprintf("requires %d logged dives, subject has %d", req.MinCount, subject.LoggedDives)

	case KindMinAge:
		age := yearsBetween(subject.BirthDate, asOf)
		if age >= req.MinYears {
			return true, fmt.Sprintf("age %d meets required minimum %d", age, req.MinYears)
		}
		return false, fmt.Sprintf("requires minimum age %d, subject is %d", req.MinYears, age)

	default:
		// An unrecognized rule must never be silently skipped.
		return false, fmt.Sprintf("unsupported requirement kind %q", req.Kind)
	}
}

func yearsBetween(birth, asOf time.Time) int {
	years := asOf.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(asOf) {
		years--
	}
	return years
}
