// Package plan maps subscription tiers to invoice quotas and feature flags.
// Everything here is a pure function over the tier enum; persistence and
// counting live in the services package.
package plan

import (
	"errors"
	"fmt"
)

// Plan is a subscription tier.
type Plan string

const (
	Free Plan = "FREE"
	Pro  Plan = "PRO"
)

// FreeLimit is the number of invoices a FREE user may hold.
// The product history also carried an unused limit of 20; 5 is the value the
// live usage endpoint enforced and is the canonical one here.
const FreeLimit = 5

// Unlimited is the sentinel quota for tiers without an invoice cap.
// Callers must treat it as a flag, never compare counts against it.
const Unlimited = -1

// ErrInvalidPlan is returned for tier values outside the enum. Boundary
// validation should make this unreachable.
var ErrInvalidPlan = errors.New("invalid plan")

// Features are the boolean capabilities attached to a tier.
type Features struct {
	CustomBranding  bool `json:"customBranding"`
	Qris            bool `json:"qris"`
	CleanExport     bool `json:"cleanExport"` // no watermark on rendered invoices
	PrioritySupport bool `json:"prioritySupport"`
}

// Parse validates a raw tier string.
func Parse(s string) (Plan, error) {
	switch Plan(s) {
	case Free:
		return Free, nil
	case Pro:
		return Pro, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
}

// LimitFor returns the invoice quota for a tier (Unlimited for PRO).
func LimitFor(p Plan) (int, error) {
	switch p {
	case Free:
		return FreeLimit, nil
	case Pro:
		return Unlimited, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPlan, p)
}

// FeaturesFor returns the capability flags for a tier.
func FeaturesFor(p Plan) (Features, error) {
	switch p {
	case Free:
		return Features{}, nil
	case Pro:
		return Features{CustomBranding: true, Qris: true, CleanExport: true, PrioritySupport: true}, nil
	}
	return Features{}, fmt.Errorf("%w: %q", ErrInvalidPlan, p)
}

// Remaining returns how many more invoices may be created (Unlimited for PRO).
func Remaining(count int, p Plan) (int, error) {
	limit, err := LimitFor(p)
	if err != nil {
		return 0, err
	}
	if limit == Unlimited {
		return Unlimited, nil
	}
	if rem := limit - count; rem > 0 {
		return rem, nil
	}
	return 0, nil
}

// CanCreate reports whether one more invoice fits under the tier's quota.
func CanCreate(count int, p Plan) (bool, error) {
	limit, err := LimitFor(p)
	if err != nil {
		return false, err
	}
	if limit == Unlimited {
		return true, nil
	}
	return count < limit, nil
}
