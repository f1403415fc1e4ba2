// Package access decides whether a user may view premium content and
// whether they may start a quiz attempt. All evaluations are pure
// functions of the profile, the item and an injected instant; nothing
// here reads a clock or touches storage.
package access

import (
	"time"

	"tsinda/internal/model"
)

// Reason explains a denied decision. Exactly one reason is surfaced per
// denial, in the priority order login > plan-existence > expiry > attempts.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonLoginRequired   Reason = "LOGIN_REQUIRED"
	ReasonUpgradeRequired Reason = "UPGRADE_REQUIRED"
	ReasonPlanExpired     Reason = "PLAN_EXPIRED"
	ReasonNoAttemptsLeft  Reason = "NO_ATTEMPTS_LEFT"
)

// Decision is the result of an attempt-gate evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// CanAccess reports whether the profile may view an item. Non-premium
// items are always accessible. Premium items require the admin flag, or
// a current plan whose expiry is strictly after now: an expiry equal to
// now means the plan has expired.
func CanAccess(p *model.Profile, isPremium bool, now time.Time) bool {
	if !isPremium {
		return true
	}
	if p == nil {
		return false
	}
	if p.IsAdmin {
		return true
	}
	if p.CurrentPlanID == nil || p.PlanExpiresAt == nil {
		return false
	}
	return p.PlanExpiresAt.After(now)
}

// CanView is CanAccess with the denial reason attached, for callers
// that surface why a premium item is locked. It never reports
// NO_ATTEMPTS_LEFT: viewing content does not consume attempts.
func CanView(p *model.Profile, isPremium bool, now time.Time) Decision {
	if !isPremium {
		return Decision{Allowed: true}
	}
	if p == nil {
		return Decision{Allowed: false, Reason: ReasonLoginRequired}
	}
	if p.IsAdmin {
		return Decision{Allowed: true}
	}
	if p.CurrentPlanID == nil || p.PlanExpiresAt == nil {
		return Decision{Allowed: false, Reason: ReasonUpgradeRequired}
	}
	if !p.PlanExpiresAt.After(now) {
		return Decision{Allowed: false, Reason: ReasonPlanExpired}
	}
	return Decision{Allowed: true}
}

// CanAttempt reports whether the profile may start a quiz attempt on an
// item. It composes entitlement with the attempts-left counter: admins
// are always allowed, an active plan additionally requires the counter
// to be nil (unlimited) or strictly positive.
func CanAttempt(p *model.Profile, isPremium bool, now time.Time) Decision {
	if p == nil {
		return Decision{Allowed: false, Reason: ReasonLoginRequired}
	}
	if !isPremium || p.IsAdmin {
		return Decision{Allowed: true}
	}
	if p.CurrentPlanID == nil || p.PlanExpiresAt == nil {
		return Decision{Allowed: false, Reason: ReasonUpgradeRequired}
	}
	if !p.PlanExpiresAt.After(now) {
		return Decision{Allowed: false, Reason: ReasonPlanExpired}
	}
	if p.AttemptsLeft != nil && *p.AttemptsLeft <= 0 {
		return Decision{Allowed: false, Reason: ReasonNoAttemptsLeft}
	}
	return Decision{Allowed: true}
}
