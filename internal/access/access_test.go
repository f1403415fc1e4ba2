package access

import (
	"testing"
	"time"

	"tsinda/internal/model"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeProfile(attemptsLeft *int) *model.Profile {
	planID := "plan-month"
	expiry := now.Add(24 * time.Hour)
	return &model.Profile{
		UserID:        "user-1",
		CurrentPlanID: &planID,
		PlanExpiresAt: &expiry,
		AttemptsLeft:  attemptsLeft,
	}
}

func intPtr(n int) *int { return &n }

func TestCanAccessFreeContent(t *testing.T) {
	if !CanAccess(nil, false, now) {
		t.Fatal("free content must be accessible without a profile")
	}
	if !CanAccess(&model.Profile{}, false, now) {
		t.Fatal("free content must be accessible regardless of plan")
	}
}

func TestCanAccessPremiumRequiresProfile(t *testing.T) {
	if CanAccess(nil, true, now) {
		t.Fatal("premium content must not be accessible anonymously")
	}
}

func TestCanAccessAdminBypassesPlan(t *testing.T) {
	admin := &model.Profile{IsAdmin: true}
	if !CanAccess(admin, true, now) {
		t.Fatal("admin must access premium content without a plan")
	}
}

func TestCanAccessActivePlan(t *testing.T) {
	if !CanAccess(activeProfile(nil), true, now) {
		t.Fatal("active plan must grant premium access")
	}
}

func TestCanAccessExpiryEqualToNowDenies(t *testing.T) {
	p := activeProfile(nil)
	p.PlanExpiresAt = &now
	if CanAccess(p, true, now) {
		t.Fatal("expiry equal to now must deny access")
	}
}

func TestCanAccessMissingPlanFields(t *testing.T) {
	p := activeProfile(nil)
	p.CurrentPlanID = nil
	if CanAccess(p, true, now) {
		t.Fatal("missing plan id must deny access")
	}

	p = activeProfile(nil)
	p.PlanExpiresAt = nil
	if CanAccess(p, true, now) {
		t.Fatal("missing expiry must deny access")
	}
}

func TestCanViewReasons(t *testing.T) {
	expired := activeProfile(nil)
	past := now.Add(-time.Hour)
	expired.PlanExpiresAt = &past

	noPlan := activeProfile(nil)
	noPlan.CurrentPlanID = nil

	cases := []struct {
		name    string
		profile *model.Profile
		allowed bool
		reason  Reason
	}{
		{"anonymous", nil, false, ReasonLoginRequired},
		{"no plan", noPlan, false, ReasonUpgradeRequired},
		{"expired plan", expired, false, ReasonPlanExpired},
		{"active plan", activeProfile(nil), true, ReasonNone},
	}
	for _, tc := range cases {
		d := CanView(tc.profile, true, now)
		if d.Allowed != tc.allowed || d.Reason != tc.reason {
			t.Errorf("%s: got allowed=%v reason=%q, want allowed=%v reason=%q",
				tc.name, d.Allowed, d.Reason, tc.allowed, tc.reason)
		}
	}
}

func TestCanViewNeverReportsNoAttemptsLeft(t *testing.T) {
	p := activeProfile(intPtr(0))
	d := CanView(p, true, now)
	if !d.Allowed {
		t.Fatalf("viewing must not consume attempts, got reason %q", d.Reason)
	}
}

func TestCanAttemptRequiresLoginEvenForFreeQuiz(t *testing.T) {
	d := CanAttempt(nil, false, now)
	if d.Allowed || d.Reason != ReasonLoginRequired {
		t.Fatalf("anonymous attempt must be denied with login reason, got %+v", d)
	}
}

func TestCanAttemptFreeQuizWithProfile(t *testing.T) {
	d := CanAttempt(&model.Profile{UserID: "user-1"}, false, now)
	if !d.Allowed {
		t.Fatalf("free quiz attempt with a profile must be allowed, got %+v", d)
	}
}

func TestCanAttemptAdminIgnoresAttemptsLeft(t *testing.T) {
	admin := &model.Profile{IsAdmin: true, AttemptsLeft: intPtr(0)}
	d := CanAttempt(admin, true, now)
	if !d.Allowed {
		t.Fatalf("admin attempt must be allowed, got %+v", d)
	}
}

func TestCanAttemptReasonPriority(t *testing.T) {
	// A profile that is simultaneously expired and out of attempts must
	// surface the expiry, not the counter.
	p := activeProfile(intPtr(0))
	past := now.Add(-time.Minute)
	p.PlanExpiresAt = &past
	d := CanAttempt(p, true, now)
	if d.Reason != ReasonPlanExpired {
		t.Fatalf("expected PLAN_EXPIRED, got %q", d.Reason)
	}

	// No plan at all beats expiry.
	p = activeProfile(intPtr(0))
	p.CurrentPlanID = nil
	d = CanAttempt(p, true, now)
	if d.Reason != ReasonUpgradeRequired {
		t.Fatalf("expected UPGRADE_REQUIRED, got %q", d.Reason)
	}
}

func TestCanAttemptAttemptsCounter(t *testing.T) {
	d := CanAttempt(activeProfile(intPtr(0)), true, now)
	if d.Allowed || d.Reason != ReasonNoAttemptsLeft {
		t.Fatalf("zero attempts must deny, got %+v", d)
	}

	d = CanAttempt(activeProfile(intPtr(3)), true, now)
	if !d.Allowed {
		t.Fatalf("positive attempts must allow, got %+v", d)
	}

	d = CanAttempt(activeProfile(nil), true, now)
	if !d.Allowed {
		t.Fatalf("nil attempts counter means unlimited, got %+v", d)
	}
}
