package vertical

import (
	"testing"

	"goalflow/internal/goal"
)

func TestDailyFlowNetworkMarketingIncome(t *testing.T) {
	s := NewNetworkMarketing()
	b := s.ComputeGoalBreakdown(goal.Input{
		VerticalID:      goal.VerticalNetworkMarketing,
		Kind:            goal.KindIncome,
		TargetValue:     goal.Float(2000),
		TimeframeMonths: 6,
	})

	got := s.ComputeDailyFlowTargets(b, nil)
	want := goal.DailyFlowTargets{
		VerticalID:    goal.VerticalNetworkMarketing,
		NewContacts:   14,
		Followups:     8,
		Reactivations: 5,
	}
	if got.VerticalID != want.VerticalID || got.NewContacts != want.NewContacts ||
		got.Followups != want.Followups || got.Reactivations != want.Reactivations {
		t.Fatalf("targets = %+v, want %+v", got, want)
	}
}

func TestDailyFlowZeroRateUsesContactMultiplier(t *testing.T) {
	cfg := goal.DailyFlowConfig{
		WorkingDaysPerWeek:   5,
		ContactToPrimaryUnit: 0,
		FollowupsPerPrimary:  1,
		ReactivationShare:    0.5,
	}
	months := 6.0
	totalDays := months * float64(cfg.WorkingDaysPerWeek) * WeeksPerMonth
	b := goal.Breakdown{TimeframeMonths: months, PrimaryUnits: 2 * totalDays}

	got := DailyFlow("custom", b, cfg)
	if got.NewContacts != 10 {
		t.Fatalf("new contacts = %d, want 10", got.NewContacts)
	}
	if got.Followups != 2 {
		t.Fatalf("followups = %d, want 2", got.Followups)
	}
	if got.Reactivations != 6 {
		t.Fatalf("reactivations = %d, want 6", got.Reactivations)
	}
}

func TestDailyFlowFloors(t *testing.T) {
	cfg := NewFinance().DefaultConversionConfig()
	b := goal.Breakdown{TimeframeMonths: 60, PrimaryUnits: 1}

	got := DailyFlow(goal.VerticalFinance, b, cfg)
	if got.NewContacts != 1 || got.Followups != 1 {
		t.Fatalf("expected floors of 1, got %+v", got)
	}
	if got.Reactivations != 0 {
		t.Fatalf("reactivations = %d, want 0", got.Reactivations)
	}

	zero := DailyFlow(goal.VerticalFinance, goal.Breakdown{TimeframeMonths: 6}, cfg)
	if zero.NewContacts != 1 || zero.Followups != 1 || zero.Reactivations != 0 {
		t.Fatalf("zero breakdown targets = %+v", zero)
	}
}

func TestComputeDailyFlowTargetsUsesCallerConfig(t *testing.T) {
	s := NewNetworkMarketing()
	b := s.ComputeGoalBreakdown(goal.Input{
		Kind:            goal.KindIncome,
		TargetValue:     goal.Float(2000),
		TimeframeMonths: 6,
	})
	cfg := s.DefaultConversionConfig()
	cfg.ContactToPrimaryUnit = 0.1

	got := s.ComputeDailyFlowTargets(b, &cfg)
	if got.NewContacts != 28 {
		t.Fatalf("new contacts = %d, want 28", got.NewContacts)
	}
}

func TestDefaultConversionConfigIsCopy(t *testing.T) {
	s := NewRealEstate()
	cfg := s.DefaultConversionConfig()
	*cfg.ContactToSecondaryUnit = 0.99
	cfg.WorkingDaysPerWeek = 1

	again := s.DefaultConversionConfig()
	if *again.ContactToSecondaryUnit != 0.3 || again.WorkingDaysPerWeek != 6 {
		t.Fatalf("default config mutated: %+v", again)
	}
}

func TestBuiltinConfigsAreValid(t *testing.T) {
	for _, s := range []Strategy{NewNetworkMarketing(), NewRealEstate(), NewFinance(), NewCoaching()} {
		cfg := s.DefaultConversionConfig()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("%s default config invalid: %v", s.ID(), err)
		}
		if cfg.ContactToPrimaryUnit == 0 {
			t.Fatalf("%s default config relies on the zero-rate heuristic", s.ID())
		}
	}
}
