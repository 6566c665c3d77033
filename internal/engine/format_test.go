package engine

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"goalflow/internal/goal"
)

func TestFormatForDailyFlow(t *testing.T) {
	svc := New(nil, WithLocale(language.English))
	res, err := svc.CalculateGoalComplete(scenarioA())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	w := svc.FormatForDailyFlow(res)
	if w.VerticalID != goal.VerticalNetworkMarketing || w.VerticalLabel != "Network Marketing" {
		t.Fatalf("widget identity = %s/%s", w.VerticalID, w.VerticalLabel)
	}
	if got, want := w.Headline, "Today: 14 new contacts, 8 follow-ups, 5 reactivations"; got != want {
		t.Fatalf("headline = %q, want %q", got, want)
	}
	if got, want := w.Detail, "367 customers and partners in 6 months, 962 volume per week"; got != want {
		t.Fatalf("detail = %q, want %q", got, want)
	}

	if got := svc.FormatForDailyFlow(nil); got.Headline != "" {
		t.Fatalf("nil result headline = %q", got.Headline)
	}
}

func TestFormatForChiefCoaching(t *testing.T) {
	svc := New(nil, WithLocale(language.English))
	res, err := svc.CalculateGoalComplete(scenarioA())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	got := svc.FormatForChiefCoaching(res)
	want := "Network Marketing plan for your income goal of 2,000 in 6 months: you need 367 customers and partners. " +
		"That adds up to 25,000 in volume, 4,167 per month. " +
		"Every working day, reach out to 14 new people, follow up with 8 and reactivate 5 dormant contacts."
	if got != want {
		t.Fatalf("coaching text =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatForChiefCoachingSecondaryAndFallback(t *testing.T) {
	svc := New(nil, WithLocale(language.English))
	res, err := svc.CalculateGoalComplete(goal.Input{
		VerticalID:      "unknown_vertical_xyz",
		Kind:            goal.KindIncome,
		TargetValue:     goal.Float(2000),
		TimeframeMonths: 6,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	got := svc.FormatForChiefCoaching(res)
	if !strings.Contains(got, `"unknown_vertical_xyz" is not a vertical I know yet`) {
		t.Fatalf("coaching text missing fallback notice:\n%s", got)
	}

	res, err = svc.CalculateGoalComplete(goal.Input{
		VerticalID:      goal.VerticalRealEstate,
		Kind:            goal.KindDeals,
		TargetValue:     goal.Float(10),
		TimeframeMonths: 3,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	got = svc.FormatForChiefCoaching(res)
	for _, want := range []string{
		"you need 10 deals, which takes about 67 viewings",
		"3,500,000 in volume",
		"Keep an eye on viewings per week (5.1).",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("coaching text missing %q:\n%s", want, got)
		}
	}
}

func TestFormatForChiefCoachingRankGoal(t *testing.T) {
	svc := New(nil, WithLocale(language.English))
	cases := []struct {
		name string
		in   goal.Input
		want string
	}{
		{
			name: "meta rank",
			in:   goal.Input{Kind: goal.KindRank, TimeframeMonths: 12, Meta: map[string]string{"target_rank": "director"}},
			want: "rank goal of director in 12 months",
		},
		{
			name: "rank index",
			in:   goal.Input{Kind: goal.KindRank, TargetValue: goal.Float(6), TimeframeMonths: 12},
			want: "rank goal of executive in 12 months",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.VerticalID = goal.VerticalNetworkMarketing
			res, err := svc.CalculateGoalComplete(tc.in)
			if err != nil {
				t.Fatalf("calculate: %v", err)
			}
			got := svc.FormatForChiefCoaching(res)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("coaching text missing %q:\n%s", tc.want, got)
			}
			if strings.Contains(got, "goal of 6") {
				t.Fatalf("coaching text renders the rank index:\n%s", got)
			}
		})
	}
}

func TestFormatUsesGermanGroupingByDefault(t *testing.T) {
	svc := New(nil)
	res, err := svc.CalculateGoalComplete(scenarioA())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if got := svc.FormatForChiefCoaching(res); !strings.Contains(got, "25.000 in volume") {
		t.Fatalf("expected german grouping:\n%s", got)
	}
}
