package engine

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"

	"goalflow/internal/goal"
	"goalflow/internal/registry"
)

func scenarioA() goal.Input {
	return goal.Input{
		VerticalID:      goal.VerticalNetworkMarketing,
		Kind:            goal.KindIncome,
		TargetValue:     goal.Float(2000),
		TimeframeMonths: 6,
	}
}

func TestCalculateGoalCompleteNetworkMarketing(t *testing.T) {
	svc := New(nil, WithLocale(language.English))

	res, err := svc.CalculateGoalComplete(scenarioA())
	require.NoError(t, err)

	require.Equal(t, "Network Marketing", res.VerticalLabel)
	require.InDelta(t, 25000, *res.Breakdown.RequiredVolume, 1e-6)
	details, ok := res.Breakdown.Details.(goal.NetworkMarketingDetails)
	require.True(t, ok)
	require.Equal(t, 292, details.Customers)
	require.Equal(t, 75, details.Partners)

	require.Equal(t, 14, res.DailyTargets.NewContacts)
	require.Equal(t, 8, res.DailyTargets.Followups)
	require.Equal(t, 5, res.DailyTargets.Reactivations)
	require.Len(t, res.KPIs, 5)
	require.Contains(t, res.Summary, "Required volume: 25,000")
	require.False(t, res.Resolution.Fallback)
}

func TestCalculateGoalCompleteRealEstateDeals(t *testing.T) {
	svc := New(nil)

	res, err := svc.CalculateGoalComplete(goal.Input{
		VerticalID:      goal.VerticalRealEstate,
		Kind:            goal.KindDeals,
		TargetValue:     goal.Float(10),
		TimeframeMonths: 3,
	})
	require.NoError(t, err)

	details := res.Breakdown.Details.(goal.RealEstateDetails)
	require.Equal(t, 67, details.Viewings)
	require.InDelta(t, 105000, details.EstimatedCommission, 1e-6)
	require.InDelta(t, 3500000, *res.Breakdown.RequiredVolume, 1e-6)
	require.Contains(t, res.DailyTargets.CustomTargets, "viewings_per_week")
}

func TestCalculateGoalCompleteValidation(t *testing.T) {
	svc := New(nil)
	cases := []struct {
		name    string
		target  *float64
		months  float64
		wantErr []string
	}{
		{name: "one month", target: goal.Float(1000), months: 1},
		{name: "sixty months", target: goal.Float(1000), months: 60},
		{name: "zero months", target: goal.Float(1000), months: 0, wantErr: []string{"timeframe_months must be between 1 and 60"}},
		{name: "sixty one months", target: goal.Float(1000), months: 61, wantErr: []string{"timeframe_months must be between 1 and 60"}},
		{name: "zero target", target: goal.Float(0), months: 6, wantErr: []string{"target_value must be greater than 0"}},
		{name: "infinite target", target: goal.Float(math.Inf(1)), months: 6, wantErr: []string{"target_value must be a finite number"}},
		{name: "nan target", target: goal.Float(math.NaN()), months: 6, wantErr: []string{"target_value must be a finite number"}},
		{
			name:    "negative target and bad months",
			target:  goal.Float(-10),
			months:  0,
			wantErr: []string{"timeframe_months must be between 1 and 60", "target_value must be greater than 0"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := scenarioA()
			in.TargetValue = tc.target
			in.TimeframeMonths = tc.months

			res, err := svc.CalculateGoalComplete(in)
			if len(tc.wantErr) == 0 {
				require.NoError(t, err)
				require.NotNil(t, res)
				return
			}
			require.Nil(t, res)
			var ve *goal.ValidationError
			require.True(t, errors.As(err, &ve), "error type %T", err)
			require.Equal(t, tc.wantErr, ve.Errors)
		})
	}
}

func TestUnknownVerticalFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := New(nil, WithLogger(zap.New(core)))

	in := scenarioA()
	in.VerticalID = "unknown_vertical_xyz"
	res, err := svc.CalculateGoalComplete(in)
	require.NoError(t, err)

	require.Equal(t, registry.Resolution{
		Requested: "unknown_vertical_xyz",
		Resolved:  goal.VerticalNetworkMarketing,
		Fallback:  true,
	}, res.Resolution)
	require.Equal(t, goal.VerticalNetworkMarketing, res.Breakdown.VerticalID)
	require.Equal(t, 14, res.DailyTargets.NewContacts)

	entries := logs.FilterMessage("unknown vertical, using fallback").All()
	require.Len(t, entries, 1)
	require.Equal(t, "unknown_vertical_xyz", entries[0].ContextMap()["requested"])
}

func TestWithFallbackVertical(t *testing.T) {
	svc := New(nil, WithFallbackVertical(goal.VerticalCoaching))

	kpis := svc.KPIsForVertical("unknown")
	require.Equal(t, "leads", kpis[0].ID)
	require.Equal(t, 0.1, svc.DefaultConfig("unknown").ReactivationShare)
}

func TestCalculateDailyTargetsCustomConfig(t *testing.T) {
	svc := New(nil)
	cfg := svc.DefaultConfig(goal.VerticalNetworkMarketing)
	cfg.ContactToPrimaryUnit = 0.1

	targets, err := svc.CalculateDailyTargets(scenarioA(), &cfg)
	require.NoError(t, err)
	require.Equal(t, 28, targets.NewContacts)

	targets, err = svc.CalculateDailyTargets(scenarioA(), nil)
	require.NoError(t, err)
	require.Equal(t, 14, targets.NewContacts)
}

func TestCalculateDailyTargetsRejectsBadConfig(t *testing.T) {
	svc := New(nil)
	cfg := svc.DefaultConfig(goal.VerticalNetworkMarketing)
	cfg.WorkingDaysPerWeek = 0
	cfg.ReactivationShare = 1.5

	in := scenarioA()
	in.TimeframeMonths = 0
	_, err := svc.CalculateDailyTargets(in, &cfg)

	var ve *goal.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{
		"timeframe_months must be between 1 and 60",
		"working_days_per_week must be between 1 and 7",
		"reactivation_share must be between 0.0 and 1.0",
	}, ve.Errors)
}

func TestConfigOverrides(t *testing.T) {
	cfg := New(nil).DefaultConfig(goal.VerticalNetworkMarketing)
	cfg.ContactToPrimaryUnit = 0.1
	svc := New(nil, WithConfigOverrides(map[goal.VerticalID]goal.DailyFlowConfig{
		goal.VerticalNetworkMarketing: cfg,
	}))

	require.Equal(t, 0.1, svc.DefaultConfig(goal.VerticalNetworkMarketing).ContactToPrimaryUnit)
	require.Equal(t, 0.05, svc.DefaultConfig(goal.VerticalRealEstate).ContactToPrimaryUnit)

	res, err := svc.CalculateGoalComplete(scenarioA())
	require.NoError(t, err)
	require.Equal(t, 28, res.DailyTargets.NewContacts)
}

func TestCalculateBreakdown(t *testing.T) {
	svc := New(nil)
	b, err := svc.CalculateBreakdown(goal.Input{
		VerticalID:      goal.VerticalCoaching,
		Kind:            goal.KindClients,
		TargetValue:     goal.Float(8),
		TimeframeMonths: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 8.0, b.PrimaryUnits)

	_, err = svc.CalculateBreakdown(goal.Input{VerticalID: goal.VerticalCoaching, TimeframeMonths: 100})
	require.Error(t, err)
}

func TestEmptyRegistry(t *testing.T) {
	svc := New(registry.NewBuilder().Build())

	_, err := svc.CalculateGoalComplete(scenarioA())
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "no verticals registered"))
	require.Nil(t, svc.KPIsForVertical(goal.VerticalFinance))
	require.Empty(t, svc.ListVerticals())
}

func TestListVerticals(t *testing.T) {
	svc := New(nil)
	list := svc.ListVerticals()
	require.Len(t, list, 4)
	require.Equal(t, goal.VerticalNetworkMarketing, list[0].ID)
}

func TestOverflowingTargetIsRejected(t *testing.T) {
	svc := New(nil)
	in := scenarioA()
	in.TargetValue = goal.Float(1e308)

	res, err := svc.CalculateGoalComplete(in)
	require.Nil(t, res)
	var ve *goal.ValidationError
	require.True(t, errors.As(err, &ve), "error type %T", err)
	require.Equal(t, []string{"target_value is too large to compute a breakdown"}, ve.Errors)

	_, err = svc.CalculateBreakdown(in)
	require.True(t, errors.As(err, &ve))

	_, err = svc.CalculateDailyTargets(in, nil)
	require.True(t, errors.As(err, &ve))

	// Large but finite chains still compute and encode.
	in.TargetValue = goal.Float(1e12)
	res, err = svc.CalculateGoalComplete(in)
	require.NoError(t, err)
	require.Positive(t, res.Breakdown.Details.(goal.NetworkMarketingDetails).Customers)
	_, err = json.Marshal(res)
	require.NoError(t, err)
}

func TestRegistryGetUnknownThroughService(t *testing.T) {
	svc := New(nil)

	s, err := svc.Registry().Get("unknown")
	require.Nil(t, s)
	require.Error(t, err)
	require.Contains(t, err.Error(), "coaching, finance, network_marketing, real_estate")
}
