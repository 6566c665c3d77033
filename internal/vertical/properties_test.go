package vertical

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"goalflow/internal/goal"
)

func strategies() []Strategy {
	return []Strategy{NewNetworkMarketing(), NewRealEstate(), NewFinance(), NewCoaching()}
}

func TestDailyFlowProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	all := strategies()
	kinds := goal.Kinds()

	properties.Property("daily targets respect their floors", prop.ForAll(
		func(si, ki int, target float64, months int) bool {
			s := all[si]
			b := s.ComputeGoalBreakdown(goal.Input{
				Kind:            kinds[ki],
				TargetValue:     goal.Float(target),
				TimeframeMonths: float64(months),
			})
			got := s.ComputeDailyFlowTargets(b, nil)
			return got.NewContacts >= 1 && got.Followups >= 1 && got.Reactivations >= 0
		},
		gen.IntRange(0, len(all)-1),
		gen.IntRange(0, len(kinds)-1),
		gen.Float64Range(1, 1e6),
		gen.IntRange(1, 60),
	))

	properties.Property("larger income targets need strictly more units", prop.ForAll(
		func(si int, target, factor float64, months int) bool {
			s := all[si]
			small := s.ComputeGoalBreakdown(income(target, float64(months)))
			large := s.ComputeGoalBreakdown(income(target*factor, float64(months)))
			return large.PrimaryUnits > small.PrimaryUnits &&
				*large.RequiredVolume > *small.RequiredVolume
		},
		gen.IntRange(0, len(all)-1),
		gen.Float64Range(100, 1e6),
		gen.Float64Range(1.01, 10),
		gen.IntRange(1, 60),
	))

	properties.Property("daily activity never shrinks as the goal grows", prop.ForAll(
		func(si int, target, factor float64, months int) bool {
			s := all[si]
			small := s.ComputeGoalBreakdown(income(target, float64(months)))
			large := s.ComputeGoalBreakdown(income(target*factor, float64(months)))
			a := s.ComputeDailyFlowTargets(small, nil)
			b := s.ComputeDailyFlowTargets(large, nil)
			return b.NewContacts >= a.NewContacts && b.Followups >= a.Followups
		},
		gen.IntRange(0, len(all)-1),
		gen.Float64Range(100, 1e6),
		gen.Float64Range(1.01, 10),
		gen.IntRange(1, 60),
	))

	properties.Property("volume apportionment adds back up", prop.ForAll(
		func(si int, target float64, months int) bool {
			s := all[si]
			b := s.ComputeGoalBreakdown(income(target, float64(months)))
			return approx(*b.PerMonthVolume*float64(months), *b.RequiredVolume) &&
				approx(*b.PerWeekVolume*float64(months)*WeeksPerMonth, *b.RequiredVolume)
		},
		gen.IntRange(0, len(all)-1),
		gen.Float64Range(1, 1e6),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
