package vertical

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"goalflow/internal/goal"
)

func formatSummary(locale language.Tag, label string, b goal.Breakdown, t goal.DailyFlowTargets) string {
	p := message.NewPrinter(locale)
	var sb strings.Builder

	sb.WriteString(p.Sprintf("%s: %s goal over %d months\n", label, b.Kind, roundCount(b.TimeframeMonths)))
	if b.RequiredVolume != nil {
		sb.WriteString(p.Sprintf("Required volume: %d", roundCount(*b.RequiredVolume)))
		if b.PerMonthVolume != nil {
			sb.WriteString(p.Sprintf(" (%d per month)", roundCount(*b.PerMonthVolume)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(p.Sprintf("Primary units: %d\n", wholeUnits(b.PrimaryUnits)))
	if b.SecondaryUnits != nil {
		sb.WriteString(p.Sprintf("Upstream units: %d\n", wholeUnits(*b.SecondaryUnits)))
	}
	if b.Details != nil {
		fields := b.Details.Fields()
		parts := make([]string, 0, len(fields))
		for _, key := range goal.SortedKeys(fields) {
			parts = append(parts, p.Sprintf("%s %s", strings.ReplaceAll(key, "_", " "), formatField(p, fields[key])))
		}
		sb.WriteString("Details: " + strings.Join(parts, ", ") + "\n")
	}
	if b.Notes != "" {
		sb.WriteString(b.Notes)
		sb.WriteByte('\n')
	}
	sb.WriteString(p.Sprintf("Daily: %d new contacts, %d follow-ups, %d reactivations",
		t.NewContacts, t.Followups, t.Reactivations))
	for _, key := range goal.SortedKeys(t.CustomTargets) {
		sb.WriteString(p.Sprintf("\n%s: %.1f", key, t.CustomTargets[key]))
	}
	return sb.String()
}

// formatField prints whole numbers without decimals.
func formatField(p *message.Printer, v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return p.Sprintf("%d", int64(v))
	}
	return p.Sprintf("%.1f", v)
}
