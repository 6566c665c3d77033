package engine

import (
	"math"
	"strings"
	"text/template"

	"golang.org/x/text/message"

	"goalflow/internal/goal"
)

// DailyFlowWidget is the dashboard widget payload.
type DailyFlowWidget struct {
	VerticalID    goal.VerticalID    `json:"vertical_id"`
	VerticalLabel string             `json:"vertical_label"`
	NewContacts   int                `json:"new_contacts"`
	Followups     int                `json:"followups"`
	Reactivations int                `json:"reactivations"`
	CustomTargets map[string]float64 `json:"custom_targets,omitempty"`
	Headline      string             `json:"headline"`
	Detail        string             `json:"detail"`
}

type unitNouns struct {
	primary   string
	secondary string
}

var verticalNouns = map[goal.VerticalID]unitNouns{
	goal.VerticalNetworkMarketing: {primary: "customers and partners"},
	goal.VerticalRealEstate:       {primary: "deals", secondary: "viewings"},
	goal.VerticalFinance:          {primary: "contracts", secondary: "consultations"},
	goal.VerticalCoaching:         {primary: "clients", secondary: "discovery calls"},
}

func nounsFor(id goal.VerticalID) unitNouns {
	if n, ok := verticalNouns[id]; ok {
		return n
	}
	return unitNouns{primary: "sales", secondary: "meetings"}
}

// FormatForDailyFlow reshapes a result for the daily-flow dashboard widget.
func (s *Service) FormatForDailyFlow(r *Result) DailyFlowWidget {
	if r == nil {
		return DailyFlowWidget{}
	}
	p := message.NewPrinter(s.locale)
	t := r.DailyTargets
	b := r.Breakdown

	w := DailyFlowWidget{
		VerticalID:    b.VerticalID,
		VerticalLabel: r.VerticalLabel,
		NewContacts:   t.NewContacts,
		Followups:     t.Followups,
		Reactivations: t.Reactivations,
		CustomTargets: t.CustomTargets,
		Headline: p.Sprintf("Today: %d new contacts, %d follow-ups, %d reactivations",
			t.NewContacts, t.Followups, t.Reactivations),
	}

	nouns := nounsFor(b.VerticalID)
	if b.PerWeekVolume != nil {
		w.Detail = p.Sprintf("%d %s in %d months, %d volume per week",
			ceilInt(b.PrimaryUnits), nouns.primary, roundInt(b.TimeframeMonths), roundInt(*b.PerWeekVolume))
	} else {
		w.Detail = p.Sprintf("%d %s in %d months",
			ceilInt(b.PrimaryUnits), nouns.primary, roundInt(b.TimeframeMonths))
	}
	return w
}

var coachingTemplate = template.Must(template.New("coaching").Parse(strings.TrimSpace(`
{{.Label}} plan for your {{.Kind}} goal{{if .Target}} of {{.Target}}{{end}} in {{.Months}} months: you need {{.Primary}} {{.PrimaryNoun}}
{{- if .Secondary}}, which takes about {{.Secondary}} {{.SecondaryNoun}}{{end}}
{{- if .Volume}}. That adds up to {{.Volume}} in volume, {{.PerMonth}} per month{{end}}.
{{- " "}}Every working day, reach out to {{.NewContacts}} new people, follow up with {{.Followups}} and reactivate {{.Reactivations}} dormant contacts.
{{- range .Custom}} Keep an eye on {{.}}.{{end}}
{{- if .Fallback}} "{{.Requested}}" is not a vertical I know yet, so these numbers use {{.Label}} figures.{{end}}
`)))

type coachingData struct {
	Label         string
	Kind          string
	Target        string
	Months        string
	Primary       string
	PrimaryNoun   string
	Secondary     string
	SecondaryNoun string
	Volume        string
	PerMonth      string
	NewContacts   int
	Followups     int
	Reactivations int
	Custom        []string
	Fallback      bool
	Requested     string
}

// FormatForChiefCoaching renders the result as a coaching paragraph for a
// conversational UI.
func (s *Service) FormatForChiefCoaching(r *Result) string {
	if r == nil {
		return ""
	}
	p := message.NewPrinter(s.locale)
	b := r.Breakdown
	t := r.DailyTargets
	nouns := nounsFor(b.VerticalID)

	data := coachingData{
		Label:         r.VerticalLabel,
		Kind:          string(b.Kind),
		Months:        p.Sprintf("%d", roundInt(b.TimeframeMonths)),
		Primary:       p.Sprintf("%d", ceilInt(b.PrimaryUnits)),
		PrimaryNoun:   nouns.primary,
		SecondaryNoun: nouns.secondary,
		NewContacts:   t.NewContacts,
		Followups:     t.Followups,
		Reactivations: t.Reactivations,
		Fallback:      r.Resolution.Fallback,
		Requested:     string(r.Resolution.Requested),
	}
	if d, ok := b.Details.(goal.NetworkMarketingDetails); ok && d.Rank != "" {
		data.Target = d.Rank
	} else if r.Input.TargetValue != nil {
		data.Target = p.Sprintf("%d", roundInt(*r.Input.TargetValue))
	}
	if b.SecondaryUnits != nil && nouns.secondary != "" {
		data.Secondary = p.Sprintf("%d", ceilInt(*b.SecondaryUnits))
	}
	if b.RequiredVolume != nil {
		data.Volume = p.Sprintf("%d", roundInt(*b.RequiredVolume))
		if b.PerMonthVolume != nil {
			data.PerMonth = p.Sprintf("%d", roundInt(*b.PerMonthVolume))
		}
	}
	for _, key := range goal.SortedKeys(t.CustomTargets) {
		data.Custom = append(data.Custom, p.Sprintf("%s (%.1f)", strings.ReplaceAll(key, "_", " "), t.CustomTargets[key]))
	}

	var sb strings.Builder
	if err := coachingTemplate.Execute(&sb, data); err != nil {
		s.logger.Sugar().Errorw("render coaching text", "error", err)
		return r.Summary
	}
	return sb.String()
}

func roundInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(math.Round(v))
}

func ceilInt(v float64) int {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	}
	return int(math.Ceil(v - 1e-9))
}
