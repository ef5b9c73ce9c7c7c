package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

const (
	barCells         = 10
	topKeywordsLimit = 10
)

// ScoreVisual renders a 0-100 score as "<icon> <score>% <bar>". A nil score
// renders as "N/A".
func ScoreVisual(score *float64) models.ScoreVisual {
	if score == nil {
		return models.ScoreVisual{Tier: models.TierMissing, Display: "N/A"}
	}

	s := *score
	tier, icon := models.TierLow, "🔴"
	switch {
	case s >= 80:
		tier, icon = models.TierHigh, "🟢"
	case s >= 60:
		tier, icon = models.TierMid, "🟡"
	}

	filled := int(min(max(s, 0), 100) / 10)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)

	value := s
	return models.ScoreVisual{
		Score:   &value,
		Tier:    tier,
		Display: fmt.Sprintf("%s %s%% %s", icon, strconv.FormatFloat(s, 'f', -1, 64), bar),
	}
}

// BuildDashboard returns the metrics view for a finding that carries a
// match_percentage key, and false otherwise.
func BuildDashboard(finding models.StructuredFinding) (*models.Dashboard, bool) {
	if !finding.Has("match_percentage") {
		return nil, false
	}

	d := &models.Dashboard{
		Match: ScoreVisual(optionalScore(finding.MatchPercentage())),
		ATS:   ScoreVisual(optionalScore(finding.ATSScore())),
	}

	if v, ok := finding.OverallAssessment(); ok {
		d.OverallAssessment = v
	}

	keywords, _ := finding.MissingKeywords()
	d.MissingKeywordCount = len(keywords)
	d.TopMissingKeywords = keywords[:min(len(keywords), topKeywordsLimit)]

	d.Strengths, _ = finding.Strengths()
	d.StrengthsCount = len(d.Strengths)

	d.Weaknesses, _ = finding.Weaknesses()

	recs, _ := finding.Recommendations()
	for i, rec := range recs {
		d.Recommendations = append(d.Recommendations, fmt.Sprintf("%d. %s", i+1, rec))
	}

	return d, true
}

func optionalScore(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// ReportFileName is the download name for a result, e.g.
// resume_analysis_detailed_analysis_20240102_150405.txt.
func ReportFileName(modeTitle string, at time.Time) string {
	mode := strings.ToLower(strings.ReplaceAll(modeTitle, " ", "_"))
	return fmt.Sprintf("resume_analysis_%s_%s.txt", mode, at.Format("20060102_150405"))
}

// RenderDashboard lays a dashboard out as plain text.
func RenderDashboard(d *models.Dashboard) string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("📊 Metrics Dashboard\n")
	fmt.Fprintf(&b, "🎯 Overall Match:    %s\n", d.Match.Display)
	fmt.Fprintf(&b, "🤖 ATS Score:        %s\n", d.ATS.Display)
	fmt.Fprintf(&b, "⚠️ Missing Keywords: %d\n", d.MissingKeywordCount)
	fmt.Fprintf(&b, "✅ Strengths:        %d\n", d.StrengthsCount)

	if d.OverallAssessment != "" {
		fmt.Fprintf(&b, "\n%s\n", d.OverallAssessment)
	}
	if len(d.TopMissingKeywords) > 0 {
		fmt.Fprintf(&b, "\n🔍 Keywords to add: %s\n", strings.Join(d.TopMissingKeywords, ", "))
	}
	if len(d.Strengths) > 0 {
		b.WriteString("\n✅ Key Strengths\n")
		for _, s := range d.Strengths {
			fmt.Fprintf(&b, "🎯 %s\n", s)
		}
	}
	if len(d.Recommendations) > 0 {
		b.WriteString("\n💡 Actionable Recommendations\n")
		for _, r := range d.Recommendations {
			b.WriteString(r)
			b.WriteString("\n")
		}
	}

	return b.String()
}
