package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const HistoryTimeFormat = "2006-01-02 15:04:05"

// AnalysisMode is one canned analysis prompt with its catalog metadata.
type AnalysisMode struct {
	Key         string   `yaml:"key" json:"key"`
	Title       string   `yaml:"title" json:"title"`
	Icon        string   `yaml:"icon" json:"icon"`
	Description string   `yaml:"description" json:"description"`
	Features    []string `yaml:"features" json:"features"`
	Structured  bool     `yaml:"structured" json:"structured"`
	Prompt      string   `yaml:"prompt" json:"-"`
}

// Clone returns a deep copy so callers cannot mutate the catalog.
func (m AnalysisMode) Clone() AnalysisMode {
	features := make([]string, len(m.Features))
	copy(features, m.Features)
	m.Features = features
	return m
}

// StructuredFinding is the JSON object recovered from a model response. No
// key is guaranteed to exist and values may have any JSON type.
type StructuredFinding map[string]any

func (f StructuredFinding) Has(key string) bool {
	if f == nil {
		return false
	}
	_, ok := f[key]
	return ok
}

func (f StructuredFinding) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (f StructuredFinding) Text(key string) (string, bool) {
	v, ok := f[key].(string)
	return v, ok
}

// StringList returns the list stored under key. Non-string elements are
// formatted with fmt.Sprint.
func (f StructuredFinding) StringList(key string) ([]string, bool) {
	raw, ok := f[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out, true
}

func (f StructuredFinding) MatchPercentage() (float64, bool) {
	return f.Number("match_percentage")
}

func (f StructuredFinding) ATSScore() (float64, bool) {
	return f.Number("ats_score")
}

func (f StructuredFinding) OverallAssessment() (string, bool) {
	return f.Text("overall_assessment")
}

func (f StructuredFinding) MissingKeywords() ([]string, bool) {
	return f.StringList("missing_keywords")
}

func (f StructuredFinding) Strengths() ([]string, bool) {
	return f.StringList("strengths")
}

func (f StructuredFinding) Weaknesses() ([]string, bool) {
	return f.StringList("weaknesses")
}

func (f StructuredFinding) Recommendations() ([]string, bool) {
	return f.StringList("recommendations")
}

type ScoreTier string

const (
	TierHigh    ScoreTier = "high"
	TierMid     ScoreTier = "mid"
	TierLow     ScoreTier = "low"
	TierMissing ScoreTier = "missing"
)

type ScoreVisual struct {
	Score   *float64  `json:"score,omitempty"`
	Tier    ScoreTier `json:"tier"`
	Display string    `json:"display"`
}

// Dashboard is the metrics view built from a structured finding.
type Dashboard struct {
	Match               ScoreVisual `json:"match"`
	ATS                 ScoreVisual `json:"ats"`
	OverallAssessment   string      `json:"overall_assessment,omitempty"`
	MissingKeywordCount int         `json:"missing_keyword_count"`
	StrengthsCount      int         `json:"strengths_count"`
	TopMissingKeywords  []string    `json:"top_missing_keywords"`
	Strengths           []string    `json:"strengths"`
	Weaknesses          []string    `json:"weaknesses"`
	Recommendations     []string    `json:"recommendations"`
}

type AnalysisResult struct {
	ID           uuid.UUID         `json:"id"`
	ModeKey      string            `json:"mode"`
	ModeTitle    string            `json:"mode_title"`
	Response     string            `json:"response"`
	Finding      StructuredFinding `json:"finding,omitempty"`
	Dashboard    *Dashboard        `json:"dashboard,omitempty"`
	PageCount    int               `json:"page_count"`
	DownloadName string            `json:"download_name"`
	CreatedAt    time.Time         `json:"created_at"`
}

type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	ModeTitle string `json:"analysis_type"`
	Response  string `json:"response"`
}

// NewHistoryEntry keeps at most limit characters of response, marking a cut
// with "...".
func NewHistoryEntry(at time.Time, modeTitle, response string, limit int) HistoryEntry {
	runes := []rune(response)
	if limit > 0 && len(runes) > limit {
		response = string(runes[:limit]) + "..."
	}
	return HistoryEntry{
		Timestamp: at.Format(HistoryTimeFormat),
		ModeTitle: modeTitle,
		Response:  response,
	}
}

// Session replaces the per-browser state of the UI: the analysis on screen
// and the list of past analyses.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Current   *AnalysisResult `json:"current,omitempty"`
	History   []HistoryEntry  `json:"history"`
}
