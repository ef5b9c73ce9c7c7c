package models

import "time"

type AnalyzeRequest struct {
	JobDescription string `form:"job_description" validate:"required,max=50000"`
	Mode           string `form:"mode" validate:"required,oneof=quick_scan detailed_analysis improvement_pro"`
	SaveToHistory  *bool  `form:"save_to_history"`
}

// ShouldSave defaults to true when the field was not sent.
func (r *AnalyzeRequest) ShouldSave() bool {
	return r.SaveToHistory == nil || *r.SaveToHistory
}

type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type AnalyzeResponse struct {
	SessionID string          `json:"session_id"`
	Saved     bool            `json:"saved"`
	Result    *AnalysisResult `json:"result"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Entries   []HistoryEntry `json:"entries"`
}

type ModesResponse struct {
	Modes []AnalysisMode `json:"modes"`
}
