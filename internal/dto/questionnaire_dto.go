package dto

import (
	"time"

	"disclosure-engine-be/pkg/disclosure/flow"
)

type StartSessionRequest struct {
	ProductId string `json:"product_id" validate:"required,uuid"`
}

// StepRequest is accepted as JSON or as multipart form with an "evidence" file.
type StepRequest struct {
	SessionId string `json:"session_id" form:"session_id" validate:"required,max=64"`
	Section   string `json:"section" form:"section" validate:"max=100"`
	DataPoint string `json:"data_point" form:"data_point" validate:"max=255"`
	Answer    string `json:"answer" form:"answer" validate:"max=8000"`
}

// Upload is an evidence file attached to a step.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DocumentSuggestion struct {
	MediaType       string `json:"media_type"`
	Relevant        bool   `json:"relevant"`
	Excerpt         string `json:"excerpt,omitempty"`
	SuggestedAnswer string `json:"suggested_answer,omitempty"`
}

type ReportHandle struct {
	SessionId string `json:"session_id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}

type StepResponse struct {
	flow.StepResult
	Suggestion *DocumentSuggestion `json:"suggestion,omitempty"`
	Report     *ReportHandle       `json:"report,omitempty"`
}

type DataPointStatus struct {
	Label  string `json:"label"`
	Status string `json:"status"` // open, covered, deferred
}

type SectionProgress struct {
	Name       string            `json:"name"`
	Progress   float64           `json:"progress"`
	DataPoints []DataPointStatus `json:"data_points"`
}

type DeferredItem struct {
	Section   string `json:"section"`
	DataPoint string `json:"data_point"`
	Question  string `json:"question"`
	Deferrals int    `json:"deferrals"`
}

type PendingQuestion struct {
	Section   string `json:"section"`
	DataPoint string `json:"data_point"`
	Question  string `json:"question"`
	Revisit   bool   `json:"revisit"`
}

type SessionSnapshotResponse struct {
	SessionId       string            `json:"session_id"`
	ProductId       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Sector          string            `json:"sector"`
	Phase           string            `json:"phase"`
	OverallProgress float64           `json:"overall_progress"`
	Sections        []SectionProgress `json:"sections"`
	Deferred        []DeferredItem    `json:"deferred"`
	Pending         *PendingQuestion  `json:"pending,omitempty"`
	Answers         int               `json:"answers"`
	CreatedAt       time.Time         `json:"created_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}
