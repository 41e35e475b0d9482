package chat

import (
	"time"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/repo/model"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 200

	ExperimentContextSize  = 5
	CalculationContextSize = 10
	ActivityContextSize    = 10

	// AssistantName 前缀用于标记模型回复
	AssistantName = "LabMate AI"
	contextLayout = "2006-01-02 15:04"
)

type SendReq struct {
	Message string `json:"message"`
}

type SendResp struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryReq struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

func (h *HistoryReq) Normalize() {
	if h.Page <= 0 {
		h.Page = 1
	}
	if h.PerPage <= 0 {
		h.PerPage = DefaultPerPage
	}
	if h.PerPage > MaxPerPage {
		h.PerPage = MaxPerPage
	}
}

type MessageResp struct {
	ID            int64     `json:"id"`
	Message       string    `json:"message"`
	Response      string    `json:"response"`
	IsUserMessage bool      `json:"is_user_message"`
	Timestamp     time.Time `json:"timestamp"`
}

type HistoryResp = common.PageMoreResp[[]*MessageResp]

type ClearResp struct {
	Deleted int64 `json:"deleted"`
}

// SocketMsg is the frame exchanged on the chat websocket.
type SocketMsg struct {
	Message   string     `json:"message,omitempty"`
	Response  string     `json:"response,omitempty"`
	Error     string     `json:"error,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type ExperimentContext struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Procedures   string `json:"procedures"`
	Observations string `json:"observations"`
	Results      string `json:"results"`
	Date         string `json:"date"`
}

type CalculationContext struct {
	Reagent    string  `json:"reagent"`
	Formula    string  `json:"formula"`
	Molarity   float64 `json:"molarity"`
	Volume     float64 `json:"volume"`
	MassNeeded float64 `json:"mass_needed"`
	Date       string  `json:"date"`
}

type ActivityContext struct {
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// UserContext is the recent lab history handed to the assistant.
type UserContext struct {
	Experiments  []ExperimentContext  `json:"experiments"`
	Calculations []CalculationContext `json:"calculations"`
	Activities   []ActivityContext    `json:"activities"`
}

func NewExperimentContext(e *model.Experiment) ExperimentContext {
	return ExperimentContext{
		Title:        e.Title,
		Description:  e.Description,
		Procedures:   e.Procedures,
		Observations: e.Observations,
		Results:      e.Results,
		Date:         e.CreatedAt.Format(contextLayout),
	}
}

func NewCalculationContext(c *model.Calculation) CalculationContext {
	return CalculationContext{
		Reagent:    c.Reagent,
		Formula:    c.Formula,
		Molarity:   c.Molarity,
		Volume:     c.Volume,
		MassNeeded: c.MassNeeded,
		Date:       c.CreatedAt.Format(contextLayout),
	}
}

func NewActivityContext(a *model.ActivityLog) ActivityContext {
	return ActivityContext{
		ActionType:  string(a.ActionType),
		Description: a.Description,
		Timestamp:   a.Timestamp.Format(contextLayout),
	}
}

func NewMessageResp(m *model.ChatMessage) *MessageResp {
	return &MessageResp{
		ID:            m.ID,
		Message:       m.Message,
		Response:      m.Response,
		IsUserMessage: m.IsUserMessage,
		Timestamp:     m.CreatedAt,
	}
}
