package activity

import (
	"time"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/repo/model"
)

const (
	PageSize   = 20
	DateLayout = "2006-01-02"
	RecentSize = 5
)

type ListReq struct {
	Page       int    `form:"page"`
	Search     string `form:"search"`
	ActionType string `form:"action_type"`
	// Date YYYY-MM-DD，格式错误时忽略
	Date string `form:"date"`
}

type Entry struct {
	UUID        uuid.UUID        `json:"uuid"`
	ActionType  model.ActionType `json:"action_type"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
}

type CalculationEntry struct {
	UUID       uuid.UUID      `json:"uuid"`
	Kind       model.CalcKind `json:"kind"`
	Reagent    string         `json:"reagent"`
	Formula    string         `json:"formula"`
	Molarity   float64        `json:"molarity"`
	Volume     float64        `json:"volume"`
	MassNeeded float64        `json:"mass_needed"`
	CreatedAt  time.Time      `json:"created_at"`
}

type DashboardResp struct {
	User               *auth.UserInfo      `json:"user"`
	RecentCalculations []*CalculationEntry `json:"recent_calculations"`
	RecentActivities   []*Entry            `json:"recent_activities"`
	TotalCalculations  int64               `json:"total_calculations"`
	TotalActivities    int64               `json:"total_activities"`
}

type UserResp struct {
	UUID        uuid.UUID          `json:"uuid"`
	Name        string             `json:"name"`
	Role        common.Role        `json:"role"`
	Institution string             `json:"institution"`
	UserType    common.UserType    `json:"user_type"`
	AccessLevel common.AccessLevel `json:"access_level"`
	CreatedAt   time.Time          `json:"created_at"`
}

func NewEntry(l *model.ActivityLog) *Entry {
	return &Entry{
		UUID:        l.UUID,
		ActionType:  l.ActionType,
		Description: l.Description,
		Timestamp:   l.Timestamp,
	}
}

func NewCalculationEntry(c *model.Calculation) *CalculationEntry {
	return &CalculationEntry{
		UUID:       c.UUID,
		Kind:       c.Kind,
		Reagent:    c.Reagent,
		Formula:    c.Formula,
		Molarity:   c.Molarity,
		Volume:     c.Volume,
		MassNeeded: c.MassNeeded,
		CreatedAt:  c.CreatedAt,
	}
}
