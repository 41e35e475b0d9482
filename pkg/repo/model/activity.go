package model

import "time"

type ActionType string

const (
	ActionAuthentication      ActionType = "Authentication"
	ActionCalculation         ActionType = "Calculation"
	ActionEnhancedCalculation ActionType = "Enhanced Calculation"
	ActionFluidCalculation    ActionType = "Fluid Calculation"
	ActionVenturiCalculation  ActionType = "Venturimeter Calculation"
	ActionPumpCalculation     ActionType = "Centrifugal Pump Calculation"
	ActionWaterCalculation    ActionType = "Water Treatment Plant Calculation"
	ActionOilGasCalculation   ActionType = "Oil & Gas Calculation"
	ActionExperiment          ActionType = "Experiment"
	ActionExperimentDeletion  ActionType = "Experiment Deletion"
	ActionChatbot             ActionType = "Chatbot"
	ActionChemicalSearch      ActionType = "Chemical Search"
	ActionChemicalLookup      ActionType = "Enhanced Chemical Lookup"
	ActionPropertiesSummary   ActionType = "Chemical Properties Summary"
	ActionPubChemLookup       ActionType = "PubChem Lookup"
	ActionMSDSLookup          ActionType = "MSDS Lookup"
	ActionEnhancedMSDSSearch  ActionType = "Enhanced MSDS Search"
	ActionReport              ActionType = "Report"
)

type ActivityLog struct {
	BaseModel
	UserID      int64      `gorm:"not null;index:idx_activity_user_id" json:"user_id"`
	ActionType  ActionType `gorm:"type:varchar(100);not null;index:idx_activity_action_type" json:"action_type"`
	Description string     `gorm:"type:text" json:"description"`
	Timestamp   time.Time  `gorm:"not null;index:idx_activity_timestamp" json:"timestamp"`
}

func (*ActivityLog) TableName() string { return "activity_logs" }
