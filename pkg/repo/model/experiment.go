package model

type Experiment struct {
	BaseModel
	UserID       int64  `gorm:"not null;index:idx_experiment_user_id" json:"user_id"`
	Title        string `gorm:"type:varchar(200);not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Procedures   string `gorm:"type:text" json:"procedures"`
	Observations string `gorm:"type:text" json:"observations"`
	Results      string `gorm:"type:text" json:"results"`
}

func (*Experiment) TableName() string { return "experiments" }
