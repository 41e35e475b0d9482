package experiment

import (
	"time"

	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type CreateReq struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Procedures   string `json:"procedures"`
	Observations string `json:"observations"`
	Results      string `json:"results"`
}

type Resp struct {
	UUID         uuid.UUID `json:"uuid"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Procedures   string    `json:"procedures"`
	Observations string    `json:"observations"`
	Results      string    `json:"results"`
	CreatedAt    time.Time `json:"created_at"`
}

type DeleteResp struct {
	Message string `json:"message"`
}

func NewResp(e *model.Experiment) *Resp {
	return &Resp{
		UUID:         e.UUID,
		Title:        e.Title,
		Description:  e.Description,
		Procedures:   e.Procedures,
		Observations: e.Observations,
		Results:      e.Results,
		CreatedAt:    e.CreatedAt,
	}
}
