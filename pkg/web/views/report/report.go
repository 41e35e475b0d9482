package report

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/core/report"
	impl "github.com/scienceol/labmate/pkg/core/report/report"
	"github.com/scienceol/labmate/pkg/web/views/calculator"
	"github.com/scienceol/labmate/pkg/web/views/experiment"
)

type Handle struct {
	rService report.Service
}

func NewReportHandle() *Handle {
	return &Handle{rService: impl.New()}
}

func reply(ctx *gin.Context, file *report.File, err error) {
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	calculator.Attachment(ctx, file.Name, file.Data)
}

func (h *Handle) Calculations(ctx *gin.Context) {
	file, err := h.rService.Calculations(ctx)
	reply(ctx, file, err)
}

func (h *Handle) Lab(ctx *gin.Context) {
	file, err := h.rService.LabReport(ctx)
	reply(ctx, file, err)
}

func (h *Handle) CurrentExperiment(ctx *gin.Context) {
	file, err := h.rService.CurrentExperiment(ctx)
	reply(ctx, file, err)
}

func (h *Handle) Experiment(ctx *gin.Context) {
	id, ok := experiment.ParseUUID(ctx)
	if !ok {
		return
	}
	file, err := h.rService.Experiment(ctx, id)
	reply(ctx, file, err)
}

func (h *Handle) ActivityLogs(ctx *gin.Context) {
	file, err := h.rService.ActivityLogs(ctx)
	reply(ctx, file, err)
}
