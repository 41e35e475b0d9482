package calculator

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/calculator"
	impl "github.com/scienceol/labmate/pkg/core/calculator/calculator"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Handle struct {
	cService calculator.Service
}

func NewCalculatorHandle() *Handle {
	return &Handle{cService: impl.New()}
}

func NewCalculatorHandleWith(svc calculator.Service) *Handle {
	return &Handle{cService: svc}
}

func (h *Handle) Samples(ctx *gin.Context) {
	common.ReplyOk(ctx, h.cService.Samples(ctx))
}

func (h *Handle) Pitot(ctx *gin.Context) {
	req := &calculator.PitotReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse calculator Pitot param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Pitot(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Venturi(ctx *gin.Context) {
	req := &calculator.VenturiReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse calculator Venturi param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Venturi(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Pump(ctx *gin.Context) {
	req := &calculator.PumpReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse calculator Pump param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Pump(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Water(ctx *gin.Context) {
	req := &calculator.ReadingsReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse calculator Water param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Water(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) OilGas(ctx *gin.Context) {
	req := &calculator.ReadingsReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse calculator OilGas param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.OilGas(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) DownloadPDF(ctx *gin.Context) {
	req := &calculator.PDFReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse calculator DownloadPDF param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	file, err := h.cService.DownloadPDF(ctx, req)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	Attachment(ctx, file.Name, file.Data)
}

// Attachment streams a PDF download.
func Attachment(ctx *gin.Context, name string, data []byte) {
	ctx.Header("Content-Disposition", "attachment; filename="+name)
	ctx.Data(http.StatusOK, "application/pdf", data)
}
