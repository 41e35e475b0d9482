package chemical

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/chemical"
	impl "github.com/scienceol/labmate/pkg/core/chemical/chemical"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Handle struct {
	cService chemical.Service
}

func NewChemicalHandle() *Handle {
	return &Handle{cService: impl.New()}
}

func NewChemicalHandleWith(svc chemical.Service) *Handle {
	return &Handle{cService: svc}
}

func (h *Handle) List(ctx *gin.Context) {
	common.ReplyOk(ctx, h.cService.List(ctx))
}

// Search 同时支持 GET ?q= 与 POST {query}
func (h *Handle) Search(ctx *gin.Context) {
	req := &chemical.SearchReq{}
	if err := ctx.ShouldBind(req); err != nil {
		logger.Errorf(ctx, "parse chemical Search param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Search(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Calculate(ctx *gin.Context) {
	req := &chemical.CalculateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chemical Calculate param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Calculate(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) EnhancedCalculate(ctx *gin.Context) {
	req := &chemical.CalculateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chemical EnhancedCalculate param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.EnhancedCalculate(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Data(ctx *gin.Context) {
	req := &chemical.DataReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chemical Data param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.GetChemicalData(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) PropertiesSummary(ctx *gin.Context) {
	req := &chemical.NameReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chemical PropertiesSummary param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.PropertiesSummary(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) PubChem(ctx *gin.Context) {
	req := &chemical.NameReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chemical PubChem param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.FetchPubChem(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) MSDSSearch(ctx *gin.Context) {
	req := &chemical.MSDSReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse chemical MSDSSearch param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.MSDSSearch(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) EnhancedMSDSSearch(ctx *gin.Context) {
	req := &chemical.MSDSReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chemical EnhancedMSDSSearch param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.Enhanced = true
	resp, err := h.cService.MSDSSearch(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) History(ctx *gin.Context) {
	resp, err := h.cService.History(ctx)
	common.Reply(ctx, err, resp)
}
