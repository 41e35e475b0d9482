package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Error struct {
	Msg string `json:"msg"`
}

type Resp struct {
	Code  code.ErrCode `json:"code"`
	Error *Error       `json:"error,omitempty"`
	Data  any          `json:"data,omitempty"`
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func ReplyErr(ctx *gin.Context, err error, msg ...string) {
	c, errMsg := code.Parse(err)
	if len(msg) > 0 && msg[0] != "" {
		errMsg = msg[0]
	}
	status := c.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Errorf(ctx, "reply err path: %s, code: %d, err: %+v", ctx.FullPath(), c, err)
	}
	ctx.JSON(status, &Resp{
		Code:  c,
		Error: &Error{Msg: errMsg},
	})
}

func ReplyOk(ctx *gin.Context, data ...any) {
	resp := &Resp{Code: code.Success}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

type PageReq struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

func (p *PageReq) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
}

func (p *PageReq) Offest() int {
	return (p.Page - 1) * p.PageSize
}

type PageResp[T any] struct {
	Data     T     `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type PageMoreResp[T any] struct {
	PageResp[T]
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
	Pages   int  `json:"pages"`
}

func NewPageMoreResp[T any](data T, total int64, page, pageSize int) *PageMoreResp[T] {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PageMoreResp[T]{
		PageResp: PageResp[T]{
			Data:     data,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
		HasNext: page < pages,
		HasPrev: page > 1,
		Pages:   pages,
	}
}
