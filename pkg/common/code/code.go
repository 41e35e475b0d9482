package code

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrCode int

const (
	Success ErrCode = 0
)

// 通用错误
const (
	UnDefineErr ErrCode = iota + 10000
	ParamErr
	UnLogin
	LoginFormatErr
	InvalidToken
	NoPermission
	LoginSessionErr
	TokenRevokeErr
)

// 存储错误
const (
	RecordNotFound ErrCode = iota + 20000
	QueryRecordErr
	CreateDataErr
	UpdateDataErr
	DeleteDataErr
	CacheErr
)

// 外部调用错误
const (
	RPCHttpErr ErrCode = iota + 30000
	RPCHttpCodeErr
	LLMUnavailable
	LLMRequestErr
	LLMParseErr
)

// 消息通知错误
const (
	NotifySendMsgErr ErrCode = iota + 40000
	NotifyActionAlreadyRegistryErr
	NotifySubscribeErr
)

// 业务错误
const (
	ChemicalNotFound ErrCode = iota + 50000
	CalculationErr
	ChartRenderErr
	PDFRenderErr
	EmptyMessage
	ExperimentTitleEmpty
	NoPDFData
)

var codeMsg = map[ErrCode]string{
	Success:                        "success",
	UnDefineErr:                    "undefined error",
	ParamErr:                       "parameter error",
	UnLogin:                        "please log in first",
	LoginFormatErr:                 "invalid authorization format",
	InvalidToken:                   "invalid or expired token",
	NoPermission:                   "access denied: insufficient access level",
	LoginSessionErr:                "session error",
	TokenRevokeErr:                 "token revoke error",
	RecordNotFound:                 "record not found",
	QueryRecordErr:                 "query record error",
	CreateDataErr:                  "create data error",
	UpdateDataErr:                  "update data error",
	DeleteDataErr:                  "delete data error",
	CacheErr:                       "cache error",
	RPCHttpErr:                     "remote http request error",
	RPCHttpCodeErr:                 "remote http status error",
	LLMUnavailable:                 "AI assistant is not configured",
	LLMRequestErr:                  "AI assistant request error",
	LLMParseErr:                    "AI assistant response parse error",
	NotifySendMsgErr:               "send notify message error",
	NotifyActionAlreadyRegistryErr: "notify action already registered",
	NotifySubscribeErr:             "notify subscribe error",
	ChemicalNotFound:               "Chemical not found in database",
	CalculationErr:                 "calculation error",
	ChartRenderErr:                 "chart render error",
	PDFRenderErr:                   "pdf render error",
	EmptyMessage:                   "Message cannot be empty",
	ExperimentTitleEmpty:           "Experiment title is required",
	NoPDFData:                      "No PDF data provided",
}

func (e ErrCode) String() string {
	if msg, ok := codeMsg[e]; ok {
		return msg
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e ErrCode) Error() string {
	return e.String()
}

func (e ErrCode) HTTPStatus() int {
	switch e {
	case Success:
		return http.StatusOK
	case ParamErr, ChemicalNotFound, CalculationErr, EmptyMessage, ExperimentTitleEmpty, NoPDFData:
		return http.StatusBadRequest
	case UnLogin, LoginFormatErr, InvalidToken:
		return http.StatusUnauthorized
	case NoPermission:
		return http.StatusForbidden
	case RecordNotFound:
		return http.StatusNotFound
	case LLMUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (e ErrCode) WithMsg(msg string) *Err {
	return &Err{Code: e, Msg: msg}
}

func (e ErrCode) WithMsgf(format string, args ...any) *Err {
	return &Err{Code: e, Msg: fmt.Sprintf(format, args...)}
}

func (e ErrCode) WithErr(err error) *Err {
	if err == nil {
		return &Err{Code: e, Msg: e.String()}
	}
	return &Err{Code: e, Msg: err.Error(), cause: err}
}

// Err is an ErrCode carrying a caller specific message.
type Err struct {
	Code  ErrCode
	Msg   string
	cause error
}

func (e *Err) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Msg
}

func (e *Err) Unwrap() error {
	return e.cause
}

func (e *Err) Is(target error) bool {
	switch t := target.(type) {
	case ErrCode:
		return e.Code == t
	case *Err:
		return e.Code == t.Code
	}
	return false
}

// Parse resolves the outermost code of err and the message to show.
func Parse(err error) (ErrCode, string) {
	if err == nil {
		return Success, ""
	}
	var ce *Err
	if errors.As(err, &ce) {
		return ce.Code, ce.Error()
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c, c.String()
	}
	return UnDefineErr, err.Error()
}
