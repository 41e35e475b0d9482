package calculator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/activity"
	aImpl "github.com/scienceol/labmate/pkg/core/activity/activity"
	"github.com/scienceol/labmate/pkg/core/calculator"
	"github.com/scienceol/labmate/pkg/core/report/chart"
	"github.com/scienceol/labmate/pkg/core/report/pdf"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	"github.com/scienceol/labmate/pkg/repo/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/datatypes"
)

const (
	meterName      = "github.com/scienceol/labmate/calculator"
	defaultPDFKind = "calculation_report"
)

type calculatorImpl struct {
	calcStore repo.CalculationRepo
	recorder  activity.Recorder
	counter   metric.Int64Counter
	now       func() time.Time
}

func New() calculator.Service {
	return NewWith(cStore.NewCalculationRepo(), aImpl.New())
}

func NewWith(calc repo.CalculationRepo, recorder activity.Recorder) calculator.Service {
	counter, err := otel.Meter(meterName).Int64Counter(
		"labmate.calculations",
		metric.WithDescription("number of completed calculator runs"),
	)
	if err != nil {
		logger.Errorf(context.Background(), "create calculations counter err: %+v", err)
	}
	return &calculatorImpl{
		calcStore: calc,
		recorder:  recorder,
		counter:   counter,
		now:       time.Now,
	}
}

func currentUser(ctx context.Context) (*auth.UserInfo, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	return userInfo, nil
}

// run 是一次计算完成后的持久化与审计信息
type run struct {
	kind        model.CalcKind
	reagent     string
	formula     string
	primary     float64
	inputs      any
	outputs     any
	action      model.ActionType
	description string
}

func (c *calculatorImpl) complete(ctx context.Context, userInfo *auth.UserInfo, r run) error {
	// 非有限数无法序列化，也不能返回给客户端
	inputs, err := json.Marshal(r.inputs)
	if err != nil {
		logger.Errorf(ctx, "marshal %s calculation inputs err: %+v", r.kind, err)
		return code.CreateDataErr.WithErr(err)
	}
	outputs, err := json.Marshal(r.outputs)
	if err != nil {
		logger.Errorf(ctx, "marshal %s calculation outputs err: %+v", r.kind, err)
		return code.CreateDataErr.WithErr(err)
	}
	if err := c.calcStore.CreateCalculation(ctx, &model.Calculation{
		UserID:     userInfo.ID,
		Kind:       r.kind,
		Reagent:    r.reagent,
		Formula:    r.formula,
		MassNeeded: r.primary,
		Inputs:     datatypes.JSON(inputs),
		Outputs:    datatypes.JSON(outputs),
	}); err != nil {
		logger.Errorf(ctx, "save %s calculation err: %+v", r.kind, err)
		return code.CreateDataErr.WithErr(err)
	}

	c.recorder.Log(ctx, userInfo.ID, r.action, r.description)
	if c.counter != nil {
		c.counter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(r.kind))))
	}
	return nil
}

// renderChart 失败只记录日志, 计算结果仍然返回
func renderChart(ctx context.Context, ch *chart.Chart) ([]byte, string) {
	png, err := ch.Render()
	if err != nil {
		logger.Warnf(ctx, "render chart %q err: %+v", ch.Title, err)
		return nil, ""
	}
	return png, base64.StdEncoding.EncodeToString(png)
}

func finishPDF(ctx context.Context, doc *pdf.Document) string {
	s, err := doc.Base64()
	if err != nil {
		logger.Warnf(ctx, "render pdf err: %+v", err)
		return ""
	}
	return s
}

func num(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func (c *calculatorImpl) DownloadPDF(ctx context.Context, req *calculator.PDFReq) (*calculator.PDFFile, error) {
	if _, err := currentUser(ctx); err != nil {
		return nil, err
	}
	encoded := strings.TrimSpace(req.PDFBase64)
	if encoded == "" {
		return nil, code.NoPDFData
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, code.ParamErr.WithMsg("Invalid PDF data")
	}

	kind := strings.TrimSpace(req.Kind)
	if kind == "" || strings.ContainsAny(kind, `/\"`) {
		kind = defaultPDFKind
	}
	return &calculator.PDFFile{
		Name: pdf.FileName(kind, c.now()),
		Data: data,
	}, nil
}
