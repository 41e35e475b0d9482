package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/core/report"
	"github.com/scienceol/labmate/pkg/core/report/pdf"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	actStore "github.com/scienceol/labmate/pkg/repo/activity"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	eStore "github.com/scienceol/labmate/pkg/repo/experiment"
	"github.com/scienceol/labmate/pkg/repo/model"
)

const (
	kindCalculations = "calculations_report"
	kindLab          = "lab_report"
	kindCurrent      = "current_experiment"
	kindExperiment   = "experiment"
	kindActivity     = "activity_logs"

	rowTimeLayout  = "02-01-2006 15:04"
	dateTimeLayout = "2006-01-02 15:04"
	notAvailable   = "N/A"
)

var (
	calcHeaders     = []string{"Date", "Reagent", "Formula", "Molarity (M)", "Volume (mL)", "Mass Needed (g)"}
	calcWidths      = []float64{30, 40, 26, 28, 28, 28}
	activityHeaders = []string{"Timestamp", "Action Type", "Description"}
	activityWidths  = []float64{40, 45, 95}
	summaryWidths   = []float64{80, 30}
)

type reportImpl struct {
	calcStore repo.CalculationRepo
	expStore  repo.ExperimentRepo
	actStore  repo.ActivityRepo
	now       func() time.Time
}

func New() report.Service {
	return NewWith(cStore.NewCalculationRepo(), eStore.NewExperimentRepo(), actStore.NewActivityRepo(), time.Now)
}

func NewWith(calc repo.CalculationRepo, exp repo.ExperimentRepo, act repo.ActivityRepo, now func() time.Time) report.Service {
	return &reportImpl{calcStore: calc, expStore: exp, actStore: act, now: now}
}

func (r *reportImpl) begin(ctx context.Context, title string) (*auth.UserInfo, *pdf.Document, time.Time, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, nil, time.Time{}, code.UnLogin
	}
	at := r.now()
	return userInfo, pdf.New(title, userInfo.Name, at), at, nil
}

func finish(ctx context.Context, doc *pdf.Document, kind string, at time.Time) (*report.File, error) {
	data, err := doc.Bytes()
	if err != nil {
		logger.Errorf(ctx, "render %s pdf err: %+v", kind, err)
		return nil, code.PDFRenderErr.WithErr(err)
	}
	return &report.File{Name: pdf.FileName(kind, at), Data: data}, nil
}

// orNA 0 与空值统一显示为 N/A
func orNA(v float64, prec int) string {
	if v == 0 {
		return notAvailable
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func (r *reportImpl) Calculations(ctx context.Context) (*report.File, error) {
	userInfo, doc, at, err := r.begin(ctx, "LabMateAI - Calculations Report")
	if err != nil {
		return nil, err
	}
	calcs, err := r.calcStore.ListCalculations(ctx, repo.CalculationQuery{UserID: userInfo.ID})
	if err != nil {
		return nil, err
	}

	if len(calcs) == 0 {
		doc.Paragraph("No calculations found.")
		return finish(ctx, doc, kindCalculations, at)
	}
	rows := make([][]string, 0, len(calcs))
	for _, c := range calcs {
		formula := c.Formula
		if formula == "" {
			formula = notAvailable
		}
		rows = append(rows, []string{
			c.CreatedAt.Format(rowTimeLayout),
			c.Reagent,
			formula,
			orNA(c.Molarity, 2),
			orNA(c.Volume, 2),
			orNA(c.MassNeeded, 4),
		})
	}
	doc.Table(calcHeaders, rows, calcWidths)
	return finish(ctx, doc, kindCalculations, at)
}

func writeExperiment(doc *pdf.Document, e *model.Experiment, layout string) {
	doc.Field("Date", e.CreatedAt.Format(layout))
	doc.Field("Description", e.Description)
	doc.Field("Procedures", e.Procedures)
	doc.Field("Observations", e.Observations)
	doc.Field("Results", e.Results)
}

func (r *reportImpl) LabReport(ctx context.Context) (*report.File, error) {
	userInfo, doc, at, err := r.begin(ctx, "LabMateAI - Laboratory Report")
	if err != nil {
		return nil, err
	}
	exps, err := r.expStore.ListExperiments(ctx, userInfo.ID, 0)
	if err != nil {
		return nil, err
	}

	if len(exps) == 0 {
		doc.Paragraph("No experiments found.")
	}
	for i, e := range exps {
		doc.Heading(fmt.Sprintf("Experiment %d: %s", i+1, e.Title))
		writeExperiment(doc, e, rowTimeLayout)
	}
	return finish(ctx, doc, kindLab, at)
}

func (r *reportImpl) CurrentExperiment(ctx context.Context) (*report.File, error) {
	userInfo, doc, at, err := r.begin(ctx, "LabMateAI - Current Experiment Report")
	if err != nil {
		return nil, err
	}
	e, err := r.expStore.LatestExperiment(ctx, userInfo.ID)
	switch {
	case errors.Is(err, code.RecordNotFound):
		doc.Paragraph("No current experiment found.")
	case err != nil:
		return nil, err
	default:
		doc.Heading("Experiment Title: " + e.Title)
		writeExperiment(doc, e, dateTimeLayout)
	}
	return finish(ctx, doc, kindCurrent, at)
}

func (r *reportImpl) Experiment(ctx context.Context, id uuid.UUID) (*report.File, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	e, err := r.expStore.GetExperiment(ctx, userInfo.ID, id)
	if err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return nil, code.RecordNotFound.WithMsg("Experiment not found")
		}
		return nil, err
	}

	_, doc, at, err := r.begin(ctx, "LabMateAI - Experiment Report")
	if err != nil {
		return nil, err
	}
	doc.Heading("Experiment Title: " + e.Title)
	writeExperiment(doc, e, dateTimeLayout)
	return finish(ctx, doc, fmt.Sprintf("%s_%s", kindExperiment, id.String()[:8]), at)
}

func (r *reportImpl) ActivityLogs(ctx context.Context) (*report.File, error) {
	userInfo, doc, at, err := r.begin(ctx, "LabMateAI - Activity Logs Report")
	if err != nil {
		return nil, err
	}
	acts, _, err := r.actStore.ListActivities(ctx, repo.ActivityQuery{UserID: userInfo.ID, Limit: -1})
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		doc.Paragraph("No activity logs found.")
		return finish(ctx, doc, kindActivity, at)
	}

	rows := make([][]string, 0, len(acts))
	for _, a := range acts {
		rows = append(rows, []string{
			a.Timestamp.Format(pdf.TimeLayout),
			string(a.ActionType),
			a.Description,
		})
	}
	doc.Table(activityHeaders, rows, activityWidths)

	counts, err := r.actStore.CountByActionType(ctx, userInfo.ID)
	if err != nil {
		return nil, err
	}
	doc.Heading("Summary Statistics")
	summary := make([][]string, 0, len(counts))
	for _, c := range counts {
		summary = append(summary, []string{c.ActionType, strconv.FormatInt(c.Count, 10)})
	}
	doc.Table([]string{"Action Type", "Count"}, summary, summaryWidths)
	return finish(ctx, doc, kindActivity, at)
}
