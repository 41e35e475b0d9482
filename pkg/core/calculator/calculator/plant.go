package calculator

import (
	"context"
	"fmt"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/calculator"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/fit"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/oilgas"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/water"
	"github.com/scienceol/labmate/pkg/core/report/chart"
	"github.com/scienceol/labmate/pkg/core/report/pdf"
	"github.com/scienceol/labmate/pkg/repo/model"
)

// minChartPoints 少于两个点时不绘制趋势图
const minChartPoints = 2

type trend struct {
	title  string
	xLabel string
	yLabel string
	xs     []float64
	ys     []float64
	linear bool
}

// plot renders a scatter with its fit. Linear trends use a straight line,
// the others a quadratic when there are enough points.
func plot(ctx context.Context, t trend) (*calculator.Graph, []byte) {
	if len(t.xs) < minChartPoints {
		return nil, nil
	}
	ch := &chart.Chart{
		Title:  t.title,
		XLabel: t.xLabel,
		YLabel: t.yLabel,
		Series: []chart.Series{{Name: "Trials", X: t.xs, Y: t.ys, Color: chart.Blue}},
	}
	g := &calculator.Graph{Title: t.title}
	lo, hi := span(t.xs)
	if t.linear {
		if line, err := fit.Linear(t.xs, t.ys); err == nil {
			g.Fit = line.String()
			ch.Curves = append(ch.Curves, chart.Curve{Name: "Linear fit", Fn: line.Eval, From: lo, To: hi, Color: chart.Red, Dashed: true})
			ch.Annotation = fmt.Sprintf("%s\nR² = %.4f", line, line.R2)
		}
	} else if poly, err := fit.Best(t.xs, t.ys); err == nil {
		g.Fit = poly.String()
		name := "Linear fit"
		if poly.Degree() == 2 {
			name = "Quadratic fit"
		}
		ch.Curves = append(ch.Curves, chart.Curve{Name: name, Fn: poly.Eval, From: lo, To: hi, Color: chart.Red, Dashed: true})
		ch.Annotation = g.Fit
	}
	png, encoded := renderChart(ctx, ch)
	if png == nil {
		return nil, nil
	}
	g.Base64 = encoded
	return g, png
}

func (c *calculatorImpl) Water(ctx context.Context, req *calculator.ReadingsReq) (*calculator.WaterResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Readings) == 0 {
		return nil, code.ParamErr.WithMsg("No readings provided")
	}
	readings, err := water.ParseReadings(req.Readings)
	if err != nil {
		return nil, err
	}
	res, err := water.Calculate(readings)
	if err != nil {
		return nil, err
	}

	resp := &calculator.WaterResp{
		Results:          res.Trials,
		ModelCalculation: water.ModelCalculation(readings[0], res.Trials[0]),
		SummaryReport:    water.SummaryReport(readings, res),
	}

	n := len(res.Trials)
	flow, dt, dose, eff := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
	for _, t := range res.Trials {
		flow = append(flow, t.FlowM3Day)
		dt = append(dt, t.DT)
		dose = append(dose, t.CoagulantDose)
		eff = append(eff, t.RemovalEff)
	}
	var images [][]byte
	for _, t := range []trend{
		{title: "Flow Rate vs Detention Time", xLabel: "Flow Q (m³/day)", yLabel: "Detention time (h)", xs: flow, ys: dt},
		{title: "Coagulant Dose vs Turbidity Removal", xLabel: "Coagulant dose (mg/L)", yLabel: "Removal efficiency (%)", xs: dose, ys: eff},
	} {
		if g, png := plot(ctx, t); g != nil {
			resp.Graphs = append(resp.Graphs, *g)
			images = append(images, png)
		}
	}

	doc := pdf.New("Water Treatment Plant Analysis", userInfo.Name, c.now())
	rows := make([][]string, 0, n)
	for _, t := range res.Trials {
		rows = append(rows, []string{
			fmt.Sprint(t.Trial), num(t.FlowM3Day, 0), num(t.FlowLS, 2), num(t.DT, 2), num(t.SLR, 2),
			num(t.FLR, 2), num(t.RemovalEff, 2), num(t.ChlorineDemand, 2), num(t.Energy, 2),
		})
	}
	doc.Heading("Performance Metrics")
	doc.Table([]string{"Trial", "Q (m³/day)", "Q (L/s)", "DT (h)", "SLR", "FLR", "Removal (%)", "Cl₂ demand", "Energy (kWh/d)"}, rows, nil)
	for _, img := range images {
		doc.Image(img, imageWidth)
	}
	doc.Heading("Summary")
	doc.Preformatted(resp.SummaryReport)
	doc.Heading("Model Calculation (Trial 1)")
	doc.Preformatted(resp.ModelCalculation)
	resp.PDFBase64 = finishPDF(ctx, doc)

	if err := c.complete(ctx, userInfo, run{
		kind:        model.CalcWater,
		reagent:     "Water Treatment Plant Analysis",
		formula:     "WTP Performance Metrics",
		primary:     res.Trials[0].RemovalEff,
		inputs:      req,
		outputs:     res,
		action:      model.ActionWaterCalculation,
		description: fmt.Sprintf("WTP analysis with %d trials", n),
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *calculatorImpl) OilGas(ctx context.Context, req *calculator.ReadingsReq) (*calculator.OilGasResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Readings) == 0 {
		return nil, code.ParamErr.WithMsg("No readings provided")
	}
	readings, err := oilgas.ParseReadings(req.Readings)
	if err != nil {
		return nil, err
	}
	res, err := oilgas.Calculate(readings)
	if err != nil {
		return nil, err
	}

	resp := &calculator.OilGasResp{
		Results:          res.Trials,
		MeanEfficiency:   res.MeanEta,
		ModelCalculation: oilgas.ModelCalculation(readings[0], res.Trials[0]),
		SummaryReport:    oilgas.SummaryReport(res),
	}

	n := len(res.Trials)
	q, dp, eta := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
	for _, t := range res.Trials {
		q = append(q, t.QOilBblDay)
		dp = append(dp, t.DeltaPBar)
		eta = append(eta, t.Efficiency)
	}
	var images [][]byte
	for _, t := range []trend{
		{title: "Flow Rate vs Pressure Drop", xLabel: "Q oil (bbl/day)", yLabel: "ΔP (bar)", xs: q, ys: dp, linear: true},
		{title: "Flow Rate vs Pump Efficiency", xLabel: "Q oil (bbl/day)", yLabel: "Efficiency (%)", xs: q, ys: eta},
	} {
		if g, png := plot(ctx, t); g != nil {
			resp.Graphs = append(resp.Graphs, *g)
			images = append(images, png)
		}
	}

	doc := pdf.New("Oil & Gas Process Analysis", userInfo.Name, c.now())
	rows := make([][]string, 0, n)
	for _, t := range res.Trials {
		rows = append(rows, []string{
			fmt.Sprint(t.Trial), num(t.QOilBblDay, 0), num(t.DeltaPBar, 2), num(t.Velocity, 2),
			fmt.Sprint(t.Reynolds), t.Regime, num(t.Efficiency, 2), num(t.GOR, 2), num(t.RetentionMin, 2),
		})
	}
	doc.Heading("Process Metrics")
	doc.Table([]string{"Trial", "Q (bbl/d)", "ΔP (bar)", "V (m/s)", "Re", "Regime", "η (%)", "GOR", "t_ret (min)"}, rows, nil)
	for _, img := range images {
		doc.Image(img, imageWidth)
	}
	doc.Heading("Summary")
	doc.Preformatted(resp.SummaryReport)
	doc.Heading("Model Calculation (Trial 1)")
	doc.Preformatted(resp.ModelCalculation)
	resp.PDFBase64 = finishPDF(ctx, doc)

	if err := c.complete(ctx, userInfo, run{
		kind:        model.CalcOilGas,
		reagent:     "Oil & Gas Process Analysis",
		formula:     "η = Pw/Pi × 100",
		primary:     res.MeanEta,
		inputs:      req,
		outputs:     res,
		action:      model.ActionOilGasCalculation,
		description: fmt.Sprintf("Oil & Gas analysis with %d trials", n),
	}); err != nil {
		return nil, err
	}
	return resp, nil
}
