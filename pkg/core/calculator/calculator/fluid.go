package calculator

import (
	"context"
	"fmt"
	"image/color"
	"slices"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/calculator"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/fit"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/input"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/pitot"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/pump"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/venturi"
	"github.com/scienceol/labmate/pkg/core/report/chart"
	"github.com/scienceol/labmate/pkg/core/report/pdf"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo/model"
)

const imageWidth = 170.0

var defaultGraphParams = []string{"V0", "Vp"}

func span(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return slices.Min(xs), slices.Max(xs)
}

func lineCurve(name string, l fit.Line, xs []float64, axis chart.Axis) chart.Curve {
	lo, hi := span(xs)
	return chart.Curve{Name: name, Fn: l.Eval, From: lo, To: hi, Color: chart.Red, Dashed: true, Axis: axis}
}

// pairs 把 [l1, l2] 形式的读数转换为数值
func pairs(raw [][]any) ([][2]float64, error) {
	out := make([][2]float64, 0, len(raw))
	for _, r := range raw {
		if len(r) < 2 {
			return nil, code.ParamErr.WithMsg("Invalid reading format. All values must be numbers.")
		}
		l1, ok1 := input.Float(r[0])
		l2, ok2 := input.Float(r[1])
		if !ok1 || !ok2 {
			return nil, code.ParamErr.WithMsg("Invalid reading format. All values must be numbers.")
		}
		out = append(out, [2]float64{l1, l2})
	}
	return out, nil
}

func graphParams(params []string) ([]string, error) {
	if len(params) == 0 {
		return defaultGraphParams, nil
	}
	if len(params) != 2 {
		return nil, code.ParamErr.WithMsg("graph_params must name exactly two parameters")
	}
	for _, p := range params {
		if _, ok := pitot.ParamLabels[p]; !ok {
			return nil, code.ParamErr.WithMsgf("Invalid graph parameter: %s", p)
		}
	}
	return params, nil
}

func (c *calculatorImpl) Pitot(ctx context.Context, req *calculator.PitotReq) (*calculator.PitotResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.OrificeReadings) == 0 || len(req.PitotReadings) == 0 {
		return nil, code.ParamErr.WithMsg("No readings provided")
	}
	if len(req.OrificeReadings) != len(req.PitotReadings) {
		return nil, code.ParamErr.WithMsg("Mismatched number of orifice and pitot readings")
	}
	orifice, err := pairs(req.OrificeReadings)
	if err != nil {
		return nil, err
	}
	pitotReadings, err := pairs(req.PitotReadings)
	if err != nil {
		return nil, err
	}
	params, err := graphParams(req.GraphParams)
	if err != nil {
		return nil, err
	}

	constants := pitot.DefaultConstants().Override(input.Floats(req.Constants))
	res, err := pitot.Calculate(orifice, pitotReadings, constants)
	if err != nil {
		return nil, err
	}

	resp := &calculator.PitotResp{
		Results:          res.Readings,
		MeanCv:           res.MeanCv,
		Constants:        res.Constants,
		GraphParams:      params,
		ModelCalculation: pitot.ModelCalculation(res.Readings[0], constants),
	}

	xs := make([]float64, 0, len(res.Readings))
	ys := make([]float64, 0, len(res.Readings))
	for _, r := range res.Readings {
		x, _ := r.Param(params[0])
		y, _ := r.Param(params[1])
		xs = append(xs, x)
		ys = append(ys, y)
	}
	ch := &chart.Chart{
		Title:  fmt.Sprintf("%s vs %s", params[1], params[0]),
		XLabel: pitot.ParamLabels[params[0]],
		YLabel: pitot.ParamLabels[params[1]],
		Series: []chart.Series{{Name: "Experimental data", X: xs, Y: ys, Color: chart.Blue}},
	}
	if line, err := fit.Linear(xs, ys); err == nil {
		resp.Fit = &line
		ch.Curves = append(ch.Curves, lineCurve("Best fit", line, xs, chart.Left))
		ch.Annotation = fmt.Sprintf("%s\nR² = %.4f", line, line.R2)
	}
	png, graph := renderChart(ctx, ch)
	resp.GraphBase64 = graph

	doc := pdf.New("Pitot Tube Experiment Report", userInfo.Name, c.now())
	doc.Paragraph("Determination of the velocity coefficient (Cv) of a pitot tube.")
	doc.Heading("Experiment Constants")
	doc.Table([]string{"Parameter", "Value"}, [][]string{
		{"Cd0", num(constants.Cd0, 2)},
		{"d0 (mm)", num(constants.D0, 1)},
		{"D (mm)", num(constants.D, 1)},
		{"rho_m (kg/m³)", num(constants.RhoM, 1)},
		{"rho (kg/m³)", num(constants.Rho, 2)},
		{"g (m/s²)", num(constants.G, 2)},
		{"sin 25°", num(constants.Sin25, 3)},
		{"sin 15°", num(constants.Sin15, 3)},
	}, nil)
	rows := make([][]string, 0, len(res.Readings))
	for i, r := range res.Readings {
		rows = append(rows, []string{
			fmt.Sprint(i + 1), num(r.L1o, 1), num(r.L2o, 1), num(r.L1p, 1), num(r.L2p, 1),
			num(r.Ha0, 4), num(r.V0, 4), num(r.Hap, 4), num(r.Vp, 4), num(r.Cv, 4),
		})
	}
	doc.Heading("Results")
	doc.Table([]string{"#", "l1o", "l2o", "l1p", "l2p", "Ha0 (m)", "V0 (m/s)", "Hap (m)", "Vp (m/s)", "Cv"}, rows, nil)
	doc.Field("Mean Cv", num(res.MeanCv, 4))
	if png != nil {
		doc.Heading("Graph")
		doc.Image(png, imageWidth)
	}
	doc.Heading("Model Calculation")
	doc.Preformatted(resp.ModelCalculation)
	resp.PDFBase64 = finishPDF(ctx, doc)

	if err := c.complete(ctx, userInfo, run{
		kind:        model.CalcPitot,
		reagent:     "Pitot Tube Experiment",
		formula:     "Cv = V0/Vp",
		primary:     res.MeanCv,
		inputs:      req,
		outputs:     res,
		action:      model.ActionFluidCalculation,
		description: fmt.Sprintf("Pitot Tube experiment with %d readings", len(orifice)),
	}); err != nil {
		return nil, err
	}
	logger.Infof(ctx, "pitot calculation user: %d readings: %d mean cv: %.4f", userInfo.ID, len(orifice), res.MeanCv)
	return resp, nil
}

func venturiReadings(raw []map[string]any) ([]venturi.Reading, error) {
	out := make([]venturi.Reading, 0, len(raw))
	for _, m := range raw {
		h1, ok1 := input.Float(m["h1"])
		h2, ok2 := input.Float(m["h2"])
		t, ok3 := input.Float(m["t"])
		if !ok1 || !ok2 || !ok3 {
			return nil, code.ParamErr.WithMsg("Invalid reading format. All values must be numbers.")
		}
		out = append(out, venturi.Reading{H1: h1, H2: h2, T: t})
	}
	return out, nil
}

func (c *calculatorImpl) Venturi(ctx context.Context, req *calculator.VenturiReq) (*calculator.VenturiResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Readings) == 0 {
		return nil, code.ParamErr.WithMsg("No readings provided")
	}
	constants, err := venturi.ParseConstants(input.Floats(req.Constants))
	if err != nil {
		return nil, err
	}
	readings, err := venturiReadings(req.Readings)
	if err != nil {
		return nil, err
	}
	res, err := venturi.Calculate(readings, constants)
	if err != nil {
		return nil, err
	}

	resp := &calculator.VenturiResp{
		Results:          res.Trials,
		MeanCd:           res.MeanCd,
		Constants:        res.Constants,
		ModelCalculation: venturi.ModelCalculation(readings[0], constants),
	}

	qt := make([]float64, 0, len(res.Trials))
	qa := make([]float64, 0, len(res.Trials))
	for _, t := range res.Trials {
		qt = append(qt, t.Qt)
		qa = append(qa, t.Qa)
	}
	ch := &chart.Chart{
		Title:  "Venturimeter Calibration: Qa vs Qt",
		XLabel: "Theoretical discharge Qt (m³/s)",
		YLabel: "Actual discharge Qa (m³/s)",
		Series: []chart.Series{{Name: "Trials", X: qt, Y: qa, Color: chart.Blue}},
	}
	if line, err := fit.Linear(qt, qa); err == nil {
		ch.Curves = append(ch.Curves, lineCurve("Linear fit", line, qt, chart.Left))
		ch.Annotation = fmt.Sprintf("%s\nR² = %.4f\nMean Cd = %.4f", line, line.R2, res.MeanCd)
	} else {
		ch.Annotation = fmt.Sprintf("Mean Cd = %.4f", res.MeanCd)
	}
	png, graph := renderChart(ctx, ch)
	resp.GraphBase64 = graph

	doc := pdf.New("Venturimeter Calibration Report", userInfo.Name, c.now())
	doc.Heading("Apparatus")
	doc.Table([]string{"Parameter", "Value"}, [][]string{
		{"Inlet diameter d1 (mm)", num(constants.D1, 2)},
		{"Throat diameter d2 (mm)", num(constants.D2, 2)},
		{"Inlet area a1 (m²)", num(res.Constants.A1, 8)},
		{"Throat area a2 (m²)", num(res.Constants.A2, 8)},
		{"Tank area (m²)", num(res.Constants.TankArea, 4)},
		{"Volume collected (m³)", num(res.Constants.VolumeCollected, 4)},
		{"Conversion factor", num(constants.ConversionFactor, 2)},
	}, nil)
	rows := make([][]string, 0, len(res.Trials))
	for _, t := range res.Trials {
		rows = append(rows, []string{
			fmt.Sprint(t.Trial), num(t.H1, 2), num(t.H2, 2), num(t.T, 2),
			num(t.H, 4), num(t.Qt, 6), num(t.Qa, 6), num(t.Cd, 4),
		})
	}
	doc.Heading("Results")
	doc.Table([]string{"Trial", "h1 (cm)", "h2 (cm)", "t (s)", "H (m)", "Qt (m³/s)", "Qa (m³/s)", "Cd"}, rows, nil)
	doc.Field("Mean Cd", num(res.MeanCd, 4))
	if png != nil {
		doc.Heading("Graph")
		doc.Image(png, imageWidth)
	}
	doc.Heading("Model Calculation")
	doc.Preformatted(resp.ModelCalculation)
	resp.PDFBase64 = finishPDF(ctx, doc)

	if err := c.complete(ctx, userInfo, run{
		kind:        model.CalcVenturi,
		reagent:     "Venturimeter Calibration",
		formula:     "Cd = Qa/Qt",
		primary:     res.MeanCd,
		inputs:      req,
		outputs:     res,
		action:      model.ActionVenturiCalculation,
		description: fmt.Sprintf("Venturimeter calibration with %d trials, Mean Cd: %g", len(readings), res.MeanCd),
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

var pumpKeys = []string{"P.G.", "V.G.", "t", "t_n"}

func pumpReadings(raw []map[string]any) ([]pump.Reading, error) {
	out := make([]pump.Reading, 0, len(raw))
	for _, m := range raw {
		vals := make([]float64, len(pumpKeys))
		for i, k := range pumpKeys {
			if _, ok := m[k]; !ok {
				return nil, code.ParamErr.WithMsg("Invalid trial format. Each trial must have P.G., V.G., t, and t_n")
			}
			v, ok := input.Float(m[k])
			if !ok {
				return nil, code.ParamErr.WithMsg("Invalid trial data. All values must be numbers.")
			}
			vals[i] = v
		}
		out = append(out, pump.Reading{PG: vals[0], VG: vals[1], T: vals[2], Tn: vals[3]})
	}
	return out, nil
}

func (c *calculatorImpl) Pump(ctx context.Context, req *calculator.PumpReq) (*calculator.PumpResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Trials) == 0 {
		return nil, code.ParamErr.WithMsg("No trials provided")
	}
	readings, err := pumpReadings(req.Trials)
	if err != nil {
		return nil, err
	}
	constants := pump.DefaultConstants().Override(input.Floats(req.Constants))
	res, err := pump.Calculate(readings, constants)
	if err != nil {
		return nil, err
	}

	resp := &calculator.PumpResp{
		Results:          res.Trials,
		MeanEfficiency:   res.MeanEfficiency,
		Constants:        constants,
		ModelCalculation: pump.ModelCalculation(readings[0], constants),
	}

	n := len(res.Trials)
	q, head, output, eta := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
	for _, t := range res.Trials {
		q = append(q, t.Flow)
		head = append(head, t.Head)
		output = append(output, t.Output)
		eta = append(eta, t.Efficiency)
	}
	ch := &chart.Chart{
		Title:   "Centrifugal Pump Characteristics",
		XLabel:  "Discharge Q (m³/s)",
		YLabel:  "Head H (m) / Output O/P (kW)",
		Y2Label: "Efficiency η (%)",
		Series: []chart.Series{
			{Name: "H (m)", X: q, Y: head, Color: chart.Blue},
			{Name: "O/P (kW)", X: q, Y: output, Color: chart.Green},
			{Name: "η (%)", X: q, Y: eta, Color: chart.Orange, Axis: chart.Right},
		},
	}
	trends := []struct {
		name  string
		ys    []float64
		color color.Color
		axis  chart.Axis
	}{
		{"H trend", head, chart.Blue, chart.Left},
		{"O/P trend", output, chart.Green, chart.Left},
		{"η trend", eta, chart.Orange, chart.Right},
	}
	for _, tr := range trends {
		line, err := fit.Linear(q, tr.ys)
		if err != nil {
			continue
		}
		cv := lineCurve(tr.name, line, q, tr.axis)
		cv.Color = tr.color
		ch.Curves = append(ch.Curves, cv)
	}
	ch.Annotation = fmt.Sprintf("Mean η = %.2f%%", res.MeanEfficiency)
	png, graph := renderChart(ctx, ch)
	resp.GraphBase64 = graph

	doc := pdf.New("Centrifugal Pump Test Experiment", userInfo.Name, c.now())
	doc.Heading("Experiment Constants")
	doc.Table([]string{"Parameter", "Value", "Unit"}, [][]string{
		{"Number of revolutions (n)", num(constants.NRevolutions, 0), ""},
		{"Energy meter constant (E_c)", num(constants.EcRevKWh, 0), "rev/kWh"},
		{"Transmission efficiency (η_T)", num(constants.EtaT, 2), ""},
		{"Water density (ρ)", num(constants.Rho, 0), "kg/m³"},
		{"Gravity (g)", num(constants.G, 2), "m/s²"},
		{"Tank area (A)", num(constants.A, 2), "m²"},
		{"Rise in tank level (h)", num(constants.H, 2), "m"},
		{"Gauge datum difference (X)", num(constants.X, 2), "m"},
	}, nil)
	rows := make([][]string, 0, n)
	for _, t := range res.Trials {
		rows = append(rows, []string{
			fmt.Sprint(t.Trial), num(t.PG, 2), num(t.VG, 1), num(t.Head, 4),
			num(t.Flow, 6), num(t.Input, 4), num(t.Output, 4), num(t.Efficiency, 2),
		})
	}
	doc.Heading("Results")
	doc.Table([]string{"Trial", "P.G. (kg/cm²)", "V.G. (mmHg)", "H (m)", "Q (m³/s)", "I/P (kW)", "O/P (kW)", "η (%)"}, rows, nil)
	doc.Field("Mean efficiency (%)", num(res.MeanEfficiency, 2))
	if png != nil {
		doc.Heading("Performance Curves")
		doc.Image(png, imageWidth)
	}
	doc.Heading("Model Calculation (Trial 1)")
	doc.Preformatted(resp.ModelCalculation)
	resp.PDFBase64 = finishPDF(ctx, doc)

	if err := c.complete(ctx, userInfo, run{
		kind:        model.CalcPump,
		reagent:     "Centrifugal Pump Test",
		formula:     "η = (O/P / I/P) × 100",
		primary:     res.MeanEfficiency,
		inputs:      req,
		outputs:     res,
		action:      model.ActionPumpCalculation,
		description: fmt.Sprintf("Pump test with %d trials", n),
	}); err != nil {
		return nil, err
	}
	return resp, nil
}
