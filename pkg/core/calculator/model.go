package calculator

import (
	"github.com/scienceol/labmate/pkg/core/calculator/formula/fit"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/oilgas"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/pitot"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/pump"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/venturi"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/water"
)

// Readings arrive loosely typed, numbers may be posted as strings.

type PitotReq struct {
	OrificeReadings [][]any        `json:"orifice_readings"`
	PitotReadings   [][]any        `json:"pitot_readings"`
	GraphParams     []string       `json:"graph_params"`
	Constants       map[string]any `json:"constants,omitempty"`
}

type VenturiReq struct {
	Readings  []map[string]any `json:"readings"`
	Constants map[string]any   `json:"constants"`
}

type PumpReq struct {
	Trials    []map[string]any `json:"trials"`
	Constants map[string]any   `json:"constants,omitempty"`
}

type ReadingsReq struct {
	Readings []map[string]any `json:"readings"`
}

type PDFReq struct {
	PDFBase64 string `json:"pdf_base64"`
	Kind      string `json:"kind"`
}

type PitotResp struct {
	Results          []pitot.Reading `json:"results"`
	MeanCv           float64         `json:"mean_cv"`
	Constants        pitot.Constants `json:"constants"`
	GraphParams      []string        `json:"graph_params"`
	Fit              *fit.Line       `json:"fit,omitempty"`
	ModelCalculation string          `json:"model_calculation"`
	GraphBase64      string          `json:"graph_base64"`
	PDFBase64        string          `json:"pdf_base64"`
}

type VenturiResp struct {
	Results          []venturi.Trial `json:"results"`
	MeanCd           float64         `json:"mean_cd"`
	Constants        venturi.Summary `json:"constants"`
	ModelCalculation string          `json:"model_calculation"`
	GraphBase64      string          `json:"graph_base64"`
	PDFBase64        string          `json:"pdf_base64"`
}

type PumpResp struct {
	Results          []pump.Trial   `json:"results"`
	MeanEfficiency   float64        `json:"mean_efficiency"`
	Constants        pump.Constants `json:"constants"`
	ModelCalculation string         `json:"model_calculation"`
	GraphBase64      string         `json:"graph_base64"`
	PDFBase64        string         `json:"pdf_base64"`
}

// Graph is one named chart of a multi chart analysis.
type Graph struct {
	Title  string `json:"title"`
	Fit    string `json:"fit"`
	Base64 string `json:"base64"`
}

type WaterResp struct {
	Results          []water.Trial `json:"results"`
	ModelCalculation string        `json:"model_calculation"`
	SummaryReport    string        `json:"summary_report"`
	Graphs           []Graph       `json:"graphs"`
	PDFBase64        string        `json:"pdf_base64"`
}

type OilGasResp struct {
	Results          []oilgas.Trial `json:"results"`
	MeanEfficiency   float64        `json:"mean_efficiency"`
	ModelCalculation string         `json:"model_calculation"`
	SummaryReport    string         `json:"summary_report"`
	Graphs           []Graph        `json:"graphs"`
	PDFBase64        string         `json:"pdf_base64"`
}

type SamplesResp struct {
	Pitot   *PitotReq    `json:"pitot"`
	Venturi *VenturiReq  `json:"venturi"`
	Pump    *PumpReq     `json:"pump"`
	Water   *ReadingsReq `json:"water"`
	OilGas  *ReadingsReq `json:"oilgas"`
}

type PDFFile struct {
	Name string
	Data []byte
}
