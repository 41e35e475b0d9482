package calculator

import "context"

type Service interface {
	Pitot(ctx context.Context, req *PitotReq) (*PitotResp, error)
	Venturi(ctx context.Context, req *VenturiReq) (*VenturiResp, error)
	Pump(ctx context.Context, req *PumpReq) (*PumpResp, error)
	Water(ctx context.Context, req *ReadingsReq) (*WaterResp, error)
	OilGas(ctx context.Context, req *ReadingsReq) (*OilGasResp, error)
	Samples(ctx context.Context) *SamplesResp
	DownloadPDF(ctx context.Context, req *PDFReq) (*PDFFile, error)
}
