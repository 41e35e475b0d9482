package chemical

import "context"

type Service interface {
	List(ctx context.Context) []Chemical
	Search(ctx context.Context, req *SearchReq) (*SearchResp, error)
	Calculate(ctx context.Context, req *CalculateReq) (*ReagentResult, error)
	EnhancedCalculate(ctx context.Context, req *CalculateReq) (*EnhancedResult, error)
	GetChemicalData(ctx context.Context, req *DataReq) (*DataResp, error)
	PropertiesSummary(ctx context.Context, req *NameReq) (*SummaryResp, error)
	FetchPubChem(ctx context.Context, req *NameReq) (*PubChemResp, error)
	MSDSSearch(ctx context.Context, req *MSDSReq) (*MSDSResp, error)
	History(ctx context.Context) (*HistoryResp, error)
}
