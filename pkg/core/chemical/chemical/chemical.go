package chemical

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/activity"
	aImpl "github.com/scienceol/labmate/pkg/core/activity/activity"
	"github.com/scienceol/labmate/pkg/core/chemical"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	"github.com/scienceol/labmate/pkg/repo/llm"
	"github.com/scienceol/labmate/pkg/repo/model"
	"github.com/scienceol/labmate/pkg/repo/pubchem"
	"github.com/scienceol/labmate/pkg/utils"
	"gorm.io/datatypes"
)

type chemicalImpl struct {
	calcStore repo.CalculationRepo
	pubchem   repo.PubChemRepo
	llm       repo.LLMRepo
	recorder  activity.Recorder
}

func New() chemical.Service {
	return NewWith(cStore.NewCalculationRepo(), pubchem.NewCachedPubChemRepo(), llm.NewLLMRepo(), aImpl.New())
}

func NewWith(calc repo.CalculationRepo, pc repo.PubChemRepo, l repo.LLMRepo, recorder activity.Recorder) chemical.Service {
	return &chemicalImpl{
		calcStore: calc,
		pubchem:   pc,
		llm:       l,
		recorder:  recorder,
	}
}

func currentUser(ctx context.Context) (*auth.UserInfo, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	return userInfo, nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", code.ParamErr.WithMsg("Chemical name is required")
	}
	return name, nil
}

func (c *chemicalImpl) List(_ context.Context) []chemical.Chemical {
	return chemical.All()
}

func (c *chemicalImpl) Search(ctx context.Context, req *chemical.SearchReq) (*chemical.SearchResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, code.ParamErr.WithMsg("Search query is required")
	}

	lower := strings.ToLower(query)
	results := utils.FilterSlice(chemical.All(), func(ch chemical.Chemical) (*chemical.SearchResult, bool) {
		if !strings.Contains(strings.ToLower(ch.Name), lower) &&
			!strings.Contains(strings.ToLower(ch.Formula), lower) &&
			!strings.Contains(strings.ToLower(ch.Description), lower) {
			return nil, false
		}
		return &chemical.SearchResult{
			Name:        ch.Name,
			Source:      chemical.SourceLocal,
			Formula:     ch.Formula,
			MolarMass:   ch.MolarMass,
			Hazards:     ch.Hazards,
			Description: ch.Description,
		}, true
	})

	c.recorder.Log(ctx, userInfo.ID, model.ActionChemicalSearch,
		fmt.Sprintf("Searched for: %s (found %d results)", query, len(results)))
	return &chemical.SearchResp{
		Success: true,
		Query:   query,
		Results: results,
		Count:   len(results),
	}, nil
}

func (c *chemicalImpl) calculate(ctx context.Context, userID int64, req *chemical.CalculateReq) (*chemical.ReagentResult, error) {
	name := utils.Or(strings.TrimSpace(req.Reagent), strings.TrimSpace(req.ReagentName))
	if name == "" {
		return nil, code.ParamErr.WithMsg("Reagent name is required")
	}
	if req.Molarity < 0 || req.Volume < 0 {
		return nil, code.ParamErr.WithMsg("Molarity and volume must not be negative")
	}
	ch, ok := chemical.Lookup(name)
	if !ok {
		return nil, code.ChemicalNotFound
	}

	result := chemical.Reagent(ch, req.Molarity, req.Volume)
	if err := SaveReagentCalculation(ctx, c.calcStore, userID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveReagentCalculation persists a reagent result, shared with the chat
// assistant which calculates from free text.
func SaveReagentCalculation(ctx context.Context, store repo.CalculationRepo, userID int64, r *chemical.ReagentResult) error {
	inputs, _ := json.Marshal(map[string]any{
		"reagent":  r.Reagent,
		"molarity": r.Molarity,
		"volume":   r.VolumeML,
	})
	outputs, _ := json.Marshal(r)
	if err := store.CreateCalculation(ctx, &model.Calculation{
		UserID:     userID,
		Kind:       model.CalcReagent,
		Reagent:    r.Reagent,
		Formula:    r.Formula,
		Molarity:   r.Molarity,
		Volume:     r.VolumeML,
		MassNeeded: r.MassNeeded,
		Inputs:     datatypes.JSON(inputs),
		Outputs:    datatypes.JSON(outputs),
	}); err != nil {
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}

func calcDescription(r *chemical.ReagentResult) string {
	return fmt.Sprintf("Calculated %s: %.2fg for %sM in %smL",
		r.Reagent, r.MassNeeded, chemical.Number(r.Molarity), chemical.Number(r.VolumeML))
}

func (c *chemicalImpl) Calculate(ctx context.Context, req *chemical.CalculateReq) (*chemical.ReagentResult, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	result, err := c.calculate(ctx, userInfo.ID, req)
	if err != nil {
		return nil, err
	}
	c.recorder.Log(ctx, userInfo.ID, model.ActionCalculation, calcDescription(result))
	return result, nil
}

func (c *chemicalImpl) EnhancedCalculate(ctx context.Context, req *chemical.CalculateReq) (*chemical.EnhancedResult, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	result, err := c.calculate(ctx, userInfo.ID, req)
	if err != nil {
		return nil, err
	}

	data := c.lookup(ctx, result.Reagent, false)
	c.recorder.Log(ctx, userInfo.ID, model.ActionEnhancedCalculation, calcDescription(result))
	return &chemical.EnhancedResult{
		ReagentResult:  result,
		AdditionalData: data.Data,
		DataSource:     data.Source,
	}, nil
}

// lookup 先查本地库，未命中且允许时再查 PubChem
func (c *chemicalImpl) lookup(ctx context.Context, name string, usePubChem bool) *chemical.DataResp {
	resp := &chemical.DataResp{
		ChemicalName: name,
		Source:       chemical.SourceUnknown,
		Data:         &chemical.ChemicalData{},
		Status:       chemical.StatusError,
	}

	if ch, ok := chemical.Lookup(name); ok {
		resp.Source = chemical.SourceLocal
		resp.Status = chemical.StatusSuccess
		resp.Data = &chemical.ChemicalData{
			Formula:     ch.Formula,
			MolarMass:   ch.MolarMass,
			Hazards:     ch.Hazards,
			Description: ch.Description,
		}
		return resp
	}

	if usePubChem {
		info, err := c.pubchem.GetCompoundByName(ctx, name)
		if err == nil {
			resp.Source = chemical.SourcePubChem
			resp.Status = chemical.StatusSuccess
			resp.Data = &chemical.ChemicalData{
				MolecularWeight:  info.MolecularWeight,
				MolecularFormula: info.MolecularFormula,
				PubChemCID:       info.CID,
				Smiles:           info.CanonicalSMILES,
				IsomericSmiles:   info.IsomericSMILES,
			}
			return resp
		}
		logger.Warnf(ctx, "pubchem lookup fail name: %s, err: %+v", name, err)
	}

	msg := fmt.Sprintf("Chemical \"%s\" not found in any database", name)
	resp.ErrorMessage = &msg
	return resp
}

func (c *chemicalImpl) GetChemicalData(ctx context.Context, req *chemical.DataReq) (*chemical.DataResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := requireName(req.ChemicalName)
	if err != nil {
		return nil, err
	}

	usePubChem := req.UsePubChem == nil || *req.UsePubChem
	resp := c.lookup(ctx, name, usePubChem)
	if resp.Status == chemical.StatusSuccess {
		c.recorder.Log(ctx, userInfo.ID, model.ActionChemicalLookup,
			fmt.Sprintf("Retrieved data for: %s from %s", name, resp.Source))
	} else {
		c.recorder.Log(ctx, userInfo.ID, model.ActionChemicalLookup,
			fmt.Sprintf("Failed to get data for: %s - %s", name, *resp.ErrorMessage))
	}
	return resp, nil
}

func (c *chemicalImpl) PropertiesSummary(ctx context.Context, req *chemical.NameReq) (*chemical.SummaryResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := requireName(req.ChemicalName)
	if err != nil {
		return nil, err
	}

	data := c.lookup(ctx, name, true)
	if data.Status != chemical.StatusSuccess {
		c.recorder.Log(ctx, userInfo.ID, model.ActionPropertiesSummary,
			fmt.Sprintf("Failed to generate summary for: %s", name))
		return nil, code.ChemicalNotFound.WithMsg(*data.ErrorMessage)
	}

	d := data.Data
	summary := &chemical.SummaryResp{
		ChemicalName: name,
		DataSource:   data.Source,
		Properties: chemical.Properties{
			Basic: chemical.BasicProperties{
				Formula:   utils.Or(d.Formula, d.MolecularFormula),
				MolarMass: utils.Or(d.MolarMass, d.MolecularWeight),
			},
			Safety: chemical.SafetyProperties{
				Hazards: utils.Ternary(d.Hazards == nil, []string{}, d.Hazards),
			},
			Other: chemical.OtherProperties{
				Description: d.Description,
				Smiles:      d.Smiles,
			},
		},
	}
	if d.PubChemCID != 0 {
		cid := d.PubChemCID
		summary.Properties.Basic.PubChemCID = &cid
	}

	c.recorder.Log(ctx, userInfo.ID, model.ActionPropertiesSummary,
		fmt.Sprintf("Generated summary for: %s", name))
	return summary, nil
}

func (c *chemicalImpl) FetchPubChem(ctx context.Context, req *chemical.NameReq) (*chemical.PubChemResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := requireName(req.ChemicalName)
	if err != nil {
		return nil, err
	}

	resp := &chemical.PubChemResp{ChemicalName: name, Status: chemical.StatusError}
	info, err := c.pubchem.GetCompoundByName(ctx, name)
	if err != nil {
		_, msg := code.Parse(err)
		if !errors.Is(err, code.ChemicalNotFound) {
			logger.Errorf(ctx, "FetchPubChem name: %s, err: %+v", name, err)
		}
		resp.ErrorMessage = msg
		c.recorder.Log(ctx, userInfo.ID, model.ActionPubChemLookup,
			fmt.Sprintf("Failed to fetch data for: %s - %s", name, msg))
		return resp, nil
	}

	resp.Status = chemical.StatusSuccess
	resp.PubChemCID = info.CID
	resp.Title = info.Name
	resp.MolecularWeight = info.MolecularWeight
	resp.MolecularFormula = info.MolecularFormula
	resp.Smiles = info.CanonicalSMILES
	resp.IsomericSmiles = info.IsomericSMILES
	c.recorder.Log(ctx, userInfo.ID, model.ActionPubChemLookup,
		fmt.Sprintf("Fetched data for: %s (CID: %d)", name, info.CID))
	return resp, nil
}

func (c *chemicalImpl) History(ctx context.Context) (*chemical.HistoryResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	list, err := c.calcStore.ListCalculations(ctx, repo.CalculationQuery{
		UserID: userInfo.ID,
		Limit:  chemical.HistoryLimit,
	})
	if err != nil {
		return nil, err
	}
	entries := utils.FilterSlice(list, func(m *model.Calculation) (*activity.CalculationEntry, bool) {
		return activity.NewCalculationEntry(m), true
	})
	return &chemical.HistoryResp{
		Success:      true,
		Calculations: entries,
		Count:        len(entries),
	}, nil
}
