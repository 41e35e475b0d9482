package pubchem

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
)

const (
	userAgent  = "LabMateAI/1.0 (Educational Use)"
	properties = "MolecularWeight,MolecularFormula,CanonicalSMILES,IsomericSMILES,Title"
)

type cidResponse struct {
	IdentifierList struct {
		CID []int64 `json:"CID"`
	} `json:"IdentifierList"`
}

// MolecularWeight arrives as a JSON string from current PubChem releases.
type property struct {
	CID                int64       `json:"CID"`
	Title              string      `json:"Title"`
	MolecularFormula   string      `json:"MolecularFormula"`
	MolecularWeight    json.Number `json:"MolecularWeight"`
	CanonicalSMILES    string      `json:"CanonicalSMILES"`
	IsomericSMILES     string      `json:"IsomericSMILES"`
	ConnectivitySMILES string      `json:"ConnectivitySMILES"`
	SMILES             string      `json:"SMILES"`
}

type propertyResponse struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubchemImpl struct {
	client *resty.Client
}

func NewPubChemRepo() repo.PubChemRepo {
	return newPubChemRepo(config.Global().RPC.PubChem.Addr)
}

func newPubChemRepo(baseURL string) *pubchemImpl {
	return &pubchemImpl{
		client: resty.New().
			SetTimeout(30*time.Second).
			EnableTrace().
			SetBaseURL(baseURL).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
	}
}

func (p *pubchemImpl) GetCompoundByName(ctx context.Context, name string) (*repo.CompoundInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, code.ParamErr.WithMsg("chemical name is required")
	}

	cid, err := p.resolveCID(ctx, name)
	if err != nil {
		return nil, err
	}

	propResp := &propertyResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"cid":   strconv.FormatInt(cid, 10),
			"props": properties,
		}).
		SetResult(propResp).
		Get("/rest/pug/compound/cid/{cid}/property/{props}/JSON")
	if err != nil {
		logger.Errorf(ctx, "Failed to request properties from PubChem: %v", err)
		return nil, code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, code.RPCHttpCodeErr.WithMsgf("PubChem property query failed: status %d", res.StatusCode())
	}
	if len(propResp.PropertyTable.Properties) == 0 {
		return nil, code.UnDefineErr.WithMsg("Failed to parse PubChem property response")
	}

	prop := propResp.PropertyTable.Properties[0]
	weight, _ := prop.MolecularWeight.Float64()

	canonical := prop.CanonicalSMILES
	if canonical == "" {
		canonical = prop.ConnectivitySMILES
	}
	isomeric := prop.IsomericSMILES
	if isomeric == "" {
		isomeric = prop.SMILES
	}

	return &repo.CompoundInfo{
		CID:              cid,
		Name:             name,
		MolecularFormula: prop.MolecularFormula,
		MolecularWeight:  weight,
		CanonicalSMILES:  canonical,
		IsomericSMILES:   isomeric,
	}, nil
}

func (p *pubchemImpl) resolveCID(ctx context.Context, name string) (int64, error) {
	cidResp := &cidResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetResult(cidResp).
		Get("/rest/pug/compound/name/{name}/cids/JSON")
	if err != nil {
		logger.Errorf(ctx, "Failed to resolve PubChem CID name: %s, err: %v", name, err)
		return 0, code.RPCHttpErr.WithErr(err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return 0, code.ChemicalNotFound.WithMsgf("Chemical '%s' not found in PubChem", name)
	}
	if res.StatusCode() != http.StatusOK {
		return 0, code.RPCHttpCodeErr.WithMsgf("PubChem CID query failed: status %d", res.StatusCode())
	}
	if len(cidResp.IdentifierList.CID) == 0 {
		return 0, code.ChemicalNotFound.WithMsgf("Chemical '%s' not found in PubChem", name)
	}
	return cidResp.IdentifierList.CID[0], nil
}
