package chemical

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/scienceol/labmate/pkg/core/chemical"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo/model"
)

const msdsSystem = "You are a laboratory safety officer who writes Material Safety Data Sheets. Answer with JSON only."

const msdsPrompt = `Provide comprehensive MSDS (Material Safety Data Sheet) information for the chemical: %s

Focus on SAFETY and HAZARD information first, then provide additional chemical details.

Please provide the following information in JSON format:
{
    "name": "Chemical name",
    "formula": "Chemical formula",
    "molar_mass": "Molar mass in g/mol",
    "hazards": ["List of primary hazards - prioritize safety warnings"],
    "safety_precautions": ["Critical safety precautions and handling procedures"],
    "first_aid": ["Emergency first aid measures"],
    "storage_requirements": ["Safe storage conditions and requirements"],
    "disposal_methods": ["Proper disposal procedures"],
    "health_effects": ["Health effects and symptoms of exposure"],
    "fire_fighting": ["Fire fighting measures and extinguishing agents"],
    "spill_procedures": ["Spill cleanup procedures"],
    "personal_protection": ["Required personal protective equipment"]
}

Prioritize safety information and MSDS-specific data. If the chemical is not found or you're unsure, return null.`

func (c *chemicalImpl) MSDSSearch(ctx context.Context, req *chemical.MSDSReq) (*chemical.MSDSResp, error) {
	userInfo, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(req.Query)
	useLLM := req.Enhanced
	if req.UseLLM != nil {
		useLLM = *req.UseLLM
	}
	resp := &chemical.MSDSResp{
		Success: true,
		Query:   query,
		Results: make([]*chemical.MSDSRecord, 0, 2),
		LLMUsed: useLLM,
	}
	if query == "" {
		return resp, nil
	}

	lower := strings.ToLower(query)
	for _, ch := range chemical.All() {
		if strings.Contains(strings.ToLower(ch.Name), lower) || strings.Contains(strings.ToLower(ch.Formula), lower) {
			resp.Results = append(resp.Results, &chemical.MSDSRecord{
				Name:      ch.Name,
				Formula:   ch.Formula,
				MolarMass: ch.MolarMass,
				Hazards:   ch.Hazards,
				Source:    chemical.SourceMSDSLocal,
			})
		}
	}

	if useLLM && (len(resp.Results) == 0 || req.ForceLLM) {
		if record := c.draftMSDS(ctx, query); record != nil {
			resp.Results = append(resp.Results, record)
		}
	}
	resp.Count = len(resp.Results)

	action, desc := model.ActionMSDSLookup, fmt.Sprintf("Searched MSDS for: %s (LLM: %t)", query, useLLM)
	if req.Enhanced {
		action = model.ActionEnhancedMSDSSearch
		desc = fmt.Sprintf("Searched for: %s (LLM: %t, Results: %d)", query, useLLM, resp.Count)
	}
	c.recorder.Log(ctx, userInfo.ID, action, desc)
	return resp, nil
}

// draftMSDS 失败时返回 nil，解析失败时返回通用占位记录
func (c *chemicalImpl) draftMSDS(ctx context.Context, query string) *chemical.MSDSRecord {
	if !c.llm.Enabled() {
		return nil
	}
	text, err := c.llm.Complete(ctx, msdsSystem, fmt.Sprintf(msdsPrompt, query))
	if err != nil {
		logger.Warnf(ctx, "msds llm request fail query: %s, err: %+v", query, err)
		return nil
	}
	return parseMSDS(query, text)
}

func parseMSDS(query, text string) *chemical.MSDSRecord {
	raw, ok := extractJSON(text)
	if !ok {
		return nil
	}
	if strings.TrimSpace(raw) == "null" {
		return nil
	}

	record := &chemical.MSDSRecord{}
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return placeholderMSDS(query)
	}
	record.Source = chemical.SourceLLM
	return record
}

// extractJSON 优先取 ```json 代码块，否则取最外层的花括号
func extractJSON(text string) (string, bool) {
	if start := strings.Index(text, "```json"); start >= 0 {
		body := text[start+len("```json"):]
		if end := strings.Index(body, "```"); end >= 0 {
			return strings.TrimSpace(body[:end]), true
		}
		return strings.TrimSpace(body), true
	}
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1], true
	}
	if strings.TrimSpace(text) == "null" {
		return "null", true
	}
	return "", false
}

func placeholderMSDS(query string) *chemical.MSDSRecord {
	return &chemical.MSDSRecord{
		Name:                titleCase(query),
		Formula:             "Unknown",
		MolarMass:           0,
		Hazards:             []string{"Unknown hazards - consult official MSDS"},
		SafetyPrecautions:   []string{"Use standard laboratory safety practices"},
		FirstAid:            []string{"Consult medical professional"},
		StorageRequirements: []string{"Store according to standard laboratory protocols"},
		DisposalMethods:     []string{"Follow local regulations"},
		Source:              chemical.SourceLLM,
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
