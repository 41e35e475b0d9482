package chat

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/scienceol/labmate/pkg/core/chemical"
	chemImpl "github.com/scienceol/labmate/pkg/core/chemical/chemical"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
)

type intent string

const (
	intentGreeting    intent = "greeting"
	intentCalculation intent = "calculation"
	intentChemical    intent = "chemical"
	intentSafety      intent = "safety"
	intentExperiment  intent = "experiment"
	intentHelp        intent = "help"
	intentGeneral     intent = "general"

	maxChemicalInfo = 3
)

// keywords are checked in order, the first intent with a match wins.
var keywords = []struct {
	intent intent
	words  []string
}{
	{intentGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}},
	{intentCalculation, []string{"calculate", "how much", "mass", "molarity", "volume", "concentration"}},
	{intentChemical, []string{"chemical", "reagent", "compound", "substance", "molecule"}},
	{intentSafety, []string{"safety", "hazard", "dangerous", "toxic", "corrosive", "flammable"}},
	{intentExperiment, []string{"experiment", "procedure", "protocol", "method", "lab work"}},
	{intentHelp, []string{"help", "what can you do", "assist", "support", "guide"}},
}

var (
	molarityPattern = regexp.MustCompile(`(\d+\.?\d*)\s*M(?:olar)?`)
	volumePattern   = regexp.MustCompile(`(\d+\.?\d*)\s*mL?`)
)

var greetings = []string{
	"Hello! I'm LabMate AI, your intelligent laboratory assistant. How can I help you today?",
	"Hi there! I'm here to assist you with laboratory calculations, chemical information, and safety guidance.",
	"Welcome! I can help you with chemical calculations, MSDS lookups, experiment planning, and safety protocols.",
}

func classify(lower string) intent {
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.intent
			}
		}
	}
	return intentGeneral
}

func containsAny(s string, words ...string) bool {
	return slices.ContainsFunc(words, func(w string) bool { return strings.Contains(s, w) })
}

// rules answers without a language model.
type rules struct {
	calcStore  repo.CalculationRepo
	llmEnabled func() bool
}

func (r *rules) reply(ctx context.Context, userID int64, message string) string {
	lower := strings.ToLower(message)
	switch classify(lower) {
	case intentGreeting:
		return greetings[rand.N(len(greetings))]
	case intentCalculation:
		return r.calculation(ctx, userID, message)
	case intentChemical:
		return chemicalInfo(message)
	case intentSafety:
		return safetyInfo(message)
	case intentExperiment:
		return experimentHelp
	case intentHelp:
		return r.help()
	default:
		return generalTopic(lower)
	}
}

func (r *rules) calculation(ctx context.Context, userID int64, message string) string {
	var (
		found    *chemical.Chemical
		molarity []string
		volume   []string
	)
	if mentioned := chemical.Mentioned(message); len(mentioned) > 0 {
		found = &mentioned[0]
	}
	molarity = molarityPattern.FindStringSubmatch(message)
	volume = volumePattern.FindStringSubmatch(message)

	if found == nil || molarity == nil || volume == nil {
		missing := make([]string, 0, 3)
		if found == nil {
			missing = append(missing, "chemical name")
		}
		if molarity == nil {
			missing = append(missing, "molarity (e.g., 0.1M)")
		}
		if volume == nil {
			missing = append(missing, "volume (e.g., 100mL)")
		}
		return fmt.Sprintf("❌ I need more information. Please specify: %s.\n\nExample: 'Calculate 0.1M NaCl for 100mL'",
			strings.Join(missing, ", "))
	}

	m, err1 := strconv.ParseFloat(molarity[1], 64)
	v, err2 := strconv.ParseFloat(volume[1], 64)
	if err1 != nil || err2 != nil {
		return "❌ I couldn't parse the numbers. Please use format like '0.1M' and '100mL'."
	}

	res := chemical.Reagent(*found, m, v)
	if err := chemImpl.SaveReagentCalculation(ctx, r.calcStore, userID, res); err != nil {
		logger.Errorf(ctx, "chat save calculation user: %d err: %+v", userID, err)
	}

	var b strings.Builder
	b.WriteString("✅ **Calculation Complete!**\n\n")
	fmt.Fprintf(&b, "**Chemical:** %s (%s)\n", res.Reagent, res.Formula)
	fmt.Fprintf(&b, "**Molarity:** %s M\n", chemical.Number(m))
	fmt.Fprintf(&b, "**Volume:** %s mL\n", chemical.Number(v))
	fmt.Fprintf(&b, "**Mass needed:** %.4f g\n\n", res.MassNeeded)
	fmt.Fprintf(&b, "**Instructions:** %s", res.Instructions)
	return b.String()
}

func chemicalInfo(message string) string {
	found := chemical.Mentioned(message)
	if len(found) == 0 {
		names := chemical.Names()
		return "❌ I couldn't find that chemical in my database. Available chemicals include: " +
			strings.Join(names[:min(5, len(names))], ", ") + "..."
	}

	var b strings.Builder
	b.WriteString("🧪 **Chemical Information:**\n\n")
	for _, c := range found[:min(maxChemicalInfo, len(found))] {
		fmt.Fprintf(&b, "**%s** (%s)\n", c.Name, c.Formula)
		fmt.Fprintf(&b, "• Molar Mass: %s g/mol\n", strconv.FormatFloat(c.MolarMass, 'f', -1, 64))
		fmt.Fprintf(&b, "• Hazards: %s\n", strings.Join(c.Hazards, ", "))
		fmt.Fprintf(&b, "• Description: %s\n\n", c.Description)
	}
	if len(found) > maxChemicalInfo {
		fmt.Fprintf(&b, "... and %d more chemicals found.", len(found)-maxChemicalInfo)
	}
	return b.String()
}

var hazardAdvice = []struct {
	hazard string
	tips   []string
}{
	{"Corrosive", []string{"Wear protective gloves and eye protection", "Work in a fume hood if possible"}},
	{"Flammable", []string{"Keep away from heat sources and open flames", "Store in a cool, well-ventilated area"}},
	{"Toxic", []string{"Avoid inhalation and skin contact", "Use in well-ventilated area"}},
	{"Oxidizer", []string{"Keep away from flammable materials", "Store separately from reducing agents"}},
}

const generalSafety = "⚠️ **General Laboratory Safety Tips:**\n\n" +
	"• Always wear appropriate PPE (gloves, goggles, lab coat)\n" +
	"• Work in well-ventilated areas or fume hoods\n" +
	"• Never eat, drink, or smoke in the laboratory\n" +
	"• Know the location of safety equipment (eyewash, shower, fire extinguisher)\n" +
	"• Read MSDS sheets before using any chemical\n" +
	"• Dispose of chemicals according to regulations\n\n" +
	"Ask me about specific chemical safety information!"

func safetyInfo(message string) string {
	found := chemical.Mentioned(message)
	if len(found) == 0 {
		return generalSafety
	}
	c := found[0]
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ **Safety Information for %s:**\n\n", c.Name)
	fmt.Fprintf(&b, "**Hazards:** %s\n\n", strings.Join(c.Hazards, ", "))
	for _, a := range hazardAdvice {
		if !slices.Contains(c.Hazards, a.hazard) {
			continue
		}
		for _, tip := range a.tips {
			fmt.Fprintf(&b, "• %s\n", tip)
		}
	}
	return b.String()
}

const experimentHelp = "🧪 **Experiment Planning Assistance:**\n\n" +
	"I can help you with:\n" +
	"• Designing experimental procedures\n" +
	"• Calculating reagent amounts\n" +
	"• Safety considerations\n" +
	"• Equipment recommendations\n" +
	"• Data analysis guidance\n\n" +
	"Tell me about your experiment goals and I'll provide specific guidance!"

func (r *rules) help() string {
	status := "❌ AI assistant (Not Available)"
	if r.llmEnabled != nil && r.llmEnabled() {
		status = "✅ AI assistant"
	}
	return "🤖 **LabMate AI - What I Can Do:**\n\n" +
		"**AI Services:**\n" +
		"• " + status + " - Intelligent chemistry and laboratory assistance\n" +
		"• Fallback system - Basic rule-based responses\n\n" +
		"**Calculations:**\n" +
		"• Calculate reagent masses for specific concentrations\n" +
		"• Example: 'Calculate 0.1M NaCl for 100mL'\n\n" +
		"**Chemical Information:**\n" +
		"• Look up chemical properties and safety data\n" +
		"• Example: 'Tell me about sodium hydroxide'\n\n" +
		"**Safety Guidance:**\n" +
		"• Get safety information for specific chemicals\n" +
		"• Example: 'Safety info for sulfuric acid'\n\n" +
		"**Experiment Help:**\n" +
		"• Plan experiments and procedures\n" +
		"• Example: 'Help me plan a titration experiment'\n\n" +
		"**Your History:**\n" +
		"• Discuss your past experiments and calculations\n\n" +
		"Just ask me anything about chemistry or the lab!"
}

func generalTopic(lower string) string {
	switch {
	case containsAny(lower, "bond", "ionic", "covalent", "molecular"):
		return "🔬 **Chemical Bonds:**\n\n" +
			"**Ionic Bonds:**\n" +
			"• Formed between metals and non-metals\n" +
			"• Electrons are transferred completely\n" +
			"• Example: NaCl (sodium chloride)\n\n" +
			"**Covalent Bonds:**\n" +
			"• Formed between non-metals\n" +
			"• Electrons are shared\n" +
			"• Example: H₂O (water)\n\n" +
			"Would you like me to explain more about specific types of bonds?"
	case containsAny(lower, "ph", "acid", "base", "alkaline"):
		return "🧪 **pH and Acids/Bases:**\n\n" +
			"**pH Scale:**\n" +
			"• 0-6: Acidic\n" +
			"• 7: Neutral\n" +
			"• 8-14: Basic/Alkaline\n\n" +
			"**pH Calculation:**\n" +
			"• pH = -log[H⁺]\n" +
			"• pOH = -log[OH⁻]\n" +
			"• pH + pOH = 14\n\n" +
			"**Safety:** Always add acid to water, never water to acid!"
	case containsAny(lower, "titration", "indicator", "endpoint"):
		return "⚗️ **Titration Process:**\n\n" +
			"**Steps:**\n" +
			"1. Prepare standard solution\n" +
			"2. Add indicator\n" +
			"3. Slowly add titrant\n" +
			"4. Observe color change at endpoint\n" +
			"5. Calculate concentration\n\n" +
			"**Common Indicators:**\n" +
			"• Phenolphthalein (pink in base)\n" +
			"• Methyl orange (red in acid)\n\n" +
			"Need help with a specific titration calculation?"
	default:
		return "🤔 **I'd be happy to help with that!**\n\n" +
			"I can assist with:\n" +
			"• Chemistry concepts and reactions\n" +
			"• Laboratory procedures and techniques\n" +
			"• Safety guidelines and precautions\n" +
			"• Calculations and formulas\n" +
			"• Equipment usage\n\n" +
			"Could you be more specific about what you'd like to know? I'm here to help with any chemistry or laboratory question!"
	}
}
