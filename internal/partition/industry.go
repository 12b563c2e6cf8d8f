package partition

import (
	"sort"
	"strings"

	"github.com/sells-group/vendor-risk/internal/model"
)

// industryAliases maps normalized provider sector strings to the coarse
// sector enum. Providers disagree on naming, so the table carries the
// common spellings seen across them.
var industryAliases = map[string]model.IndustrySector{
	"technology":             model.SectorTechnology,
	"information technology": model.SectorTechnology,
	"tech":                   model.SectorTechnology,
	"software":               model.SectorTechnology,
	"semiconductors":         model.SectorTechnology,
	"hardware":               model.SectorTechnology,

	"healthcare":      model.SectorHealthcare,
	"health care":     model.SectorHealthcare,
	"pharmaceuticals": model.SectorHealthcare,
	"biotechnology":   model.SectorHealthcare,
	"medical devices": model.SectorHealthcare,

	"financial services": model.SectorFinancials,
	"financial":          model.SectorFinancials,
	"financials":         model.SectorFinancials,
	"banking":            model.SectorFinancials,
	"banks":              model.SectorFinancials,
	"insurance":          model.SectorFinancials,

	"energy":      model.SectorEnergy,
	"oil & gas":   model.SectorEnergy,
	"oil and gas": model.SectorEnergy,

	"industrials":         model.SectorIndustrials,
	"industrial":          model.SectorIndustrials,
	"manufacturing":       model.SectorIndustrials,
	"aerospace & defense": model.SectorIndustrials,
	"machinery":           model.SectorIndustrials,
	"transportation":      model.SectorIndustrials,

	"basic materials": model.SectorMaterials,
	"materials":       model.SectorMaterials,
	"chemicals":       model.SectorMaterials,
	"mining":          model.SectorMaterials,
	"metals":          model.SectorMaterials,

	"consumer cyclical":      model.SectorConsumer,
	"consumer defensive":     model.SectorConsumer,
	"consumer discretionary": model.SectorConsumer,
	"consumer staples":       model.SectorConsumer,
	"consumer goods":         model.SectorConsumer,
	"retail":                 model.SectorConsumer,

	"utilities": model.SectorUtilities,
	"utility":   model.SectorUtilities,

	"real estate": model.SectorRealEstate,
	"reit":        model.SectorRealEstate,

	"communication services": model.SectorCommunications,
	"communications":         model.SectorCommunications,
	"telecom":                model.SectorCommunications,
	"telecommunications":     model.SectorCommunications,
	"media":                  model.SectorCommunications,
}

// ResolveIndustry maps a raw provider sector string to a sector enum.
// Resolution order: exact alias match, substring fuzzy match, then direct
// enum match. Unknown is the default, never an error.
func ResolveIndustry(raw string) model.IndustrySector {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" {
		return model.SectorUnknown
	}

	if sector, ok := industryAliases[norm]; ok {
		return sector
	}

	// Sorted iteration keeps fuzzy resolution deterministic when more than
	// one alias would match.
	for _, alias := range sortedAliases() {
		if strings.Contains(norm, alias) || strings.Contains(alias, norm) {
			return industryAliases[alias]
		}
	}

	switch s := model.IndustrySector(norm); s {
	case model.SectorTechnology, model.SectorHealthcare, model.SectorFinancials,
		model.SectorEnergy, model.SectorIndustrials, model.SectorMaterials,
		model.SectorConsumer, model.SectorUtilities, model.SectorRealEstate,
		model.SectorCommunications:
		return s
	}

	return model.SectorUnknown
}

var aliasOrder = func() []string {
	out := make([]string, 0, len(industryAliases))
	for alias := range industryAliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}()

func sortedAliases() []string {
	return aliasOrder
}
