package model

// RiskCategory is one of the four scoring partitions.
type RiskCategory string

const (
	CategoryFinancial    RiskCategory = "financial"
	CategoryOperational  RiskCategory = "operational"
	CategoryGeographical RiskCategory = "geographical"
	CategoryEthical      RiskCategory = "ethical"
)

// RiskCategories lists the four scoring categories in display order.
var RiskCategories = []RiskCategory{
	CategoryFinancial,
	CategoryOperational,
	CategoryGeographical,
	CategoryEthical,
}

// Label returns the human-readable name for a category.
func (c RiskCategory) Label() string {
	switch c {
	case CategoryFinancial:
		return "Financial Health"
	case CategoryOperational:
		return "Operational Stability"
	case CategoryGeographical:
		return "Geographic Exposure"
	case CategoryEthical:
		return "Ethical & Regulatory"
	}
	return string(c)
}

// IndustrySector is the coarse sector a company resolves into via the
// alias table. Unknown is a valid outcome, not an error.
type IndustrySector string

const (
	SectorTechnology     IndustrySector = "technology"
	SectorHealthcare     IndustrySector = "healthcare"
	SectorFinancials     IndustrySector = "financials"
	SectorEnergy         IndustrySector = "energy"
	SectorIndustrials    IndustrySector = "industrials"
	SectorMaterials      IndustrySector = "materials"
	SectorConsumer       IndustrySector = "consumer"
	SectorUtilities      IndustrySector = "utilities"
	SectorRealEstate     IndustrySector = "real_estate"
	SectorCommunications IndustrySector = "communications"
	SectorUnknown        IndustrySector = "unknown"
)

// Variable is a single named, numeric, category- and industry-tagged data
// point. Value is always finite; absent or non-finite source fields are
// dropped by the partitioner rather than coerced to zero.
type Variable struct {
	Name     string         `json:"name"`
	Value    float64        `json:"value"`
	Category RiskCategory   `json:"category"`
	Industry IndustrySector `json:"industry"`
}

// PartitionedVariables is every quantitative field extracted from one run,
// split by scoring category.
type PartitionedVariables struct {
	Company      CompanyIdentifier `json:"company"`
	Industry     IndustrySector    `json:"industry"`
	Financial    []Variable        `json:"financial"`
	Operational  []Variable        `json:"operational"`
	Geographical []Variable        `json:"geographical"`
	Ethical      []Variable        `json:"ethical"`
}

// ByCategory returns the variable slice for the given category.
func (p PartitionedVariables) ByCategory(c RiskCategory) []Variable {
	switch c {
	case CategoryFinancial:
		return p.Financial
	case CategoryOperational:
		return p.Operational
	case CategoryGeographical:
		return p.Geographical
	case CategoryEthical:
		return p.Ethical
	}
	return nil
}

// Total returns the count of variables across all four categories.
func (p PartitionedVariables) Total() int {
	return len(p.Financial) + len(p.Operational) + len(p.Geographical) + len(p.Ethical)
}
