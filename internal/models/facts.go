package models

// Facts holds structured factual fields pulled from cleaned text. Every field
// is a deduplicated set of strings; empty sets are valid (no facts found).
type Facts struct {
	Leverage        []string `json:"leverage"`
	Spreads         []string `json:"spreads"`
	Commissions     []string `json:"commissions"`
	MinimumDeposits []string `json:"minimum_deposits"`
	Regulations     []string `json:"regulations"`
	AccountTypes    []string `json:"account_types"`
	Platforms       []string `json:"platforms"`
	Instruments     []string `json:"instruments"`
	ContactInfo     []string `json:"contact_info"`
	ProcessingTimes []string `json:"processing_times"`
}

// FactFieldOrder is the canonical field enumeration order, used wherever
// fact fields are iterated (overlap scoring, consolidated index output).
var FactFieldOrder = []string{
	"leverage",
	"spreads",
	"commissions",
	"minimum_deposits",
	"regulations",
	"account_types",
	"platforms",
	"instruments",
	"contact_info",
	"processing_times",
}

// Field returns the values for the named fact field, or nil for an unknown name.
func (f *Facts) Field(name string) []string {
	switch name {
	case "leverage":
		return f.Leverage
	case "spreads":
		return f.Spreads
	case "commissions":
		return f.Commissions
	case "minimum_deposits":
		return f.MinimumDeposits
	case "regulations":
		return f.Regulations
	case "account_types":
		return f.AccountTypes
	case "platforms":
		return f.Platforms
	case "instruments":
		return f.Instruments
	case "contact_info":
		return f.ContactInfo
	case "processing_times":
		return f.ProcessingTimes
	}
	return nil
}

// SetField replaces the values for the named fact field. Unknown names are ignored.
func (f *Facts) SetField(name string, values []string) {
	switch name {
	case "leverage":
		f.Leverage = values
	case "spreads":
		f.Spreads = values
	case "commissions":
		f.Commissions = values
	case "minimum_deposits":
		f.MinimumDeposits = values
	case "regulations":
		f.Regulations = values
	case "account_types":
		f.AccountTypes = values
	case "platforms":
		f.Platforms = values
	case "instruments":
		f.Instruments = values
	case "contact_info":
		f.ContactInfo = values
	case "processing_times":
		f.ProcessingTimes = values
	}
}

// Empty reports whether no fact field has any value.
func (f *Facts) Empty() bool {
	for _, name := range FactFieldOrder {
		if len(f.Field(name)) > 0 {
			return false
		}
	}
	return true
}
