package assoc

import (
	"regexp"

	"github.com/sageflow/ptbcodec/ptb/entity"
)

// Schema tunes the associator for one legacy file kind. The layouts differ
// between files, but all of them are walked with the same token/candidate
// machinery; only the knobs below change.
type Schema struct {
	Kind entity.Kind

	// SectionMarker is a recurring keyword observed to bracket record
	// boundaries in this file kind. Tokens matching it are never data, and
	// proximity to a marker breaks ties between competing role tokens.
	SectionMarker string

	// HasBalance is false for file kinds that carry no monetary field.
	HasBalance bool

	// HasCostPrice makes the associator read two candidates per record
	// (cost then price) instead of a single balance.
	HasCostPrice bool
}

// codePattern matches identifying codes: 4-6 digits with an optional
// decimal suffix, the shape of legacy account and record numbers.
var codePattern = regexp.MustCompile(`^\d{4,6}(?:\.\d+)?$`)

// SchemaFor returns the association schema for a file kind.
func SchemaFor(kind entity.Kind) Schema {
	switch kind {
	case entity.KindAccount:
		return Schema{Kind: kind, SectionMarker: "Account", HasBalance: true}
	case entity.KindCustomer:
		return Schema{Kind: kind, SectionMarker: "Customer", HasBalance: true}
	case entity.KindVendor:
		return Schema{Kind: kind, SectionMarker: "Vendor", HasBalance: true}
	case entity.KindItem:
		return Schema{Kind: kind, SectionMarker: "Item", HasBalance: true, HasCostPrice: true}
	case entity.KindAddress:
		return Schema{Kind: kind, SectionMarker: "Address"}
	default:
		return Schema{Kind: kind, HasBalance: true}
	}
}

// IsCode reports whether a token text has the identifying-code shape.
func IsCode(text string) bool {
	return codePattern.MatchString(text)
}
