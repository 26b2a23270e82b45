package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the normalized record categories recovered from a
// legacy backup container.
type Kind string

const (
	KindAccount  Kind = "account"
	KindCustomer Kind = "customer"
	KindVendor   Kind = "vendor"
	KindItem     Kind = "item"
	KindAddress  Kind = "address"
)

// Kinds returns the declared iteration order for entity kinds. Decoded
// members are always merged in this order, never in completion order, so
// engine output stays deterministic regardless of worker scheduling.
func Kinds() []Kind {
	return []Kind{KindAccount, KindCustomer, KindVendor, KindItem, KindAddress}
}

// CodePrefix returns the prefix used when an identifying code has to be
// synthesized because the source data carried none.
func (k Kind) CodePrefix() string {
	switch k {
	case KindAccount:
		return "ACCT"
	case KindCustomer:
		return "CUST"
	case KindVendor:
		return "VEND"
	case KindItem:
		return "ITEM"
	case KindAddress:
		return "ADDR"
	default:
		return "REC"
	}
}

// Entity is one flat normalized business record. Which fields are populated
// depends on the kind: accounts carry a classification, items carry cost and
// price, contact fields only survive a fixed-width round trip (the binary
// heuristics cannot place them reliably).
type Entity struct {
	Kind           Kind            `json:"kind"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Contact        string          `json:"contact,omitempty"`
	City           string          `json:"city,omitempty"`
	Country        string          `json:"country,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Cost           decimal.Decimal `json:"cost"`
	Price          decimal.Decimal `json:"price"`
	Classification string          `json:"classification,omitempty"`
	Active         bool            `json:"active"`
}

// Money normalizes a raw extracted float into a two-decimal monetary value.
// Every monetary field on an assembled entity goes through this so callers
// never see raw floating noise.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// SynthesizeCode builds the placeholder identifying code for the idx-th
// (1-based) record of a kind.
func SynthesizeCode(k Kind, idx int) string {
	return fmt.Sprintf("%s%d", k.CodePrefix(), idx)
}
