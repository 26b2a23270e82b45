// Package export serializes normalized entities into legacy-compatible
// members and packages them into a fresh container. The fixed-width layouts
// are simplified, human-legible renderings, not byte-exact Btrieve records;
// the decoder half keeps the exporter honest by round-tripping them.
package export

import (
	"github.com/sageflow/ptbcodec/ptb/entity"
	"github.com/shopspring/decimal"
)

// Column names one fixed-width field and its width in characters.
type Column struct {
	Name  string
	Width int
}

// Layout maps one entity kind onto a member name and its column set.
// Values are right-padded with spaces to the column width and truncated
// when longer.
type Layout struct {
	Member  string
	Columns []Column
}

const (
	colCode    = "code"
	colName    = "name"
	colContact = "contact"
	colCity    = "city"
	colCountry = "country"
	colClass   = "class"
	colBalance = "balance"
	colCredit  = "credit_limit"
	colCost    = "cost"
	colPrice   = "price"
	colActive  = "active"
)

// LayoutFor returns the fixed-width layout for a kind.
func LayoutFor(kind entity.Kind) Layout {
	switch kind {
	case entity.KindAccount:
		return Layout{Member: "CHART.DAT", Columns: []Column{
			{colCode, 12}, {colName, 40}, {colClass, 12}, {colBalance, 16}, {colActive, 1},
		}}
	case entity.KindCustomer:
		return Layout{Member: "CUSTOMER.DAT", Columns: []Column{
			{colCode, 12}, {colName, 40}, {colContact, 30}, {colCity, 20},
			{colCountry, 15}, {colBalance, 16}, {colCredit, 16}, {colActive, 1},
		}}
	case entity.KindVendor:
		return Layout{Member: "VENDOR.DAT", Columns: []Column{
			{colCode, 12}, {colName, 40}, {colContact, 30}, {colCity, 20},
			{colCountry, 15}, {colBalance, 16}, {colCredit, 16}, {colActive, 1},
		}}
	case entity.KindItem:
		return Layout{Member: "ITEMS.DAT", Columns: []Column{
			{colCode, 12}, {colName, 40}, {colCost, 14}, {colPrice, 14}, {colActive, 1},
		}}
	case entity.KindAddress:
		return Layout{Member: "ADDRESS.DAT", Columns: []Column{
			{colCode, 12}, {colName, 40}, {colContact, 30}, {colCity, 20}, {colCountry, 15},
		}}
	default:
		return Layout{Member: string(kind) + ".DAT", Columns: []Column{
			{colCode, 12}, {colName, 40}, {colBalance, 16},
		}}
	}
}

// Width returns the total record width excluding the line terminator.
func (l Layout) Width() int {
	n := 0
	for _, c := range l.Columns {
		n += c.Width
	}
	return n
}

// fieldValue renders one entity field as its column string.
func fieldValue(e entity.Entity, col string) string {
	switch col {
	case colCode:
		return e.Code
	case colName:
		return e.Name
	case colContact:
		return e.Contact
	case colCity:
		return e.City
	case colCountry:
		return e.Country
	case colClass:
		return e.Classification
	case colBalance:
		return e.Balance.StringFixed(2)
	case colCredit:
		return e.CreditLimit.StringFixed(2)
	case colCost:
		return e.Cost.StringFixed(2)
	case colPrice:
		return e.Price.StringFixed(2)
	case colActive:
		if e.Active {
			return "Y"
		}
		return "N"
	}
	return ""
}

// setField assigns one decoded column string back onto an entity.
func setField(e *entity.Entity, col, val string) {
	switch col {
	case colCode:
		e.Code = val
	case colName:
		e.Name = val
	case colContact:
		e.Contact = val
	case colCity:
		e.City = val
	case colCountry:
		e.Country = val
	case colClass:
		e.Classification = val
	case colBalance:
		e.Balance = parseMoney(val)
	case colCredit:
		e.CreditLimit = parseMoney(val)
	case colCost:
		e.Cost = parseMoney(val)
	case colPrice:
		e.Price = parseMoney(val)
	case colActive:
		e.Active = val != "N"
	}
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}
