package entity

import (
	"strings"

	"github.com/armon/go-radix"
)

// Account classifications inferred from the legacy chart-of-accounts number
// ranges: 1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx revenue, 5xxx and
// above expenses.
const (
	ClassAsset     = "ASSET"
	ClassLiability = "LIABILITY"
	ClassEquity    = "EQUITY"
	ClassRevenue   = "REVENUE"
	ClassExpense   = "EXPENSE"
)

// Classifier maps account-number prefixes to classifications using a radix
// tree, so longer, more specific prefixes can be layered on top of the
// single-digit defaults without changing lookup code.
type Classifier struct {
	tree *radix.Tree
}

// NewClassifier builds a classifier seeded with the standard legacy ranges.
func NewClassifier() *Classifier {
	t := radix.New()
	t.Insert("1", ClassAsset)
	t.Insert("2", ClassLiability)
	t.Insert("3", ClassEquity)
	t.Insert("4", ClassRevenue)
	for _, p := range []string{"5", "6", "7", "8", "9"} {
		t.Insert(p, ClassExpense)
	}
	return &Classifier{tree: t}
}

// AddRange overrides the classification for a specific account-number prefix.
func (c *Classifier) AddRange(prefix, class string) {
	c.tree.Insert(prefix, class)
}

// Classify infers the classification from the leading digits of an account
// code. Separators are ignored. Unknown or non-numeric codes default to
// ASSET, matching the legacy product's behavior.
func (c *Classifier) Classify(code string) string {
	code = strings.NewReplacer(".", "", "-", "", " ", "").Replace(code)
	if code == "" {
		return ClassAsset
	}
	if _, v, ok := c.tree.LongestPrefix(code); ok {
		return v.(string)
	}
	return ClassAsset
}
