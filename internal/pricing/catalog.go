package pricing

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack models a purchasable orb bundle in the store.
type Pack struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Orbs        int    `yaml:"orbs" json:"orbs"`                                     // base orbs granted
	BonusOrbs   int    `yaml:"bonus_orbs,omitempty" json:"bonus_orbs,omitempty"`     // permanent extra orbs
	FirstTimeX2 bool   `yaml:"first_time_x2,omitempty" json:"first_time_x2,omitempty"` // first purchase doubles Orbs (not BonusOrbs)
	PriceCents  int    `yaml:"price_cents" json:"price_cents"`
}

// Catalog is a regional store with tax info.
type Catalog struct {
	Name     string `yaml:"name" json:"name"`
	Currency string `yaml:"currency" json:"currency"` // ISO code, e.g. "USD"
	// Applied on the subtotal; set 0 when prices already include tax.
	TaxRate float64 `yaml:"tax_rate" json:"tax_rate"`
	Packs   []Pack  `yaml:"packs" json:"packs"`
}

// FirstTimeState describes per-pack first-time eligibility.
type FirstTimeState map[string]bool // packID -> true if first-time x2 is still available

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases  []Purchase `json:"purchases"`
	SubCents   int        `json:"sub_cents"` // subtotal before tax
	TaxCents   int        `json:"tax_cents"`
	TotalCents int        `json:"total_cents"`
	TotalOrbs  int        `json:"total_orbs"`
	Currency   string     `json:"currency"`
}

// Purchase is one line item in the plan.
type Purchase struct {
	PackID    string `json:"pack_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"` // cents
	UnitOrbs  int    `json:"unit_orbs"`  // orbs per unit in this plan (x2/bonus applied)
	Subtotal  int    `json:"subtotal"`   // cents
}

//go:embed default_catalog.yaml
var defaultCatalog []byte

// DefaultCatalog returns the bundled orb store.
func DefaultCatalog() Catalog {
	cat, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return cat
}

// LoadCatalog reads a catalog YAML file.
func LoadCatalog(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := ParseCatalog(b)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

func ParseCatalog(b []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(b, &cat); err != nil {
		return Catalog{}, err
	}
	return cat, cat.Validate()
}

// Validate checks that every pack grants orbs for a positive price.
func (c Catalog) Validate() error {
	var errs []error
	if len(c.Packs) == 0 {
		errs = append(errs, errors.New("catalog has no packs"))
	}
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		errs = append(errs, fmt.Errorf("tax_rate must be in [0,1), got %v", c.TaxRate))
	}
	seen := map[string]bool{}
	for i, p := range c.Packs {
		if p.ID == "" || seen[p.ID] {
			errs = append(errs, fmt.Errorf("packs[%d]: id must be unique and non-empty", i))
		}
		seen[p.ID] = true
		if p.Orbs+p.BonusOrbs <= 0 {
			errs = append(errs, fmt.Errorf("packs[%d]: must grant orbs", i))
		}
		if p.PriceCents <= 0 {
			errs = append(errs, fmt.Errorf("packs[%d]: price_cents must be > 0", i))
		}
	}
	return errors.Join(errs...)
}

// applyTax computes tax and total given a subtotal and a tax rate.
func applyTax(sub int, taxRate float64) (tax int, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}
