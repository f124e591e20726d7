// Package catalog holds the reference values shared by receipts and store
// services: stores, vendors, products, units of measure and codes.
package catalog

// Reference is a coded lookup value (receipt type, uom, category, charge,
// service ...).
type Reference struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// CodeValue lets form rules read the code of a held reference.
func (r *Reference) CodeValue() string {
	if r == nil {
		return ""
	}
	return r.Code
}

type Store struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

func (s *Store) CodeValue() string {
	if s == nil {
		return ""
	}
	return s.Code
}

type Vendor struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

func (v *Vendor) CodeValue() string {
	if v == nil {
		return ""
	}
	return v.Number
}

type Product struct {
	SapNumber           string     `json:"sapNumber"`
	Description         string     `json:"description,omitempty"`
	Uom                 *Reference `json:"uom,omitempty"`
	SecondLevelCategory *Reference `json:"secondLevelCategory,omitempty"`
}

func (p *Product) CodeValue() string {
	if p == nil {
		return ""
	}
	return p.SapNumber
}
