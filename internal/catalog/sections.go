// Package catalog derives what the storefront shows from the current
// products, brands and section order. Nothing here performs I/O.
package catalog

import (
	"slices"

	"github.com/javajoker/kicks-catalog/internal/models"
)

type Section struct {
	Title    string           `json:"title"`
	Products []models.Product `json:"products"`
}

func BestSellers(products []models.Product) []models.Product {
	return filter(products, func(p models.Product) bool { return p.IsBestSeller })
}

func MaleCatalog(products []models.Product) []models.Product {
	return filter(products, func(p models.Product) bool { return p.IsMale })
}

func FemaleCatalog(products []models.Product) []models.Product {
	return filter(products, func(p models.Product) bool { return p.IsFemale })
}

// ByBrand groups products under each known brand. Every brand gets an entry,
// even when it has no products.
func ByBrand(products []models.Product, brands []string) map[string][]models.Product {
	groups := make(map[string][]models.Product, len(brands))
	for _, brand := range brands {
		groups[brand] = filter(products, func(p models.Product) bool { return p.Brand == brand })
	}
	return groups
}

// Hero returns the products featured in the home page carousel.
func Hero(products []models.Product) []models.Product {
	return BestSellers(products)
}

// BuildSections resolves each entry of the order into a section. A section
// is kept when it has products, is one of the fixed sections, or names a
// known brand. Products of brands that are not known are never grouped.
func BuildSections(products []models.Product, brands []string, order []string) []Section {
	byBrand := ByBrand(products, brands)
	sections := make([]Section, 0, len(order))

	for _, title := range order {
		var items []models.Product
		switch title {
		case models.SectionBestSellers:
			items = BestSellers(products)
		case models.SectionMaleCatalog:
			items = MaleCatalog(products)
		case models.SectionFemaleCatalog:
			items = FemaleCatalog(products)
		default:
			items = byBrand[title]
		}
		if items == nil {
			items = []models.Product{}
		}

		if len(items) > 0 || models.IsFixedSection(title) || slices.Contains(brands, title) {
			sections = append(sections, Section{Title: title, Products: items})
		}
	}
	return sections
}

// MoveSection swaps the entry at index with its neighbour. direction is
// negative to move up and positive to move down. Moves that would leave the
// list return an unchanged copy.
func MoveSection(order []string, index, direction int) []string {
	out := slices.Clone(order)
	if direction == 0 || index < 0 || index >= len(out) {
		return out
	}

	target := index + 1
	if direction < 0 {
		target = index - 1
	}
	if target < 0 || target >= len(out) {
		return out
	}

	out[index], out[target] = out[target], out[index]
	return out
}

func filter(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
