// internal/models/mapping.go
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var rowValidator = validator.New()

// ProductMutableColumns lists the columns an update may write. The id and
// created_at columns are assigned by the backend and never change.
var ProductMutableColumns = []string{
	"name",
	"brand",
	"description",
	"price",
	"images",
	"is_best_seller",
	"is_male",
	"is_female",
}

var ErrMissingSectionOrder = errors.New("section order is not set")

// ToRow converts the mutable part of a product to its stored shape.
func ToRow(p Product) ProductRow {
	return ProductRow{
		Name:         p.Name,
		Brand:        p.Brand,
		Description:  p.Description,
		Price:        p.Price,
		Images:       slices.Clone(p.Images),
		IsBestSeller: p.IsBestSeller,
		IsMale:       p.IsMale,
		IsFemale:     p.IsFemale,
	}
}

// FromRow converts a stored row into a product, rejecting rows that do not
// satisfy the products schema.
func FromRow(row ProductRow) (Product, error) {
	if err := rowValidator.Struct(row); err != nil {
		return Product{}, fmt.Errorf("invalid product row %q: %w", row.ID, err)
	}

	return Product{
		ID:           row.ID,
		Name:         row.Name,
		Brand:        row.Brand,
		Description:  row.Description,
		Price:        row.Price,
		Images:       slices.Clone(row.Images),
		IsBestSeller: row.IsBestSeller,
		IsMale:       row.IsMale,
		IsFemale:     row.IsFemale,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// DecodeSectionOrder parses the section_order column. A missing value, JSON
// null or anything other than an array of strings is an error.
func DecodeSectionOrder(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrMissingSectionOrder
	}

	var order []string
	if err := json.Unmarshal(trimmed, &order); err != nil {
		return nil, fmt.Errorf("malformed section order: %w", err)
	}
	if order == nil {
		return nil, ErrMissingSectionOrder
	}
	return order, nil
}

func EncodeSectionOrder(order []string) ([]byte, error) {
	if order == nil {
		order = []string{}
	}
	return json.Marshal(order)
}
