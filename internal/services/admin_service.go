// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/catalog"
	"github.com/javajoker/kicks-catalog/internal/models"
	"github.com/javajoker/kicks-catalog/internal/store"
	"github.com/javajoker/kicks-catalog/internal/utils"
)

var (
	ErrUnknownBrand     = errors.New("brand does not exist")
	ErrInvalidSection   = errors.New("section order contains blank or repeated entries")
	ErrNoImages         = errors.New("no images to upload")
	ErrSectionOutOfList = errors.New("section index is out of range")
)

type ImageUploader interface {
	UploadProductImage(ctx context.Context, filename string, body []byte) (*UploadResult, error)
}

type ImageFile struct {
	Name string
	Body []byte
}

type ProductRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Brand        string   `json:"brand" validate:"required,max=100"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" validate:"gte=0"`
	Images       []string `json:"images" validate:"dive,url"`
	IsBestSeller bool     `json:"isBestSeller"`
	IsMale       bool     `json:"isMale"`
	IsFemale     bool     `json:"isFemale"`
}

func (r *ProductRequest) ToProduct(id string) models.Product {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return models.Product{
		ID:           id,
		Name:         strings.TrimSpace(r.Name),
		Brand:        r.Brand,
		Description:  r.Description,
		Price:        r.Price,
		Images:       images,
		IsBestSeller: r.IsBestSeller,
		IsMale:       r.IsMale,
		IsFemale:     r.IsFemale,
	}
}

type BrandRequest struct {
	Name string `json:"name" validate:"required,brand_name"`
}

type SectionOrderRequest struct {
	Order []string `json:"order" validate:"unique,dive,required"`
}

type MoveSectionRequest struct {
	Index     int    `json:"index" validate:"gte=0"`
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// AdminService carries out back-office actions. It keeps the section order
// in step with brand additions and removals.
type AdminService struct {
	products *store.ProductStore
	brands   *store.BrandStore
	sections *store.SectionStore
	uploader ImageUploader
}

func NewAdminService(products *store.ProductStore, brands *store.BrandStore, sections *store.SectionStore, uploader ImageUploader) *AdminService {
	return &AdminService{
		products: products,
		brands:   brands,
		sections: sections,
		uploader: uploader,
	}
}

// SaveProduct creates the product when it has no id and updates it otherwise.
func (s *AdminService) SaveProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !slices.Contains(s.brands.Brands(), p.Brand) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBrand, p.Brand)
	}

	if p.ID == "" {
		return s.products.Add(ctx, p)
	}
	return s.products.Update(ctx, p)
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *AdminService) UploadProductImages(ctx context.Context, files []ImageFile) ([]UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	results := make([]UploadResult, 0, len(files))
	for _, f := range files {
		res, err := s.uploader.UploadProductImage(ctx, f.Name, f.Body)
		if err != nil {
			return results, fmt.Errorf("failed to upload %s: %w", f.Name, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

// AddBrand creates the brand and appends it to the section order when it is
// not listed yet. A failure to save the order does not fail the call.
func (s *AdminService) AddBrand(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := s.brands.Add(ctx, name); err != nil {
		return err
	}

	order := s.sections.Order()
	if slices.Contains(order, name) {
		return nil
	}
	if err := s.sections.Update(ctx, append(order, name)); err != nil {
		logrus.WithError(err).WithField("brand", name).Warn("Brand added but section order was not saved")
	}
	return nil
}

// DeleteBrand removes the brand and every occurrence of it in the section
// order. The order is only saved when it changed.
func (s *AdminService) DeleteBrand(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := s.brands.Delete(ctx, name); err != nil {
		return err
	}

	order := s.sections.Order()
	next := slices.DeleteFunc(slices.Clone(order), func(title string) bool { return title == name })
	if len(next) == len(order) {
		return nil
	}
	if err := s.sections.Update(ctx, next); err != nil {
		logrus.WithError(err).WithField("brand", name).Warn("Brand deleted but section order was not saved")
	}
	return nil
}

func (s *AdminService) UpdateSectionOrder(ctx context.Context, order []string) error {
	seen := make(map[string]struct{}, len(order))
	for _, title := range order {
		if strings.TrimSpace(title) == "" {
			return ErrInvalidSection
		}
		if _, dup := seen[title]; dup {
			return ErrInvalidSection
		}
		seen[title] = struct{}{}
	}
	if order == nil {
		order = []string{}
	}
	return s.sections.Update(ctx, order)
}

// MoveSection shifts one entry up or down and saves the result.
func (s *AdminService) MoveSection(ctx context.Context, index int, direction string) ([]string, error) {
	order := s.sections.Order()
	if index < 0 || index >= len(order) {
		return nil, ErrSectionOutOfList
	}

	step := 1
	if direction == "up" {
		step = -1
	}
	next := catalog.MoveSection(order, index, step)
	if slices.Equal(next, order) {
		return order, nil
	}

	if err := s.sections.Update(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
