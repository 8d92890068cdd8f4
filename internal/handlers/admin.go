// internal/handlers/admin.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/javajoker/kicks-catalog/internal/gateway"
	"github.com/javajoker/kicks-catalog/internal/i18n"
	"github.com/javajoker/kicks-catalog/internal/services"
	"github.com/javajoker/kicks-catalog/internal/store"
	"github.com/javajoker/kicks-catalog/internal/utils"
)

const imagesFormField = "images"

type AdminHandler struct {
	adminService *services.AdminService
	maxImageSize int64
}

func NewAdminHandler(adminService *services.AdminService, maxImageSize int64) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		maxImageSize: maxImageSize,
	}
}

// POST /v1/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	h.saveProduct(c, "")
}

// PUT /v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	h.saveProduct(c, c.Param("id"))
}

func (h *AdminHandler) saveProduct(c *gin.Context, id string) {
	lang := utils.GetLangFromContext(c)

	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.adminService.SaveProduct(c.Request.Context(), req.ToProduct(id))
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		case errors.Is(err, services.ErrUnknownBrand):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyBrandUnknown, req.Brand), nil)
		case errors.Is(err, gateway.ErrNotFound):
			utils.NotFoundResponse(c, "product")
		default:
			utils.InternalErrorResponse(c, err)
		}
		return
	}

	if id == "" {
		utils.CreatedResponse(c, gin.H{
			"message": i18n.T(lang, i18n.KeyProductCreated),
			"product": product,
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /v1/admin/products/:id?confirm=true
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if !confirmed(c) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyConfirmRequired), nil)
		return
	}

	if err := h.adminService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		utils.InternalErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /v1/admin/products/images (multipart, field "images")
func (h *AdminHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "form"), err.Error())
		return
	}

	headers := form.File[imagesFormField]
	files := make([]services.ImageFile, 0, len(headers))
	for _, header := range headers {
		if h.maxImageSize > 0 && header.Size > h.maxImageSize {
			utils.TooLargeResponse(c, i18n.T(lang, i18n.KeyFileTooLarge))
			return
		}

		f, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
			return
		}
		body, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
			return
		}
		files = append(files, services.ImageFile{Name: header.Filename, Body: body})
	}

	results, err := h.adminService.UploadProductImages(c.Request.Context(), files)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoImages), errors.Is(err, services.ErrFileTypeRejected), errors.Is(err, services.ErrEmptyFile):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
		case errors.Is(err, services.ErrFileTooLarge):
			utils.TooLargeResponse(c, i18n.T(lang, i18n.KeyFileTooLarge))
		default:
			utils.InternalErrorResponse(c, err)
		}
		return
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"urls":    urls,
		"files":   results,
	})
}

// POST /v1/admin/brands
func (h *AdminHandler) CreateBrand(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyBrandInvalid), utils.GetValidationErrors(err))
		return
	}

	if err := h.adminService.AddBrand(c.Request.Context(), req.Name); err != nil {
		if errors.Is(err, store.ErrInvalidBrandName) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyBrandInvalid), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBrandCreated),
	})
}

// DELETE /v1/admin/brands/:name?confirm=true
func (h *AdminHandler) DeleteBrand(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if !confirmed(c) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyConfirmRequired), nil)
		return
	}

	err := h.adminService.DeleteBrand(c.Request.Context(), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrBrandInUse):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyBrandInUse))
		case errors.Is(err, store.ErrInvalidBrandName):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyBrandInvalid), nil)
		case errors.Is(err, gateway.ErrNotFound):
			utils.NotFoundResponse(c, "brand")
		default:
			utils.InternalErrorResponse(c, err)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBrandDeleted),
	})
}

// PUT /v1/admin/sections
func (h *AdminHandler) UpdateSections(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SectionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySectionsInvalid), utils.GetValidationErrors(err))
		return
	}

	if err := h.adminService.UpdateSectionOrder(c.Request.Context(), req.Order); err != nil {
		if errors.Is(err, services.ErrInvalidSection) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySectionsInvalid), nil)
			return
		}
		utils.InternalErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySectionsUpdated),
		"order":   req.Order,
	})
}

// PUT /v1/admin/sections/move
func (h *AdminHandler) MoveSection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.adminService.MoveSection(c.Request.Context(), req.Index, req.Direction)
	if err != nil {
		if errors.Is(err, services.ErrSectionOutOfList) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySectionsInvalid), fmt.Sprintf("index %d", req.Index))
			return
		}
		utils.InternalErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySectionsUpdated),
		"order":   order,
	})
}

func confirmed(c *gin.Context) bool {
	ok, err := strconv.ParseBool(c.Query("confirm"))
	return err == nil && ok
}
