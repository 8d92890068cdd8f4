// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthPasswordUpdated    = "auth.password_updated"
	KeyAuthPasswordTooShort   = "auth.password_too_short"
	KeyAuthPasswordMismatch   = "auth.password_mismatch"

	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	// Brands
	KeyBrandCreated  = "brand.created"
	KeyBrandDeleted  = "brand.deleted"
	KeyBrandInUse    = "brand.in_use"
	KeyBrandInvalid  = "brand.invalid"
	KeyBrandUnknown  = "brand.unknown"
	KeyBrandNotFound = "brand.not_found"

	// Sections
	KeySectionsUpdated = "sections.updated"
	KeySectionsInvalid = "sections.invalid"

	// Admin
	KeyConfirmRequired = "admin.confirm_required"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Rate limiting
	KeyRateLimited = "rate.limited"

	KeyInternalError = "server.internal_error"
)
