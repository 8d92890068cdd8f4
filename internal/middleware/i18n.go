// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

var (
	supportedLanguages = []language.Tag{language.Spanish, language.English}
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

// I18nMiddleware picks the response language from Accept-Language. Spanish
// is used when nothing matches.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := "es"
		if header := c.GetHeader("Accept-Language"); header != "" {
			if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
				_, index, confidence := languageMatcher.Match(tags...)
				if confidence != language.No {
					base, _ := supportedLanguages[index].Base()
					lang = base.String()
				}
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}
