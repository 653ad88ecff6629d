package middleware

import (
	"TourShield/pkg/i18n"

	"github.com/gin-gonic/gin"
)

func LanguageMiddleware(i18nSupport *i18n.I18nSupport) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求中的语言（从查询参数或头部）
		lang := c.DefaultQuery("lang", c.GetHeader("Accept-Language"))
		if lang != "en" && lang != "hi" {
			lang = "en" // 无效语言回退到英文
		}

		c.Set("lang", lang)
		c.Set("i18n", i18nSupport)
		c.Next()
	}
}
