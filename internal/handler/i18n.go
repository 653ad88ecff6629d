package handlers

import (
	"TourShield/pkg/i18n"

	"github.com/gin-gonic/gin"
)

// translate 取当前请求语言的文案，未启用 i18n 时退回默认文案
func translate(c *gin.Context, key, fallback string) string {
	v, ok := c.Get("i18n")
	if !ok {
		return fallback
	}
	support, ok := v.(*i18n.I18nSupport)
	if !ok {
		return fallback
	}
	lang := c.GetString("lang")
	if lang == "" {
		lang = "en"
	}
	if msg := support.T(lang, key, nil); msg != key {
		return msg
	}
	return fallback
}
