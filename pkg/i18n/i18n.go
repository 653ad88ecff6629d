package i18n

import (
	"encoding/json"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// 内置语言包，避免部署时携带 locales 目录
var localeEN = []byte(`{
  "sos.sent": "Emergency alert sent successfully",
  "sos.failed": "Failed to send emergency alert",
  "chat.rate_limited": "Too many messages. Please wait a few minutes before trying again.",
  "chat.failed": "Failed to process chat message",
  "auth.required": "Unauthorized",
  "prefs.updated": "Preferences updated"
}`)

var localeHI = []byte(`{
  "sos.sent": "आपातकालीन चेतावनी सफलतापूर्वक भेजी गई",
  "sos.failed": "आपातकालीन चेतावनी भेजने में विफल",
  "chat.rate_limited": "बहुत अधिक संदेश। कृपया कुछ मिनट प्रतीक्षा करें।",
  "chat.failed": "चैट संदेश संसाधित करने में विफल",
  "auth.required": "अनधिकृत",
  "prefs.updated": "प्राथमिकताएं अपडेट की गईं"
}`)

// I18nSupport 国际化支持结构体
type I18nSupport struct {
	bundle *i18n.Bundle
}

// NewI18nSupport 初始化国际化支持
func NewI18nSupport(defaultLang string) (*I18nSupport, error) {
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if _, err := bundle.ParseMessageFileBytes(localeEN, "en.json"); err != nil {
		return nil, err
	}
	if _, err := bundle.ParseMessageFileBytes(localeHI, "hi.json"); err != nil {
		return nil, err
	}

	return &I18nSupport{bundle: bundle}, nil
}

// T 获取翻译文本
func (i *I18nSupport) T(languageTag, key string, templateData map[string]interface{}) string {
	localizer := i18n.NewLocalizer(i.bundle, languageTag)

	translation, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
	})

	if err != nil {
		log.Printf("Error translating key %s: %v", key, err)
		return key // 返回键名作为默认值
	}

	return translation
}
