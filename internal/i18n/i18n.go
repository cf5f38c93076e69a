package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleEsES = "es-ES"
	LocaleEnUS = "en-US"
)

var (
	supported = []language.Tag{language.MustParse(LocaleEsES), language.MustParse(LocaleEnUS)}
	matcher   = language.NewMatcher(supported)

	mu            sync.RWMutex
	defaultLocale = LocaleEsES
)

// SetDefaultLocale 设置默认语言（未知语言回退到 es-ES）
func SetDefaultLocale(locale string) {
	normalized := Normalize(locale)
	mu.Lock()
	defaultLocale = normalized
	mu.Unlock()
}

// DefaultLocale 当前默认语言
func DefaultLocale() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLocale
}

// Normalize 将任意语言标识归一化为受支持的语言
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale()
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return LocaleEsES
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return LocaleEsES
	}
	return supported[idx].String()
}

// ResolveLocale 按 ?lang、X-Locale、Accept-Language 的顺序解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale()
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Normalize(lang)
	}
	if lang := strings.TrimSpace(c.GetHeader("X-Locale")); lang != "" {
		return Normalize(lang)
	}
	accept := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if accept == "" {
		return DefaultLocale()
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale()
	}
	return supported[idx].String()
}

// T 翻译消息键，缺失时回退到西班牙语，再回退到键本身
func T(locale, key string) string {
	if msgs, ok := catalog[Normalize(locale)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[LocaleEsES][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
