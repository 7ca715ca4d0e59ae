// Package lang 提供命令行界面文本的本地化
package lang

import (
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sjzsdu/dirpilot/share"
	"golang.org/x/text/language"
)

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   language.Tag
	initOnce  sync.Once
)

func setup() {
	bundle = i18n.NewBundle(language.English)
	bundle.AddMessages(language.SimplifiedChinese, zhMessages()...)
	setLanguage(detect())
}

// detect 依次读取 DIRPILOT_LANG、LC_ALL、LANG
func detect() string {
	for _, key := range []string{share.PREFIX + "LANG", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "en"
}

// normalize 把 zh_CN.UTF-8 这类环境变量值转换为 BCP 47 标签
func normalize(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "_", "-")
}

func setLanguage(tag string) {
	parsed, err := language.Parse(normalize(tag))
	if err != nil {
		parsed = language.English
	}
	matcher := language.NewMatcher(bundle.LanguageTags())
	_, idx, _ := matcher.Match(parsed)
	mu.Lock()
	current = bundle.LanguageTags()[idx]
	localizer = i18n.NewLocalizer(bundle, current.String())
	mu.Unlock()
}

// SetLanguage 切换界面语言，未知语言回退为英文
func SetLanguage(tag string) {
	initOnce.Do(setup)
	setLanguage(tag)
}

// Current 当前界面语言
func Current() language.Tag {
	initOnce.Do(setup)
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T 翻译消息，消息本身即为 ID，没有译文时原样返回
func T(message string) string {
	initOnce.Do(setup)
	mu.RLock()
	l := localizer
	mu.RUnlock()

	out, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: message, Other: message},
	})
	// 缺少译文时 Localize 同时返回默认消息和 MessageNotFoundErr
	if out == "" && err != nil {
		return message
	}
	return out
}
