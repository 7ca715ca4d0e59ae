package prompt

import "strings"

// 内置提示词名称
const (
	Overview    = "overview"
	AskOverview = "ask_overview"
	Plan        = "plan"
	Revise      = "revise"
	Edit        = "edit"
	Ask         = "ask"
	Digest      = "digest"
	Code        = "code"
)

// 回复语言指令
var languageMap = map[string]string{
	"zh":      "你需要用中文语言回复。",
	"cn":      "你需要用中文语言回复。",
	"zh-CN":   "你需要用中文语言回复。",
	"en":      "Please respond in English.",
	"english": "Please respond in English.",
	"jp":      "日本語で返信してください。",
	"ja":      "日本語で返信してください。",
	"kr":      "한국어로 응답해 주세요.",
	"ko":      "한국어로 응답해 주세요.",
	"fr":      "Veuillez répondre en français.",
	"de":      "Bitte antworten Sie auf Deutsch.",
	"es":      "Por favor, responda en español.",
	"ru":      "Пожалуйста, ответьте на русском языке.",
}

// LanguageDirective 返回语言指令，未知语言返回空串
func LanguageDirective(lang string) string {
	if d, ok := languageMap[lang]; ok {
		return d
	}
	return languageMap[strings.ToLower(lang)]
}

// WithLanguage 在提示词末尾追加语言指令
func WithLanguage(text, lang string) string {
	d := LanguageDirective(lang)
	if d == "" || lang == "en" || lang == "english" {
		return text
	}
	return text + "\n\n" + d
}

// Vars 构造渲染变量的简写
type Vars map[string]any

// Render 使用默认管理器渲染
func Render(name string, vars Vars) (string, error) {
	return Default().Render(name, vars)
}
