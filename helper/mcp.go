package helper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// TimeLayout 通用时间格式
const TimeLayout = "2006-01-02 15:04:05"

// GetArgs 取出工具调用的参数表，支持嵌套在 "args" 下的写法
func GetArgs(req mcp.CallToolRequest) map[string]any {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	if nested, ok := args["args"].(map[string]any); ok {
		merged := make(map[string]any, len(args)+len(nested))
		for k, v := range args {
			merged[k] = v
		}
		for k, v := range nested {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		return merged
	}
	return args
}

// GetStringFromRequest 读取字符串参数，不存在或为空时返回 def
func GetStringFromRequest(req mcp.CallToolRequest, key string, def string) (string, bool) {
	if v, ok := GetArgs(req)[key].(string); ok && v != "" {
		return v, true
	}
	return def, false
}

// GetBoolFromRequest 读取布尔参数，接受 true/false 字符串和数字
func GetBoolFromRequest(req mcp.CallToolRequest, key string, def bool) (bool, bool) {
	switch v := GetArgs(req)[key].(type) {
	case bool:
		return v, true
	case string:
		if strings.EqualFold(v, "true") {
			return true, true
		}
		if strings.EqualFold(v, "false") {
			return false, true
		}
	case float64:
		return v != 0, true
	case int:
		return v != 0, true
	}
	return def, false
}

// GetStringSliceFromRequest 读取字符串数组参数，也接受逗号分隔的字符串
func GetStringSliceFromRequest(req mcp.CallToolRequest, key string) []string {
	var out []string
	switch v := GetArgs(req)[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// ToJSON 缩进格式的 JSON 文本
func ToJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
