package lang

import "github.com/nicksnyder/go-i18n/v2/i18n"

var zh = map[string]string{
	// 会话
	"Thinking":                              "思考中",
	"Session terminated, thanks for using!": "会话结束，感谢使用！",
	"Error processing input":                "处理输入时出错",
	"Unknown command: %s":                   "未知命令: %s",
	"Please enter y or n: ":                 "请输入 y 或 n: ",
	"Error reading from editor":             "从编辑器读取内容失败",
	"Commands":                              "命令",
	"Warning":                               "警告",
	"Conversation history cleared.":         "对话历史已清空。",
	"Start chatting.":                       "开始对话吧。",
	"Ask anything about the directory.":     "可以询问关于该目录的任何问题。",
	"Describe the change you want to make.": "请描述你想做的修改。",
	"Loading %s ...":                        "正在加载 %s ...",
	"%d files loaded from %s":               "已从 %[2]s 加载 %[1]d 个文件",
	"%d files loaded:":                      "已加载 %d 个文件:",

	// 编辑与版本
	"Proposed plan:": "修改计划:",
	"Apply this plan? (y/n, or describe a change): ": "是否执行该计划？(y/n，或直接描述需要调整的地方): ",
	"Plan discarded.":                        "计划已放弃。",
	"Generating file changes...":             "正在生成文件修改...",
	"No file changes found in the response.": "回复中没有找到文件修改。",
	"No files were written.":                 "没有写入任何文件。",
	"Directory modified. %d file(s) updated. Saved as version %d.": "目录已修改，更新了 %d 个文件，已保存为版本 %d。",
	"Reverted to version %d.":        "已回退到版本 %d。",
	"Already at the oldest version.": "已经是最早的版本。",
	"Moved forward to version %d.":   "已前进到版本 %d。",
	"Already at the latest version.": "已经是最新的版本。",
	"initial snapshot (%d files)":    "初始快照（%d 个文件）",
	"Usage: /show <version>":         "用法: /show <版本号>",
	"No such version: %d.":           "不存在版本 %d。",
	"Version %d, saved %s":           "版本 %d，保存于 %s",
	"Found an existing version history: %d versions, currently at version %d.": "发现已有的版本历史：共 %d 个版本，当前为版本 %d。",

	// 命令说明
	"Directory-aware AI assistant": "面向目录的 AI 助手",
	"Chat, digest directories, ask about them and edit them with a version history": "对话、生成目录摘要、针对目录问答，以及带版本历史的目录编辑",
	"Invalid arguments":               "无效参数",
	"Glob patterns to exclude":        "要排除的 glob 模式",
	"Debug mode":                      "调试模式",
	"Interface and response language": "界面与回复语言",
	"Invalid configuration":           "配置无效",
	"Pack a directory into a single digest file": "把目录打包为单个摘要文件",
	"Read a directory, a single file or a git repository and write its tree and file contents into one text, markdown or PDF file": "读取目录、单个文件或 git 仓库，把目录树和文件内容写入一个文本、Markdown 或 PDF 文件",
	"Output file name":                "输出文件名",
	"Do not print the directory tree": "不打印目录树",
	"Digest written to %s":            "摘要已写入 %s",
	"Ask questions about a directory": "针对目录提问",
	"Load every text file of a directory as context and answer questions about it without changing anything": "把目录中的所有文本文件作为上下文回答问题，不修改任何文件",
	"Skip the initial project overview":     "跳过启动时的项目概览",
	"Plan and apply changes to a directory": "规划并应用目录修改",
	"Load a directory as context, propose a plan for each request, write the generated files after confirmation and keep every change in a version history": "把目录作为上下文，为每个请求给出计划，确认后写入生成的文件，并把每次修改记入版本历史",
	"What a commit after revert does to newer versions: keep or truncate": "回退后再提交时如何处理较新的版本：keep 或 truncate",
	"Inspect and move along the version history of a directory":           "查看并切换目录的版本历史",
	"List saved versions":          "列出已保存的版本",
	"Restore the previous version": "恢复到上一个版本",
	"Move to the next version":     "前进到下一个版本",
	"Chat with the model":          "与模型对话",
	"Free conversation with history. With --code answers are code only, with --digest questions are answered from a digest of a directory, file or git repository": "保留历史的自由对话。使用 --code 时只回答代码，使用 --digest 时基于目录、文件或 git 仓库的摘要回答",
	"Answer with code only": "只回答代码",
	"Chat about the digest of a directory, file or git URL": "基于目录、文件或 git 地址的摘要对话",
	"Print version information":                     "打印版本信息",
	"Print detailed version information of dirpilot": "打印 dirpilot 的详细版本信息",
	"dirpilot version":                              "dirpilot 版本",
	"MCP Server":                                    "MCP 服务器",
	"Serve the digest and version history operations as MCP tools": "以 MCP 工具的形式提供摘要与版本历史操作",
	"Transport: stdio, http or sse (default stdio)":                "传输方式：stdio、http 或 sse（默认 stdio）",
	"Port for the http and sse transports":                         "http 与 sse 传输使用的端口",
	"Serving MCP over HTTP on port %s":                             "通过 HTTP 在端口 %s 提供 MCP 服务",
	"Serving MCP over SSE on port %s":                              "通过 SSE 在端口 %s 提供 MCP 服务",
	"Unknown transport: %s":                                        "未知的传输方式: %s",

	// 配置
	"Set config":                          "设置配置",
	"Set global configuration":            "设置全局配置",
	"List all configurations":             "列出所有配置",
	"Remove the given configuration keys": "删除指定的配置项",
	"Remove all configurations":           "删除所有配置",
	"Remove all configurations? (y/n): ":  "确定删除所有配置？(y/n): ",
	"Current configurations:":             "当前配置:",
	"Error loading config":                "加载配置失败",
	"Error saving config":                 "保存配置失败",
	"Configuration saved to":              "配置已保存到",
	"Set language":                        "设置语言",
	"Set llm response render type":        "设置模型回复的渲染方式",
	"Set default LLM provider":            "设置默认的模型提供方",
	"Set model name":                      "设置模型名称",
	"Set sampling temperature":            "设置采样温度",
	"Set max tokens per response":         "设置单次回复的最大 token 数",
	"Set OpenAI API key":                  "设置 OpenAI API key",
	"Set OpenAI compatible base URL":      "设置 OpenAI 兼容接口地址",
	"Set Gemini API key":                  "设置 Gemini API key",
	"Set Ollama server URL":               "设置 Ollama 服务地址",
	"Set commit-after-revert policy":      "设置回退后再提交的策略",

	// 提示词
	"Prompt management": "提示词管理",
	"List the built-in prompt templates and manage user prompts that override them": "列出内置提示词模板，并管理覆盖它们的用户提示词",
	"Prompt content":              "提示词内容",
	"Read content from file":      "从文件读取内容",
	"Prompt name is required":     "需要提供提示词名称",
	"System Prompts:":             "系统提示词:",
	"User Prompts:":               "用户提示词:",
	"Prompt not found: %s":        "未找到提示词: %s",
	"Variables":                   "变量",
	"Failed to save prompt: %v":   "保存提示词失败: %v",
	"Prompt saved successfully":   "提示词已保存",
	"Cannot delete system prompt": "不能删除系统提示词",
	"Prompt deleted successfully": "提示词已删除",
	"Unknown action: %s":          "未知的操作: %s",
}

// zhMessages 简体中文译文，消息 ID 即英文原文
func zhMessages() []*i18n.Message {
	out := make([]*i18n.Message, 0, len(zh))
	for id, other := range zh {
		out = append(out, &i18n.Message{ID: id, Other: other})
	}
	return out
}
