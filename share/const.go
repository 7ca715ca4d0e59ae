package share

import "time"

// VERSION 版本号
const VERSION = "0.3.0"

// BUILDNAME 制品名称
const BUILDNAME = "dirpilot"

const PREFIX = "DIRPILOT_"

const PATH = ".dirpilot"

const TIMEOUT = time.Second * 60 * 5

const MAX_TOKENS = 8192

const DEFAULT_RENDERER = "markdown"

const DEFAULT_PROVIDER = "openai"

// VERSIONS_DIR 版本快照目录，位于工作目录下
const VERSIONS_DIR = ".versions"

// DIGEST_OUTPUT 默认摘要输出文件
const DIGEST_OUTPUT = "digest_output.txt"

const MCP_SERVER_NAME = "dirpilot MCP Server"

// 目录扫描的资源限制
const (
	MAX_FILE_SIZE         int64 = 10 * 1024 * 1024 // 10 MB
	MAX_DIRECTORY_DEPTH         = 20
	MAX_FILES                   = 10_000
	MAX_TOTAL_SIZE_BYTES  int64 = 500 * 1024 * 1024 // 500 MB
	NON_TEXT_FILE_CONTENT       = "[Non-text file]"
)
