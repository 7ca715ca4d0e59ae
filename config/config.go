package config

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sjzsdu/dirpilot/helper"
	"github.com/sjzsdu/dirpilot/share"
)

var (
	mu        sync.RWMutex
	configMap map[string]string
)

func init() {
	configMap = make(map[string]string)
	_ = LoadConfig()
}

// ConfigFile 配置文件路径
func ConfigFile() string {
	return helper.GetPath("config")
}

func GetConfig(key string) string {
	// 1. 按原样获取，可能是完整的环境变量名
	value := os.Getenv(key)
	if value != "" {
		return value
	}

	// 2. 不以 PREFIX 开头时转换后获取
	if !strings.HasPrefix(key, share.PREFIX) {
		return os.Getenv(GetEnvKey(key))
	}
	return ""
}

func GetConfigWithDefault(key string, defaultValue string) string {
	value := GetConfig(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadConfig 读取配置文件并写入环境变量，已存在的环境变量优先
func LoadConfig() error {
	values, err := godotenv.Read(ConfigFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	configMap = values
	for key, value := range values {
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return nil
}

// SaveConfig 写回配置文件
func SaveConfig() error {
	mu.RLock()
	snapshot := make(map[string]string, len(configMap))
	for k, v := range configMap {
		snapshot[k] = v
	}
	mu.RUnlock()

	if err := os.MkdirAll(helper.GetPath(""), 0755); err != nil {
		return err
	}
	return godotenv.Write(snapshot, ConfigFile())
}

func GetEnvKey(flagKey string) string {
	return share.PREFIX + strings.ToUpper(flagKey)
}

func envKeyOf(key string) string {
	if strings.HasPrefix(key, share.PREFIX) {
		return key
	}
	return GetEnvKey(key)
}

// SetConfig 设置配置值并更新环境变量
func SetConfig(key, value string) {
	envKey := envKeyOf(key)
	mu.Lock()
	configMap[envKey] = value
	mu.Unlock()
	os.Setenv(envKey, value)
}

// ClearConfig 清除指定配置
func ClearConfig(key string) {
	envKey := envKeyOf(key)
	mu.Lock()
	delete(configMap, envKey)
	mu.Unlock()
	os.Unsetenv(envKey)
}

// ClearAllConfig 清除所有配置
func ClearAllConfig() {
	mu.Lock()
	defer mu.Unlock()
	for key := range configMap {
		os.Unsetenv(key)
	}
	configMap = make(map[string]string)
}

// GetConfigMap 返回配置副本
func GetConfigMap() map[string]string {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]string, len(configMap))
	for k, v := range configMap {
		out[k] = v
	}
	return out
}
