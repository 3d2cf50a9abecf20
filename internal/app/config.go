package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// ConfigPathEnv 配置文件路径环境变量，优先级高于命令行参数
const ConfigPathEnv = "XPEED_CONFIG_PATH"

// LoadConfigFile 从JSON配置文件加载配置
//
// 文件不存在时返回空配置（全部使用默认值）；内容无法解析时返回错误。
// 配置文件中省略的字段保持nil，由各模块填充默认值。
func LoadConfigFile(path string) (*types.AppConfig, error) {
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		path = envPath
	}
	if path == "" {
		return &types.AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("配置文件 %s 不存在，使用默认配置\n", path)
		return &types.AppConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return &appConfig, nil
}

// createDataDirectories 根据配置创建数据目录与日志目录
func createDataDirectories(appConfig *types.AppConfig) error {
	if appConfig == nil {
		return nil
	}

	var directories []string
	if appConfig.DataDir != nil && *appConfig.DataDir != "" {
		directories = append(directories, *appConfig.DataDir)
	}
	if appConfig.Log != nil && appConfig.Log.FilePath != nil {
		switch path := *appConfig.Log.FilePath; path {
		case "", "stdout", "stderr":
		default:
			directories = append(directories, filepath.Dir(path))
		}
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	return nil
}
