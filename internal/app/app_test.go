package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// TestLoadConfigFile_Missing 测试配置文件不存在时使用默认配置
func TestLoadConfigFile_Missing(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Nil(t, cfg.Work)
}

// TestLoadConfigFile_Parse 测试解析工作池与API配置
func TestLoadConfigFile_Parse(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"work": {"threads": 3, "check_interval": 1024, "accelerator": {"kind": "remote", "peers": ["127.0.0.1:7077"]}},
		"api": {"listen_addr": "127.0.0.1:0"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfigFile(path)

	require.NoError(t, err)
	require.NotNil(t, cfg.Work)
	assert.Equal(t, 3, *cfg.Work.Threads)
	assert.Equal(t, uint64(1024), *cfg.Work.CheckInterval)
	assert.Equal(t, []string{"127.0.0.1:7077"}, cfg.Work.Accelerator.Peers)
	assert.Equal(t, "127.0.0.1:0", *cfg.API.ListenAddr)
}

// TestLoadConfigFile_Invalid 测试非法JSON返回错误
func TestLoadConfigFile_Invalid(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadConfigFile(path)

	assert.Error(t, err)
}

// TestStart_WithoutAPI 测试装配后工作池可用并能停止
func TestStart_WithoutAPI(t *testing.T) {
	cfg := &types.AppConfig{
		Log:  &types.UserLogConfig{ToConsole: types.BoolPtr(false)},
		Work: &types.UserWorkConfig{Threads: types.IntPtr(1), LowPriority: types.BoolPtr(false)},
	}

	application, err := Start(WithAppConfig(cfg), WithoutAPI())
	require.NoError(t, err)

	pool := application.WorkPool()
	require.NotNil(t, pool)
	assert.Equal(t, 0, pool.Size())
	assert.NoError(t, application.Stop())
	assert.True(t, pool.Stats().Stopped)
}

// TestStart_InvalidThreads 测试线程数为0时启动失败
func TestStart_InvalidThreads(t *testing.T) {
	cfg := &types.AppConfig{
		Log:  &types.UserLogConfig{ToConsole: types.BoolPtr(false)},
		Work: &types.UserWorkConfig{Threads: types.IntPtr(0)},
	}

	_, err := Start(WithAppConfig(cfg), WithoutAPI())

	assert.Error(t, err)
}

// TestStart_WithWorkOverride 测试 WithWork 覆盖配置文件中的工作池配置
func TestStart_WithWorkOverride(t *testing.T) {
	cfg := &types.AppConfig{
		Log:  &types.UserLogConfig{ToConsole: types.BoolPtr(false)},
		Work: &types.UserWorkConfig{Threads: types.IntPtr(1)},
	}

	application, err := Start(
		WithAppConfig(cfg),
		WithWork(&types.UserWorkConfig{Threads: types.IntPtr(2), LowPriority: types.BoolPtr(false)}),
		WithoutAPI(),
	)
	require.NoError(t, err)
	defer application.Stop()

	assert.Equal(t, 2, application.WorkPool().Stats().Threads)
}
