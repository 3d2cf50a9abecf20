package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/app"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/build"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

func main() {
	var (
		configPath  string // 配置文件路径
		threads     int    // 工作线程数（覆盖配置文件）
		noAPI       bool   // 不启动HTTP接口
		showVersion bool   // 显示版本
	)

	flag.StringVar(&configPath, "config", "config.json", "配置文件路径（不存在时使用默认配置）")
	flag.IntVar(&threads, "threads", 0, "工作线程数，0表示使用配置值")
	flag.BoolVar(&noAPI, "no-api", false, "不启动HTTP工作接口")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.Parse()

	if showVersion {
		fmt.Printf("xpeed-work-node %s (network=%s)\n", build.Version, build.ActiveNetwork)
		return
	}

	appConfig, err := app.LoadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	opts := []app.Option{app.WithAppConfig(appConfig)}
	if threads > 0 {
		work := types.UserWorkConfig{}
		if appConfig.Work != nil {
			work = *appConfig.Work
		}
		work.Threads = types.IntPtr(threads)
		opts = append(opts, app.WithWork(&work))
	}
	if noAPI {
		opts = append(opts, app.WithoutAPI())
	}

	node, err := app.Start(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("工作生成节点已启动: network=%s，按 Ctrl+C 停止\n", build.ActiveNetwork)
	node.Wait()
}
