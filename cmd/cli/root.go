package main

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/build"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Remote  string        // 远程节点地址，为空时在本地计算
	Timeout time.Duration // 远程请求超时
	Plain   bool          // 纯文本输出
	Verbose bool          // 详细日志
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "xpeed-work",
	Short: "工作量证明生成与验证工具",
	Long: `xpeed-work - 区块根哈希的工作量证明工具

不指定 --remote 时在本机用全部CPU核心生成工作；
指定 --remote 时调用工作节点的 /work/* 接口。`,
	Version:       build.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// 非终端输出（管道、重定向）时关闭颜色与动画
		if globalFlags.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
			pterm.DisableStyling()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.Remote, "remote", "", "工作节点地址，如 http://127.0.0.1:7076")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.Timeout, "timeout", 0, "远程请求超时，0表示不限制")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Plain, "plain", false, "纯文本输出")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(generateCmd, validateCmd, cancelCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
