package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	logconfig "github.com/xpeedcurrency/xpeed-node-sub001/internal/config/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/crypto/pow"
	logimpl "github.com/xpeedcurrency/xpeed-node-sub001/internal/core/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/internal/core/workpool"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/build"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

var (
	workDifficulty string // 难度阈值（十六进制）
	workMultiplier float64
	workThreads    int
)

// generateCmd 生成工作
var generateCmd = &cobra.Command{
	Use:   "generate <hash>",
	Short: "为根哈希生成工作",
	Long: `为区块根哈希搜索满足难度的nonce

示例:
  xpeed-work generate 718CC2121C3E641059BC1C2CFC45666C99E8AE922F7A807B7D07B62C995D79E2
  xpeed-work generate <hash> --difficulty fffffff800000000
  xpeed-work generate <hash> --remote 127.0.0.1:7076`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if globalFlags.Remote != "" {
			return generateRemote(ctx, args[0])
		}
		return generateLocal(ctx, args[0])
	},
}

// validateCmd 验证工作
var validateCmd = &cobra.Command{
	Use:   "validate <hash> <work>",
	Short: "验证工作是否满足难度",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.Remote != "" {
			resp, err := newNodeClient(globalFlags.Remote).validate(cmd.Context(), types.WorkValidateRequest{
				Hash:       args[0],
				Work:       args[1],
				Difficulty: workDifficulty,
				Multiplier: workMultiplier,
			})
			if err != nil {
				return err
			}
			return printValidation(resp)
		}
		return validateLocal(args[0], args[1])
	},
}

// cancelCmd 取消远程节点上的工作
var cancelCmd = &cobra.Command{
	Use:   "cancel <hash>",
	Short: "取消工作节点上该根哈希的工作（需要 --remote）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.Remote == "" {
			return fmt.Errorf("cancel 需要 --remote")
		}
		if err := newNodeClient(globalFlags.Remote).cancel(cmd.Context(), args[0]); err != nil {
			return err
		}
		pterm.Success.Printfln("已取消 %s", args[0])
		return nil
	},
}

// statusCmd 查看远程节点统计
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看工作节点统计（需要 --remote）",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.Remote == "" {
			return fmt.Errorf("status 需要 --remote")
		}
		stats, err := newNodeClient(globalFlags.Remote).status(cmd.Context())
		if err != nil {
			return err
		}
		return printStats(stats)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, validateCmd} {
		cmd.Flags().StringVarP(&workDifficulty, "difficulty", "d", "", "难度阈值（十六进制），默认使用网络阈值")
		cmd.Flags().Float64VarP(&workMultiplier, "multiplier", "m", 0, "相对网络阈值的难度倍数")
	}
	generateCmd.Flags().IntVarP(&workThreads, "threads", "t", runtime.NumCPU(), "本地计算线程数")
}

// newLocalEngine 创建本地POW引擎，日志输出到stderr
func newLocalEngine() (*pow.Engine, *workpool.Options, error) {
	level := "warn"
	if globalFlags.Verbose {
		level = "debug"
	}
	logger, err := logimpl.New(logconfig.New(&logconfig.LogOptions{Level: level, FilePath: "stderr"}))
	if err != nil {
		return nil, nil, err
	}

	policy, err := pow.NewDifficultyPolicy(build.ActiveNetwork)
	if err != nil {
		return nil, nil, err
	}
	engine, err := pow.NewEngine(policy, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := workpool.DefaultOptions()
	opts.Threads = workThreads
	opts.Logger = logger
	return engine, &opts, nil
}

func localDifficulty(policy *pow.DifficultyPolicy) (uint64, error) {
	if workDifficulty != "" {
		return types.ParseDifficulty(workDifficulty)
	}
	if workMultiplier > 0 {
		return pow.FromMultiplier(workMultiplier, policy.Threshold()), nil
	}
	return 0, nil
}

func generateLocal(ctx context.Context, hash string) error {
	root, err := types.ParseRootHash(hash)
	if err != nil {
		return err
	}
	engine, opts, err := newLocalEngine()
	if err != nil {
		return err
	}
	requested, err := localDifficulty(engine.Policy())
	if err != nil {
		return err
	}
	difficulty, err := engine.Policy().Resolve(requested)
	if err != nil {
		return err
	}

	pool, err := workpool.NewPool(engine.Policy(), *opts)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Stop() }()

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("%d 线程计算中 (难度 %s)...",
		pool.Threads(), types.FormatDifficulty(difficulty)))
	start := time.Now()
	nonce, solved, err := pool.Generate(ctx, root, difficulty)
	elapsed := time.Since(start)
	if err != nil || !solved {
		if spinner != nil {
			spinner.Fail("未得到工作")
		}
		if err == nil {
			err = fmt.Errorf("工作已取消")
		}
		return err
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("完成，用时 %s", elapsed.Round(time.Millisecond)))
	}

	value := engine.Value(root, nonce)
	stats := pool.Stats()
	return printWork(&types.WorkGenerateResponse{
		Hash:       root.String(),
		Work:       nonce.String(),
		Difficulty: value.String(),
		Multiplier: engine.Policy().Multiplier(uint64(value)),
	}, stats.Attempts, elapsed)
}

func generateRemote(ctx context.Context, hash string) error {
	client := newNodeClient(globalFlags.Remote)
	spinner, _ := pterm.DefaultSpinner.Start("等待工作节点...")
	start := time.Now()
	resp, err := client.generate(ctx, types.WorkGenerateRequest{
		Hash:       hash,
		Difficulty: workDifficulty,
		Multiplier: workMultiplier,
	})
	if err != nil {
		if spinner != nil {
			spinner.Fail("未得到工作")
		}
		if ctx.Err() != nil {
			// 中断时通知节点停止计算
			cancelCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.cancel(cancelCtx, hash)
		}
		return err
	}
	if spinner != nil {
		spinner.Success("完成")
	}
	return printWork(resp, 0, time.Since(start))
}

func validateLocal(hash, work string) error {
	root, err := types.ParseRootHash(hash)
	if err != nil {
		return err
	}
	nonce, err := types.ParseNonce(work)
	if err != nil {
		return err
	}
	engine, _, err := newLocalEngine()
	if err != nil {
		return err
	}
	difficulty, err := localDifficulty(engine.Policy())
	if err != nil {
		return err
	}
	if difficulty == 0 {
		difficulty = engine.Threshold()
	}

	valid, value := engine.Validate(root, nonce, difficulty)
	return printValidation(&types.WorkValidateResponse{
		Valid:      valid,
		Value:      value.String(),
		Difficulty: types.FormatDifficulty(difficulty),
		Multiplier: engine.Policy().Multiplier(uint64(value)),
	})
}

func printWork(resp *types.WorkGenerateResponse, attempts uint64, elapsed time.Duration) error {
	data := pterm.TableData{
		{"字段", "值"},
		{"hash", resp.Hash},
		{"work", resp.Work},
		{"difficulty", resp.Difficulty},
		{"multiplier", strconv.FormatFloat(resp.Multiplier, 'f', 4, 64)},
		{"elapsed", elapsed.Round(time.Millisecond).String()},
	}
	if attempts > 0 {
		data = append(data, []string{"attempts", strconv.FormatUint(attempts, 10)})
	}
	if resp.Cached {
		data = append(data, []string{"cached", "true"})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printValidation(resp *types.WorkValidateResponse) error {
	if resp.Valid {
		pterm.Success.Println("工作有效")
	} else {
		pterm.Warning.Println("工作无效")
	}
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"字段", "值"},
		{"value", resp.Value},
		{"difficulty", resp.Difficulty},
		{"multiplier", strconv.FormatFloat(resp.Multiplier, 'f', 4, 64)},
	}).Render()
}

func printStats(stats *types.WorkStats) error {
	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"字段", "值"},
		{"network", stats.Network},
		{"engine", stats.Engine},
		{"threads", strconv.Itoa(stats.Threads)},
		{"active", strconv.FormatBool(stats.Active)},
		{"pending", strconv.Itoa(stats.Pending)},
		{"in_flight", strconv.Itoa(stats.InFlight)},
		{"submitted", strconv.FormatUint(stats.Submitted, 10)},
		{"solved", strconv.FormatUint(stats.Solved, 10)},
		{"cancelled", strconv.FormatUint(stats.Cancelled, 10)},
		{"drained", strconv.FormatUint(stats.Drained, 10)},
		{"empty", strconv.FormatUint(stats.Empty, 10)},
		{"faults", strconv.FormatUint(stats.Faults, 10)},
		{"hash_rate", strconv.FormatFloat(stats.HashRate, 'f', 0, 64) + " H/s"},
	}).Render()
}
