package pow

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/build"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/crypto"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/interfaces/infrastructure/log"
	"github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"
)

// ModuleParams POW模块依赖
type ModuleParams struct {
	fx.In

	Logger log.Logger
}

// ModuleOutput POW模块输出
type ModuleOutput struct {
	fx.Out

	Policy    *DifficultyPolicy
	Engine    *Engine
	POWEngine crypto.POWEngine
}

// Module 返回POW模块
func Module() fx.Option {
	return fx.Module("pow",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按编译网络创建难度策略与POW引擎
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	policy, err := NewDifficultyPolicy(build.ActiveNetwork)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建难度策略失败: %w", err)
	}

	engine, err := NewEngine(policy, params.Logger.With("module", "pow"))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建POW引擎失败: %w", err)
	}

	params.Logger.Infof("POW引擎已就绪: network=%s threshold=%s",
		policy.Network(), types.FormatDifficulty(policy.Threshold()))
	return ModuleOutput{
		Policy:    policy,
		Engine:    engine,
		POWEngine: engine,
	}, nil
}
