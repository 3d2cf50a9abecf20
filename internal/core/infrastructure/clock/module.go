package clock

import (
	"go.uber.org/fx"
)

// Module 返回时钟模块，提供系统时钟
func Module() fx.Option {
	return fx.Module("clock",
		fx.Provide(NewSystemClock),
	)
}
