package api

import (
	"go.uber.org/fx"

	"github.com/xpeedcurrency/xpeed-node-sub001/internal/api/http"
)

// Module 返回API模块
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),

		// 确保HTTP服务器被实例化，生命周期钩子随之注册
		fx.Invoke(func(server *http.Server) {}),
	)
}
