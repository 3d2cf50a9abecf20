// Package build 保存编译期确定的参数
//
// 网络变体由构建标签选择，运行期不可更改：
//
//	go build ./cmd/node                    # live
//	go build -tags xpeed_beta ./cmd/node   # beta
//	go build -tags xpeed_test ./cmd/node   # test
package build

// Version 由 -ldflags "-X .../pkg/build.Version=..." 注入
var Version = "dev"
