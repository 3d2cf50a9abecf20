//go:build xpeed_test

package build

import "github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"

// ActiveNetwork 以 -tags xpeed_test 编译为开发测试网
const ActiveNetwork = types.NetworkTest
