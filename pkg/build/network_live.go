//go:build !xpeed_beta && !xpeed_test

package build

import "github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"

// ActiveNetwork 默认编译为主网
const ActiveNetwork = types.NetworkLive
