//go:build xpeed_beta && !xpeed_test

package build

import "github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"

// ActiveNetwork 以 -tags xpeed_beta 编译为公测网
const ActiveNetwork = types.NetworkBeta
