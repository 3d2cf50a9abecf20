// Package crypto 提供工作量证明（POW）接口定义
//
// ⚡ **POW计算服务**
//
// 工作量是绑定在区块根哈希上的64位nonce：
//
//	value = LE64(blake2b-64(LE64(nonce) || root))
//
// value >= difficulty 即为有效。搜索与验证必须使用同一构造。
//
// 🎯 **核心功能**
// - Value：计算 (root, nonce) 的工作量数值
// - Validate：按难度阈值判定工作量是否有效（纯函数，线程安全）
// - Threshold / Network：当前编译网络的默认难度
package crypto

import "github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"

// POWEngine 定义POW计算接口
type POWEngine interface {
	// Value 计算工作量数值
	Value(root types.RootHash, nonce types.Nonce) types.WorkValue

	// Validate 验证工作量，difficulty 为0时使用网络默认阈值
	// 返回是否有效以及实际的工作量数值
	Validate(root types.RootHash, nonce types.Nonce, difficulty uint64) (bool, types.WorkValue)

	// Threshold 当前网络的默认难度阈值
	Threshold() uint64

	// Network 当前网络
	Network() types.Network
}
