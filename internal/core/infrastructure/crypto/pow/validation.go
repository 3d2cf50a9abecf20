package pow

import "github.com/xpeedcurrency/xpeed-node-sub001/pkg/types"

// Validate 判定 nonce 对 root 在给定难度下是否有效
//
// 纯函数，无副作用，可并发调用。value == difficulty 视为有效。
func Validate(root types.RootHash, nonce types.Nonce, difficulty uint64) bool {
	ok, _ := ValidateValue(root, nonce, difficulty)
	return ok
}

// ValidateValue 同 Validate，并返回实际工作量数值
func ValidateValue(root types.RootHash, nonce types.Nonce, difficulty uint64) (bool, types.WorkValue) {
	value := Value(root, nonce)
	return uint64(value) >= difficulty, value
}

// Validate 按网络策略验证，difficulty 为0时使用网络默认阈值
//
// 验证允许任意显式阈值（包括低于网络默认值），
// 是否接受更低难度由调用方的业务规则决定。
func (e *Engine) Validate(root types.RootHash, nonce types.Nonce, difficulty uint64) (bool, types.WorkValue) {
	if difficulty == 0 {
		difficulty = e.policy.Threshold()
	}
	return ValidateValue(root, nonce, difficulty)
}
