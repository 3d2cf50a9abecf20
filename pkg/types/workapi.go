package types

// WorkGenerateRequest 工作生成请求
//
// 数值字段均为十六进制字符串，Difficulty 与 Multiplier 都省略时使用网络默认难度。
type WorkGenerateRequest struct {
	Hash       string  `json:"hash"`
	Difficulty string  `json:"difficulty,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// WorkGenerateResponse 工作生成响应
type WorkGenerateResponse struct {
	Hash       string  `json:"hash"`
	Work       string  `json:"work"`
	Difficulty string  `json:"difficulty"` // 实际工作量数值
	Multiplier float64 `json:"multiplier"` // 相对网络默认阈值的倍数
	Cached     bool    `json:"cached,omitempty"`
}

// WorkValidateRequest 工作验证请求
type WorkValidateRequest struct {
	Hash       string  `json:"hash"`
	Work       string  `json:"work"`
	Difficulty string  `json:"difficulty,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// WorkValidateResponse 工作验证响应
type WorkValidateResponse struct {
	Valid      bool    `json:"valid"`
	Value      string  `json:"value"`      // 实际工作量数值
	Difficulty string  `json:"difficulty"` // 参与比较的阈值
	Multiplier float64 `json:"multiplier"`
}

// WorkCancelRequest 工作取消请求
type WorkCancelRequest struct {
	Hash string `json:"hash"`
}

// ErrorResponse 接口错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}
