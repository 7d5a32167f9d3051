package errorcode

import "fmt"

const (
	// CodeNotFound 表示资源未找到。Service 层收到的错误中若是这样的错误信息则表示是资源未找到，而非链码运行出错。
	CodeNotFound = "~NOTFOUND~"
	// CodeForbidden 表示参数被理解，但无权进行操作（签名不满足、非资源所有者等）。
	CodeForbidden = "~FORBIDDEN~"
	// CodeInvalidInput 表示参数在发往账本前即被判定为非法。
	CodeInvalidInput = "~INVALIDINPUT~"
	// CodeInsufficientFunds 表示预检时账户余额不足。
	CodeInsufficientFunds = "~INSUFFICIENTFUNDS~"
	// CodeRemoteRejected 表示账本网络拒绝了交易（提交被拒或回执状态非成功）。
	CodeRemoteRejected = "~REMOTEREJECTED~"
	// CodeNetwork 表示与账本网络通信时出现传输层错误，操作结果未知。
	CodeNetwork = "~NETWORK~"
	// CodeTimeout 表示等待账本响应超时，操作结果未知，应通过回执查询对账。
	CodeTimeout = "~TIMEOUT~"
)

// ErrorNotFound 为使用了 `CodeNotFound` 的 error 实例
var ErrorNotFound = fmt.Errorf(CodeNotFound)

// ErrorForbidden 为使用了 `CodeForbidden` 的 error 实例
var ErrorForbidden = fmt.Errorf(CodeForbidden)

// ErrorInvalidInput 为使用了 `CodeInvalidInput` 的 error 实例
var ErrorInvalidInput = fmt.Errorf(CodeInvalidInput)

// ErrorInsufficientFunds 为使用了 `CodeInsufficientFunds` 的 error 实例
var ErrorInsufficientFunds = fmt.Errorf(CodeInsufficientFunds)

// ErrorRemoteRejected 为使用了 `CodeRemoteRejected` 的 error 实例
var ErrorRemoteRejected = fmt.Errorf(CodeRemoteRejected)

// ErrorNetwork 为使用了 `CodeNetwork` 的 error 实例
var ErrorNetwork = fmt.Errorf(CodeNetwork)

// ErrorTimeout 为使用了 `CodeTimeout` 的 error 实例
var ErrorTimeout = fmt.Errorf(CodeTimeout)
