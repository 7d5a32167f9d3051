package errorcode

import (
	"context"

	"github.com/pkg/errors"
)

// Kind 为对外暴露的机器可读错误类别。
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindInsufficientFunds  Kind = "InsufficientFunds"
	KindRemoteRejected     Kind = "RemoteRejected"
	KindNetworkError       Kind = "NetworkError"
	KindTimeout            Kind = "Timeout"
	KindUnauthorized       Kind = "Unauthorized"
	KindNotFound           Kind = "NotFound"
	KindPartialPublication Kind = "PartialPublication"
	KindInternal           Kind = "Internal"
)

// Kinded is implemented by errors that know their own kind.
type Kinded interface {
	Kind() Kind
}

var sentinelKinds = []struct {
	err  error
	kind Kind
}{
	{ErrorInvalidInput, KindInvalidInput},
	{ErrorInsufficientFunds, KindInsufficientFunds},
	{ErrorRemoteRejected, KindRemoteRejected},
	{ErrorNetwork, KindNetworkError},
	{ErrorTimeout, KindTimeout},
	{ErrorForbidden, KindUnauthorized},
	{ErrorNotFound, KindNotFound},
}

// KindOf 返回错误链上最外层可识别的错误类别。
//
// 参数：
//   错误
//
// 返回：
//   错误类别，无法识别时为 KindInternal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}

	for _, sk := range sentinelKinds {
		if errors.Is(err, sk.err) {
			return sk.kind
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	return KindInternal
}
