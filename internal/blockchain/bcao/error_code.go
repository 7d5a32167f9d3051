package bcao

import (
	"context"
	"strings"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"github.com/pkg/errors"
)

var suffixSentinels = []struct {
	code string
	err  error
}{
	{errorcode.CodeForbidden, errorcode.ErrorForbidden},
	{errorcode.CodeNotFound, errorcode.ErrorNotFound},
	{errorcode.CodeInvalidInput, errorcode.ErrorInvalidInput},
	{errorcode.CodeRemoteRejected, errorcode.ErrorRemoteRejected},
}

// GetClassifiedError is a general error handler that converts some errors returned from the chaincode or the ledger relay to the predefined errors.
// Errors that carry no known code are treated as transport failures.
func GetClassifiedError(chaincodeFcn string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Wrapf(errorcode.ErrorTimeout, "调用账本函数 '%v' 超时", chaincodeFcn)
	}

	msg := strings.TrimSpace(err.Error())
	for _, s := range suffixSentinels {
		if strings.HasSuffix(msg, s.code) {
			return errors.Wrapf(s.err, "账本函数 '%v': %v", chaincodeFcn, strings.TrimSpace(strings.TrimSuffix(msg, s.code)))
		}
	}

	return errors.Wrapf(errorcode.ErrorNetwork, "无法调用账本函数 '%v': %v", chaincodeFcn, msg)
}

// GetClassifiedErrorWithContext 与 GetClassifiedError 相同，但 ctx 已结束时一律视为超时。
// 部分客户端（如 fabric-sdk-go）不会在返回的错误中包装 ctx 的错误。
func GetClassifiedErrorWithContext(ctx context.Context, chaincodeFcn string, err error) error {
	if err != nil && ctx.Err() != nil {
		return errors.Wrapf(errorcode.ErrorTimeout, "调用账本函数 '%v' 超时: %v", chaincodeFcn, err)
	}

	return GetClassifiedError(chaincodeFcn, err)
}
