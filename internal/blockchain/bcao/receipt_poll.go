package bcao

import (
	"context"
	"time"

	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/pkg/errors"
)

// DefaultPollInterval 为轮询回执的默认间隔
const DefaultPollInterval = 200 * time.Millisecond

// PollReceipt 反复调用 fetch 直到获得回执或 ctx 结束。fetch 返回包装了 errorcode.ErrorNotFound 的错误表示回执尚未生成。
func PollReceipt(ctx context.Context, transactionID string, interval time.Duration, fetch func(ctx context.Context) (*ledger.Receipt, error)) (*ledger.Receipt, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := fetch(ctx)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, errorcode.ErrorNotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(errorcode.ErrorTimeout, "等待交易 '%v' 的回执超时", transactionID)
		case <-ticker.C:
		}
	}
}
