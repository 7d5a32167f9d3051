package chaincodectx

import (
	"net/http"

	"gitee.com/czyczk/learnledger/internal/blockchain"
)

type RESTLedgerCtx struct {
	APIPrefix  string // 账本中继的 URL 前缀，如 "http://127.0.0.1:8090/ledger"
	HTTPClient *http.Client
}

func (ctx *RESTLedgerCtx) GetBCType() blockchain.BCType {
	return blockchain.REST
}
