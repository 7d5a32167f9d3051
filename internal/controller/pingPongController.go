package controller

import (
	"net/http"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"github.com/gin-gonic/gin"
)

// A PingPongController implements the interface `Controller`. Besides "ping", it reports whether the ledger is reachable.
type PingPongController struct {
	GroupName         string
	LedgerBCAO        bcao.ILedgerBCAO // 可为空。为空时不提供健康检查。
	OperatorAccountID string           // 健康检查时查询该账户的余额
}

// HealthInfo 为健康检查的结果
type HealthInfo struct {
	Ledger          string `json:"ledger"` // "up" 或 "down"
	OperatorBalance uint64 `json:"operatorBalance,omitempty"`
}

// GetGroupName returns the group name
func (ppc *PingPongController) GetGroupName() string {
	return ppc.GroupName
}

// GetEndpointMap implements the interface `Controller` and returns the API endpoints and handlers defined and managed by PingPongController.
func (ppc *PingPongController) GetEndpointMap() EndpointMap {
	pingHandler := func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}

	endpoints := EndpointMap{
		urlMethodPair{"/ping", "GET"}:  []gin.HandlerFunc{pingHandler},
		urlMethodPair{"/ping", "POST"}: []gin.HandlerFunc{pingHandler},
	}
	if ppc.LedgerBCAO != nil {
		endpoints[urlMethodPair{"/health", "GET"}] = []gin.HandlerFunc{ppc.handleHealth}
	}

	return endpoints
}

func (ppc *PingPongController) handleHealth(c *gin.Context) {
	balance, err := ppc.LedgerBCAO.QueryBalance(c.Request.Context(), ppc.OperatorAccountID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthInfo{Ledger: "down"})
		return
	}

	c.JSON(http.StatusOK, HealthInfo{Ledger: "up", OperatorBalance: balance})
}
