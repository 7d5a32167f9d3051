package restbcao

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gitee.com/czyczk/learnledger/internal/blockchain/bcao"
	"gitee.com/czyczk/learnledger/pkg/errorcode"
	"gitee.com/czyczk/learnledger/pkg/models/ledger"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// balanceResponse carries the balance as a string so that values above 2^53 survive JSON clients.
type balanceResponse struct {
	Balance string `json:"balance"`
}

// RelayHandler serves the relay protocol spoken by LedgerBCAORESTImpl on top of any ledger.
// AwaitReceipt of the backing ledger is not used. Receipt lookups answer 404 until the receipt exists.
type RelayHandler struct {
	Ledger ReceiptLookup
}

// ReceiptLookup is a ledger that can answer receipt lookups without waiting.
type ReceiptLookup interface {
	bcao.ILedgerBCAO
	GetReceipt(transactionID string) (*ledger.Receipt, error)
}

// NewRelayHandler creates the relay handler.
func NewRelayHandler(l ReceiptLookup) *RelayHandler {
	return &RelayHandler{Ledger: l}
}

// Register mounts the relay routes on a router group.
func (h *RelayHandler) Register(group *gin.RouterGroup) {
	group.POST("/transactions", h.handleSubmit)
	group.GET("/transactions/:id/receipt", h.handleGetReceipt)
	group.GET("/accounts/:id/balance", h.handleGetBalance)
	group.GET("/files/:id/contents", h.handleGetFileContents)
}

func writeRelayError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errorcode.KindOf(err) {
	case errorcode.KindNotFound:
		status = http.StatusNotFound
	case errorcode.KindRemoteRejected:
		status = http.StatusUnprocessableEntity
	case errorcode.KindInvalidInput:
		status = http.StatusBadRequest
	case errorcode.KindTimeout:
		status = http.StatusGatewayTimeout
	default:
		log.Errorf("账本中继内部错误: %v", err)
	}

	c.JSON(status, relayError{Error: err.Error()})
}

func (h *RelayHandler) handleSubmit(c *gin.Context) {
	signedTxStr := c.PostForm("signedTx")
	var signed ledger.SignedTransaction
	if err := json.Unmarshal([]byte(signedTxStr), &signed); err != nil {
		c.JSON(http.StatusBadRequest, relayError{Error: "signedTx 不是合法的已签名交易"})
		return
	}

	info, err := h.Ledger.SubmitTransaction(c.Request.Context(), &signed)
	if err != nil {
		writeRelayError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *RelayHandler) handleGetReceipt(c *gin.Context) {
	receipt, err := h.Ledger.GetReceipt(c.Param("id"))
	if err != nil {
		writeRelayError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *RelayHandler) handleGetBalance(c *gin.Context) {
	balance, err := h.Ledger.QueryBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeRelayError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{Balance: strconv.FormatUint(balance, 10)})
}

func (h *RelayHandler) handleGetFileContents(c *gin.Context) {
	contents, err := h.Ledger.QueryFileContents(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeRelayError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", contents)
}
