package controller

import (
	"net/http"

	"gitee.com/czyczk/learnledger/internal/service"
	"github.com/gin-gonic/gin"
)

// A TokenController contains a group name and a `TokenService` instance. It also implements the interface `Controller`.
type TokenController struct {
	GroupName string
	TokenSvc  service.TokenServiceInterface
}

// GetGroupName returns the group name.
func (tc *TokenController) GetGroupName() string {
	return tc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by TokenController.
func (tc *TokenController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{":id/mint", "POST"}: []gin.HandlerFunc{tc.handleMintAdditional},
	}
}

func (tc *TokenController) handleMintAdditional(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "代币 ID 不能为空。")
	amount := pel.AppendIfNotUint64(c.PostForm("amount"), "增发数量应为正整数。")
	supplyKey := pel.AppendIfNotPrivateKey(c.PostForm("supplyKey"), "增发私钥不合法。")
	if len(*pel) != 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	txID, err := tc.TokenSvc.MintAdditional(c.Request.Context(), id, amount, supplyKey)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, &TransactionInfo{TransactionID: txID})
}
