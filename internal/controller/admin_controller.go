package controller

import (
	"net/http"

	"gitee.com/czyczk/learnledger/internal/service"
	"github.com/gin-gonic/gin"
)

// An AdminController serves operator-facing endpoints. It implements the interface `Controller`.
type AdminController struct {
	GroupName   string
	ResourceSvc service.ResourceServiceInterface
}

// GetGroupName returns the group name.
func (ac *AdminController) GetGroupName() string {
	return ac.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by AdminController.
func (ac *AdminController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"orphans", "GET"}: []gin.HandlerFunc{ac.handleListOrphans},
	}
}

func (ac *AdminController) handleListOrphans(c *gin.Context) {
	artifacts, err := ac.ResourceSvc.ListOrphanedArtifacts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, artifacts)
}
