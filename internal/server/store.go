package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
)

func (s *Server) GetStore(c *gin.Context) {
	resp, err := s.storeSvc.Get(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateStore(c *gin.Context) {
	var req tenantdomain.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.StoreID = c.Param("store_id")

	resp, err := s.storeSvc.UpdateBranding(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetPaymentMethods(c *gin.Context) {
	var req tenantdomain.PaymentMethodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.StoreID = c.Param("store_id")

	resp, err := s.storeSvc.SetPaymentMethods(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) AddCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.storeSvc.AddCategory(c.Request.Context(), c.Param("store_id"), strings.TrimSpace(req.Name))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	resp, err := s.storeSvc.DeleteCategory(c.Request.Context(), c.Param("store_id"), c.Param("name"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RestoreCategory(c *gin.Context) {
	resp, err := s.storeSvc.RestoreCategory(c.Request.Context(), c.Param("store_id"), c.Param("name"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
