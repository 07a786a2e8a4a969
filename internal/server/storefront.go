package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	storefrontdomain "github.com/smallbiznis/vitrine/internal/storefront/domain"
)

func (s *Server) GetStorefront(c *gin.Context) {
	resp, err := s.storefrontSvc.Catalog(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStorefrontProducts(c *gin.Context) {
	resp, err := s.storefrontSvc.Products(c.Request.Context(), c.Param("slug"), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StorefrontCheckout(c *gin.Context) {
	var req storefrontdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Slug = c.Param("slug")

	resp, err := s.storefrontSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StorefrontQRCode(c *gin.Context) {
	size, err := parseOptionalInt(c.Query("size"))
	if err != nil {
		AbortWithError(c, newValidationError("size", "invalid_size", "invalid size"))
		return
	}

	png, err := s.storefrontSvc.QRCode(c.Request.Context(), c.Param("slug"), size)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
