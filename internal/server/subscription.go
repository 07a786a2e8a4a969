package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
)

func (s *Server) GetSubscription(c *gin.Context) {
	resp, err := s.subscriptionSvc.Status(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SubscriptionCheckout(c *gin.Context) {
	var req subscriptiondomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.StoreID = c.Param("store_id")
	req.Email = strings.TrimSpace(c.GetHeader(HeaderUserEmail))

	resp, err := s.subscriptionSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReceipts(c *gin.Context) {
	resp, err := s.subscriptionSvc.ListReceipts(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStoreOverview(c *gin.Context) {
	resp, err := s.subscriptionSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SimulatePayment(c *gin.Context) {
	var req subscriptiondomain.SimulatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Source = subscriptiondomain.SourceAdmin

	resp, err := s.subscriptionSvc.SimulatePayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExtendPending(c *gin.Context) {
	resp, err := s.subscriptionSvc.ExtendPending(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkPaid(c *gin.Context) {
	resp, err := s.subscriptionSvc.MarkPaid(c.Request.Context(), c.Param("store_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadReceipt(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	reader, err := s.subscriptionSvc.ReceiptPDF(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recibo-`+number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
