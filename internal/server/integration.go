package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
)

const maxWebhookBody = 1 << 20

func (s *Server) GetKiwify(c *gin.Context) {
	resp, err := s.integrationSvc.GetKiwify(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateKiwify(c *gin.Context) {
	var req integrationdomain.UpdateKiwifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.integrationSvc.UpdateKiwify(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) KiwifyWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.integrationSvc.IngestWebhook(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
