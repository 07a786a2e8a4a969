package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/vitrine/internal/observability/context"
)

// authorize gates a route on the actor's role and, when the route carries a
// :store_id, on ownership of that store.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorizeWithContext(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authorizeWithContext(c *gin.Context, object string, action string) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return ErrUnauthorized
	}

	var storeID int64
	if raw := strings.TrimSpace(c.Param("store_id")); raw != "" {
		id, ok := parseStoreIDParam(raw)
		if !ok {
			return ErrNotFound
		}
		storeID = id
		c.Request = c.Request.WithContext(obscontext.WithStoreID(c.Request.Context(), raw))
	}

	return s.authzSvc.Authorize(c.Request.Context(), actor, object, action, storeID)
}
