package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	"github.com/smallbiznis/vitrine/internal/authorization"
	obscontext "github.com/smallbiznis/vitrine/internal/observability/context"
)

const (
	HeaderUserEmail = "X-User-Email"
	contextActorKey = "actor"
)

// ActorRequired resolves the caller from the X-User-Email header. Login is
// an email lookup, so the header is the whole session.
func (s *Server) ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(HeaderUserEmail))
		if email == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Authenticate(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, authdomain.ErrUserNotFound) || errors.Is(err, authdomain.ErrInvalidEmail) {
				err = ErrUnauthorized
			}
			AbortWithError(c, err)
			return
		}

		actor := authorization.Actor{
			UserID:  user.ID,
			Role:    string(user.Role),
			StoreID: user.StoreID,
		}
		c.Set(contextActorKey, actor)
		ctx := obscontext.WithActor(c.Request.Context(), actor.Role, strconv.FormatInt(actor.UserID, 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func actorFromContext(c *gin.Context) (authorization.Actor, bool) {
	value, ok := c.Get(contextActorKey)
	if !ok {
		return authorization.Actor{}, false
	}
	actor, ok := value.(authorization.Actor)
	return actor, ok
}
