package response

import (
	"net/http"
	"strconv"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// IdentityKey is the gin context key the auth middleware stores the caller's claim under.
const IdentityKey = "identity"

// GetIdentity retrieves the authenticated identity claim from the context
func GetIdentity(c *gin.Context) (entity.Identity, error) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return entity.Identity{}, apperror.ErrUnauthorized
	}

	identity, ok := value.(entity.Identity)
	if !ok || identity.ID == 0 {
		return entity.Identity{}, apperror.ErrUnauthorized
	}

	return identity, nil
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid " + name)
	}
	return uint(id), nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("internal error")
		Message(c, code, apperror.ErrInternal.Error())
		return
	}

	Message(c, code, err.Error())
}

// Message writes the {"message": ...} body every non-data response uses.
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}
