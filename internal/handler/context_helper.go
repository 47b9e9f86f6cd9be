package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/usercoursecontrol-api/internal/middleware"
	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
	"github.com/noah-isme/usercoursecontrol-api/pkg/response"
)

func actorFromContext(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Actor{}, false
	}
	return actor, true
}

// bindParams decodes the JSON parameter bag of a function call.
func bindParams(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid parameters"))
		return false
	}
	return true
}
