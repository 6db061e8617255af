package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/middleware"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
)

// fail hands err to ErrorHandlerMiddleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bind decodes the JSON body, reporting binding errors as 400.
func bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		fail(c, apperrors.BadRequest(err.Error()))
		return false
	}
	return true
}

func requestContext(c *gin.Context) reqctx.Context {
	return middleware.RequestContext(c)
}
