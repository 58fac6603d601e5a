package middleware

import (
	"fmt"
	"net/http"

	"github.com/dfryer1193/teamdojo/internal/rest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HandlePanics turns a panic in a handler into the generic 500 problem document.
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		log.Error().Err(err).Str("request_id", RequestID(c)).Str("path", c.Request.URL.Path).Msg("Recovered from panic")

		c.Header("Content-Type", "application/problem+json")
		c.AbortWithStatusJSON(http.StatusInternalServerError, rest.InternalServerErrorProblem())
	}
}
