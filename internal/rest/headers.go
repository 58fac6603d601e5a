package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// applicationName prefixes alert header names and message keys
const applicationName = "teamdojoApp"

const (
	alertHeader  = "X-" + applicationName + "-alert"
	errorHeader  = "X-" + applicationName + "-error"
	paramsHeader = "X-" + applicationName + "-params"
)

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

// AlertHeaders builds the advisory headers a client UI turns into a notification
// after a mutation.
func AlertHeaders(entityName, action, param string) http.Header {
	h := http.Header{}
	h.Set(alertHeader, applicationName+"."+entityName+"."+action)
	h.Set(paramsHeader, param)
	return h
}

// FailureAlertHeaders builds the headers sent along with a rejected request.
func FailureAlertHeaders(entityName, errorKey string) http.Header {
	h := http.Header{}
	h.Set(errorHeader, "error."+errorKey)
	h.Set(paramsHeader, entityName)
	return h
}

func entityAlert(c *gin.Context, entityName, action string, id int64) {
	writeHeaders(c, AlertHeaders(entityName, action, strconv.FormatInt(id, 10)))
}

func writeHeaders(c *gin.Context, h http.Header) {
	for k, values := range h {
		for _, v := range values {
			c.Writer.Header().Add(k, v)
		}
	}
}
