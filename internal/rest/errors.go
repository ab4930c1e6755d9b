package rest

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/internal/rest/middleware"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// getStatusCode will get the code of the error from the usecases
func getStatusCode(err error) int {
	code := middleware.StatusCode(err)
	if code >= http.StatusInternalServerError {
		logrus.Error(err)
	}
	return code
}

func errorMessage(err error) string {
	return middleware.Message(err)
}
