package controllers

import (
	"log"
	"net/http"

	apperrors "cocoscan/internal/shared_kernel/errors"
)

func logRequestError(logger *log.Logger, path string, r *http.Request, appErr *apperrors.AppError) {
	if logger == nil {
		return
	}
	logger.Printf("request error path=%s method=%s code=%s message=%s", path, r.Method, appErr.Code, appErr.Message)
}
