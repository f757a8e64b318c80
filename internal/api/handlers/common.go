package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillproctor/internal/utils"
)

const maxUpload = 10 << 20

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeOf(err),
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if s := c.GetString("user_id"); s != "" {
		return s, true
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return false
	}
	return true
}

// readUpload reads a multipart file field in full, up to maxUpload bytes.
// The first 512 bytes are returned sniffed as well.
func readUpload(c *gin.Context, op, field string) (*multipart.FileHeader, []byte, string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field '"+field+"'", err))
		return nil, nil, "", false
	}
	if fh.Size <= 0 || fh.Size > maxUpload {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is empty or too large (max 10MB)", nil))
		return nil, nil, "", false
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return nil, nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return nil, nil, "", false
	}
	if len(data) > maxUpload {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return nil, nil, "", false
	}
	return fh, data, http.DetectContentType(data), true
}
