package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/server/http/dto"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// reported as 500 without leaking their text.
func respondError(c *gin.Context, err error) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: domainErrors.ErrValidation.Error(), Fields: verr.Fields})
	case errors.Is(err, domainErrors.ErrProofRequired):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInsufficientStock),
		errors.Is(err, domainErrors.ErrIllegalTransition),
		errors.Is(err, domainErrors.ErrPaymentExists),
		errors.Is(err, domainErrors.ErrProductInUse),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domainErrors.ErrNotFound.Error()})
	case errors.Is(err, domainErrors.ErrForbidden), errors.Is(err, domainErrors.ErrGateLocked):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: domainErrors.ErrStorageUnavailable.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domainErrors.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

// readUpload loads an optional multipart file. It reads one byte past limit
// so oversized files reach validation instead of being truncated silently.
func readUpload(c *gin.Context, field string, limit int64) (*usecase.Upload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return readFile(header, limit)
}

func readFile(header *multipart.FileHeader, limit int64) (*usecase.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &usecase.Upload{Data: data}, nil
}
