package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"beercomi.dev/BeerComi/pkg/storage"
)

// stageUpload pulls one multipart file out of the request and stages it
// in the upload store. Responds with 400 on a missing or undecodable
// file; the caller only proceeds when ok is true.
func (s *Server) stageUpload(c *gin.Context, field, finalRel string) (*storage.Staged, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		s.badRequest(c, fmt.Sprintf("missing file field %q", field))

		return nil, false
	}

	if header.Size > s.conf.Uploads.MaxFileSize {
		s.badRequest(c, "file too large")

		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(c, err)

		return nil, false
	}
	defer file.Close()

	staged, err := s.uploads.StageImage(file, finalRel)
	if err != nil {
		s.badRequest(c, "file is not a decodable image")

		return nil, false
	}

	return staged, true
}

// bindingMessage flattens validator errors into one readable line.
func bindingMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "malformed request body"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fieldError.Field(), fieldError.Tag()))
	}

	return strings.Join(messages, ", ")
}
