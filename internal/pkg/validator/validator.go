package validator

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// Validator validates incoming requests and file uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateRegister(req *entity.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fmt.Errorf("%w: name, email, password are required", entity.ErrMissingField)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return fmt.Errorf("%w: email", entity.ErrInvalidFormat)
	}
	if len([]rune(req.Password)) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", entity.ErrInvalidParameter, MinPasswordLength)
	}

	return nil
}

func (v *Validator) ValidateLogin(req *entity.LoginRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fmt.Errorf("%w: email and password are required", entity.ErrMissingField)
	}

	return nil
}

func (v *Validator) ValidateAppendMessage(req *entity.AppendMessageRequest) error {
	if req.Role == "" || strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: role and content are required", entity.ErrMissingField)
	}

	return req.Role.Validate()
}

// ValidateUpload validates a multi-file upload batch
func (v *Validator) ValidateUpload(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files uploaded", entity.ErrMissingField)
	}

	if len(files) > v.cfg.MaxFileCount {
		return fmt.Errorf("%w: maximum %d files allowed, got %d", entity.ErrTooManyFiles, v.cfg.MaxFileCount, len(files))
	}

	var totalSize int64
	for _, fh := range files {
		if fh.Size > v.cfg.MaxFileSize {
			return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
		}

		totalSize += fh.Size
	}

	if totalSize > v.cfg.MaxUploadSize {
		return fmt.Errorf("%w: total size is %d bytes (max %d)", entity.ErrTotalSizeTooLarge, totalSize, v.cfg.MaxUploadSize)
	}

	return nil
}
