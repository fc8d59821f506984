package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
)

// AllowedExtensions are the document types the knowledge base can ingest.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".docx": true,
	".html": true,
	".epub": true,
	".md":   true,
}

const (
	maxNameLength   = 200
	minPasswordSize = 6
)

// Validator validates operator input before it reaches the vendor APIs.
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateCredentials(c *entity.Credentials) error {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" {
		return fmt.Errorf("%w: email", entity.ErrMissingField)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: email", entity.ErrInvalidFormat)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password", entity.ErrMissingField)
	}
	return nil
}

// ValidateSignUp additionally enforces the auth provider's minimum password length.
func (v *Validator) ValidateSignUp(c *entity.Credentials) error {
	if err := v.ValidateCredentials(c); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Password) < minPasswordSize {
		return fmt.Errorf("%w: password must be at least %d characters", entity.ErrInvalidParameter, minPasswordSize)
	}
	return nil
}

func (v *Validator) ValidateAddKnowledgeItem(req *entity.AddKnowledgeItemRequest) error {
	if !req.Type.IsValid() {
		return fmt.Errorf("%w: type must be one of url, file, text", entity.ErrInvalidParameter)
	}
	if utf8.RuneCountInString(req.Name) > maxNameLength {
		return fmt.Errorf("%w: name longer than %d characters", entity.ErrInvalidParameter, maxNameLength)
	}

	switch req.Type {
	case entity.KnowledgeItemURL:
		if strings.TrimSpace(req.URL) == "" {
			return fmt.Errorf("%w: url", entity.ErrMissingField)
		}
		return ValidateWebURL(req.URL)
	case entity.KnowledgeItemText:
		if strings.TrimSpace(req.Text) == "" {
			return fmt.Errorf("%w: text", entity.ErrMissingField)
		}
	case entity.KnowledgeItemFile:
		return v.ValidateFile(req.Filename, int64(len(req.Content)))
	}

	return nil
}

// ValidateFile checks a knowledge-base upload by extension and size
func (v *Validator) ValidateFile(filename string, size int64) error {
	if filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %q (allowed: pdf, txt, docx, html, epub, md)", entity.ErrInvalidExtension, ext)
	}

	if size == 0 {
		return fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, filename)
	}

	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, filename, size, v.cfg.MaxFileSize)
	}

	return nil
}

func (v *Validator) ValidateUpdateSettings(req *entity.UpdateAgentSettingsRequest) error {
	if req.FirstMessage == nil && req.SystemPrompt == nil && req.WebsiteURL == nil {
		return fmt.Errorf("%w: nothing to update", entity.ErrMissingField)
	}
	if req.WebsiteURL != nil && strings.TrimSpace(*req.WebsiteURL) != "" {
		return ValidateWebURL(*req.WebsiteURL)
	}
	return nil
}

// ValidateWebURL accepts absolute http(s) URLs with a host
func ValidateWebURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: url: %v", entity.ErrInvalidFormat, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url must use http or https", entity.ErrInvalidFormat)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: url has no host", entity.ErrInvalidFormat)
	}
	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
