package entity

import "errors"

// Domain errors
var (
	// Vendor resource errors
	ErrAgentNotFound         = errors.New("agent not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrAudioNotFound         = errors.New("conversation audio not available")
	ErrKnowledgeItemNotFound = errors.New("knowledge base item not found")
	ErrKnowledgeItemExists   = errors.New("knowledge base item already attached")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Persistence errors
	ErrStorage = errors.New("storage unavailable")
)
