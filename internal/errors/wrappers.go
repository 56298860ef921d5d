package errors

import "fmt"

// SyntaxError reports a declaration the front end could not parse
type SyntaxError struct {
	*BaseError
	Snippet string
}

// NewSyntaxError creates a syntax error at the given location
func NewSyntaxError(message string, loc SourceLocation) *SyntaxError {
	return &SyntaxError{BaseError: New(SyntaxErrorCode, message).WithLocation(loc)}
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, loc SourceLocation, cause error) *SyntaxError {
	message := fmt.Sprintf("failed to parse %s", item)
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, message, cause).WithLocation(loc),
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error without wrapping
func ConfigurationError(format string, args ...interface{}) *BaseError {
	return Newf(ConfigurationErrorCode, format, args...)
}
