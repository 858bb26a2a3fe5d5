// internal/generation/validation.go
package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	commonerrors "scriptforge/internal/common/errors"
)

var (
	validStyles = []string{"educational", "entertaining", "inspirational"}

	validDurations = []string{
		"5-8 minutes",
		"8-10 minutes",
		"10-15 minutes",
		"15-20 minutes",
		"20-30 minutes",
	}

	validDepths = []string{"quick", "medium", "deep"}

	spamPatterns = []string{"http://", "https://", "www.", "buy now", "click here"}
)

// ValidateRequest checks every field; the first violated rule wins.
func ValidateRequest(req *Request) error {
	if err := ValidateTopic(req.Topic); err != nil {
		return err
	}
	if err := ValidateStyle(req.Style); err != nil {
		return err
	}
	if err := ValidateDuration(req.Duration); err != nil {
		return err
	}
	if err := ValidateResearchDepth(req.ResearchDepth); err != nil {
		return err
	}
	return ValidateBrandVoice(req.BrandVoice)
}

func ValidateTopic(topic string) error {
	// Limits count characters, not bytes, so multibyte topics are
	// measured the same as ASCII ones.
	if utf8.RuneCountInString(strings.TrimSpace(topic)) < 5 {
		return commonerrors.NewValidationError("Topic must be at least 5 characters long")
	}
	if utf8.RuneCountInString(topic) > 500 {
		return commonerrors.NewValidationError("Topic cannot exceed 500 characters")
	}

	topicLower := strings.ToLower(topic)
	for _, pattern := range spamPatterns {
		if strings.Contains(topicLower, pattern) {
			return commonerrors.NewValidationError("Topic contains invalid pattern: " + pattern)
		}
	}
	return nil
}

func ValidateStyle(style string) error {
	return validateEnum("Style", style, validStyles)
}

func ValidateDuration(duration string) error {
	return validateEnum("Duration", duration, validDurations)
}

func ValidateResearchDepth(depth string) error {
	return validateEnum("Research depth", depth, validDepths)
}

func ValidateBrandVoice(brandVoice string) error {
	if utf8.RuneCountInString(brandVoice) > 1000 {
		return commonerrors.NewValidationError("Brand voice cannot exceed 1000 characters")
	}
	return nil
}

func validateEnum(field, value string, allowed []string) error {
	for _, v := range allowed {
		if value == v {
			return nil
		}
	}
	return commonerrors.NewValidationError(
		fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}
