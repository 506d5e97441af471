package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// refCode builds a short human-readable reference like ORD-3F2A91BC.
func refCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// GenerateOrderNo generates a human-readable order number
func GenerateOrderNo() string {
	return refCode("ORD")
}

// GeneratePurchaseNo generates a unique purchase number
func GeneratePurchaseNo() string {
	return refCode("PUR")
}

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return refCode("PROD")
}
