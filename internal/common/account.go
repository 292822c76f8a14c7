package common

import (
	"path/filepath"
	"regexp"
	"strings"
)

// AccountIdentifier is an account id together with where it was found.
type AccountIdentifier struct {
	ID     string
	Source string // "flag", "content", "filename" or "default"
}

// CAMT.053_{account}_{start_date}_{end_date}_{sequence}.{ext}
var camtFilenamePattern = regexp.MustCompile(`^CAMT\.053_([0-9A-Za-z]+)_\d{4}-\d{2}-\d{2}_\d{4}-\d{2}-\d{2}_\d+\.(xml|csv)$`)

var unsafeAccountChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// ResolveAccount picks the account an input file belongs to: an explicit id
// wins, then an id read from the file content, then the CAMT filename
// pattern, then the sanitized base filename.
func ResolveAccount(explicit, fromContent, filename string) AccountIdentifier {
	if id := strings.TrimSpace(explicit); id != "" {
		return AccountIdentifier{ID: id, Source: "flag"}
	}
	if id := strings.TrimSpace(fromContent); id != "" {
		return AccountIdentifier{ID: id, Source: "content"}
	}
	base := filepath.Base(filename)
	if m := camtFilenamePattern.FindStringSubmatch(base); len(m) >= 2 {
		return AccountIdentifier{ID: m[1], Source: "filename"}
	}
	return AccountIdentifier{
		ID:     SanitizeAccountID(strings.TrimSuffix(base, filepath.Ext(base))),
		Source: "default",
	}
}

// SanitizeAccountID makes an account id safe to use in a file name.
func SanitizeAccountID(accountID string) string {
	s := unsafeAccountChars.ReplaceAllString(strings.TrimSpace(accountID), "_")
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", "_")
	}
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_.")
	if s == "" {
		return "UNKNOWN"
	}
	return s
}
