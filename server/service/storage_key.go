package service

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filenames without an extension are stored as unknown binary data.
const fallbackExtension = ".bin"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// MakeStorageKey derives the object key for one upload attempt:
//
//	YYYYMMDD_HHMMSS_<tok>_<sanitized-base><ext>
//
// The timestamp is UTC at second granularity; <tok> is 8 hex characters of a
// fresh UUID, so two uploads of the same name within the same second still get
// distinct keys. Keys contain only [A-Za-z0-9_.-] and are never reused.
func MakeStorageKey(originalName string) (string, error) {
	trimmed := strings.TrimSpace(originalName)
	if trimmed == "" {
		return "", rejectedInput("filename is required")
	}

	// Clients may send a full path; only the last segment matters.
	base := filepath.Base(trimmed)
	rawExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, rawExt)
	ext := strings.ToLower(rawExt)
	if ext == "" {
		ext = fallbackExtension
	}

	safeStem := unsafeKeyChars.ReplaceAllString(stem, "_")
	if safeStem == "" {
		return "", rejectedInput("filename sanitizes to an empty name")
	}
	safeExt := unsafeKeyChars.ReplaceAllString(ext, "_")

	id := uuid.New()
	return fmt.Sprintf("%s_%x_%s%s",
		time.Now().UTC().Format("20060102_150405"), id[:4], safeStem, safeExt), nil
}
