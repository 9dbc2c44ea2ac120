package util

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// UploadKey names an uploaded file "<unix millis>-<sanitized name>".
func UploadKey(now time.Time, fileName string) (string, error) {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name, nil
}

// SlotKey names a directly uploaded file "uploads/<documentType>/<sanitized name>".
func SlotKey(documentType, fileName string) (string, error) {
	docType, err := SanitizeFileName(documentType)
	if err != nil {
		return "", errors.New("invalid document type")
	}
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return "uploads/" + docType + "/" + name, nil
}
