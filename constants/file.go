package constants

import "strings"

// InputFormats holds the annotation input formats accepted by the CLI.
var InputFormats = []string{"JSON", "XLSX"}

// AllowedExtensions holds the allowed file extensions for annotation input.
var AllowedExtensions = map[string]struct{}{
	"json": {},
	"xlsx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
