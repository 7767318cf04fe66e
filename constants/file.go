package constants

import "strings"

// SpreadsheetExtensions holds the allowed extensions for contract spreadsheets.
var SpreadsheetExtensions = map[string]struct{}{
	"xlsx": {},
	"xls":  {},
}

// TemplateExtensions holds the allowed extensions for filing templates.
var TemplateExtensions = map[string]struct{}{
	"docx": {},
}

// PrintExtensions holds the allowed extensions for clause print uploads.
var PrintExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// ClauseImageVariants is the lookup order for clause images keyed by contract
// number. Both cases are tried because the prints come from several machines.
var ClauseImageVariants = []string{".png", ".jpg", ".jpeg", ".PNG", ".JPG", ".JPEG"}

// MaxUploadSize caps multipart uploads (spreadsheets, templates and prints).
const MaxUploadSize = 50 << 20

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// HasAllowedExtension reports whether the filename carries one of the allowed
// extensions.
func HasAllowedExtension(filename string, allowed map[string]struct{}) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	_, ok := allowed[NormalizeExt(filename[idx:])]
	return ok
}
