package template

import (
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/gondimadv/arbitral/internal/common"
)

// maxPlaceholders caps the scan result so a pathological template cannot
// balloon the metadata file.
const maxPlaceholders = 50

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\([^)]{5,}\)`),
	regexp.MustCompile(`XXXXX+`),
	regexp.MustCompile(`\{[^}]+\}`),
}

var xmlTagRe = regexp.MustCompile(`<[^>]*>`)

var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// ScanPlaceholders opens a template and extracts the distinct
// placeholder-like fragments of its text: parenthesized instructions of
// five or more characters, runs of X capitals, and brace expressions.
// Doubles as the upload validation that the file is a readable .docx.
func ScanPlaceholders(path string) ([]string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read template")
	}
	defer r.Close()

	text := entityDecoder.Replace(xmlTagRe.ReplaceAllString(r.Editable().GetContent(), ""))

	seen := make(map[string]bool)
	var out []string
	for _, re := range placeholderPatterns {
		for _, m := range re.FindAllString(text, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			if len(out) == maxPlaceholders {
				return out, nil
			}
		}
	}
	return out, nil
}
