package docx

import (
	"regexp"
	"strings"
)

var (
	paragraphRe = regexp.MustCompile(`(?s)<w:p(?:/>|(?:\s[^>]*)?>.*?</w:p>)`)
	runRe       = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*)?>.*?</w:r>`)
	runPropsRe  = regexp.MustCompile(`(?s)<w:rPr(?:\s[^>]*)?>.*?</w:rPr>`)
	paraPropsRe = regexp.MustCompile(`(?s)^<w:p(?:\s[^>]*)?>(?:<w:pPr(?:\s[^>]*)?>.*?</w:pPr>|<w:pPr/>)?`)
	textRe      = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
)

// Part is one XML part of the archive, split into paragraph and
// non-paragraph segments so edits can be reassembled byte-exactly.
type Part struct {
	Name     string
	segments []segment
}

type segment struct {
	raw  string
	para *Paragraph
}

// Paragraph is a single <w:p> element.
type Paragraph struct {
	xml     string
	inTable bool
}

func parsePart(name, content string) *Part {
	part := &Part{Name: name}
	tables := tableRanges(content)

	prev := 0
	for _, loc := range paragraphRe.FindAllStringIndex(content, -1) {
		if loc[0] > prev {
			part.segments = append(part.segments, segment{raw: content[prev:loc[0]]})
		}
		part.segments = append(part.segments, segment{para: &Paragraph{
			xml:     content[loc[0]:loc[1]],
			inTable: inAnyRange(tables, loc[0]),
		}})
		prev = loc[1]
	}
	if prev < len(content) {
		part.segments = append(part.segments, segment{raw: content[prev:]})
	}
	return part
}

// tableRanges returns the [start, end) offsets of top-level <w:tbl>
// elements, tracking nesting depth.
func tableRanges(content string) [][2]int {
	var ranges [][2]int
	depth, start := 0, 0
	for i := 0; i < len(content); {
		open := strings.Index(content[i:], "<w:tbl>")
		end := strings.Index(content[i:], "</w:tbl>")
		switch {
		case open >= 0 && (end < 0 || open < end):
			if depth == 0 {
				start = i + open
			}
			depth++
			i += open + len("<w:tbl>")
		case end >= 0:
			depth--
			if depth == 0 {
				ranges = append(ranges, [2]int{start, i + end + len("</w:tbl>")})
			}
			i += end + len("</w:tbl>")
		default:
			return ranges
		}
	}
	return ranges
}

func inAnyRange(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// Paragraphs lists the part's paragraphs in document order.
func (p *Part) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, s := range p.segments {
		if s.para != nil {
			out = append(out, s.para)
		}
	}
	return out
}

func (p *Part) render() string {
	var sb strings.Builder
	for _, s := range p.segments {
		if s.para != nil {
			sb.WriteString(s.para.xml)
		} else {
			sb.WriteString(s.raw)
		}
	}
	return sb.String()
}

// InTable reports whether the paragraph sits inside a table cell.
func (p *Paragraph) InTable() bool { return p.inTable }

// Text concatenates the paragraph's <w:t> contents.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, m := range textRe.FindAllStringSubmatch(p.xml, -1) {
		sb.WriteString(unescapeXML(m[1]))
	}
	return sb.String()
}

// SetText replaces the paragraph's runs with a single run holding the
// given text. The first run's character properties carry over so the
// rewritten paragraph keeps its original formatting.
func (p *Paragraph) SetText(text string) {
	var rPr string
	if run := runRe.FindString(p.xml); run != "" {
		rPr = runPropsRe.FindString(run)
	}

	head := paraPropsRe.FindString(p.xml)
	switch {
	case head == "":
		head = "<w:p>"
	case head == p.xml && strings.HasSuffix(head, "/>"):
		// Self-closing paragraph with attributes: reopen it.
		head = strings.TrimSuffix(head, "/>") + ">"
	}

	p.xml = head +
		"<w:r>" + rPr +
		`<w:t xml:space="preserve">` + escapeXML(text) + "</w:t>" +
		"</w:r></w:p>"
}

// setXML swaps the paragraph element wholesale. Used for image insertion.
func (p *Paragraph) setXML(xml string) { p.xml = xml }

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func escapeXML(s string) string   { return xmlEscaper.Replace(s) }
func unescapeXML(s string) string { return xmlUnescaper.Replace(s) }
