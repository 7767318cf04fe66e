package docx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strconv"
	"strings"

	"github.com/gondimadv/arbitral/internal/common"
)

// EMUPerInch is the drawing unit of WordprocessingML extents.
const EMUPerInch = 914400

const (
	contentTypesPart = "[Content_Types].xml"
	documentRelsPart = "word/_rels/document.xml.rels"

	imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var relIDRe = regexp.MustCompile(`Id="rId(\d+)"`)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
}

// ReplaceWithImage swaps a body paragraph for a centered inline picture.
// The image is scaled to the given width keeping its aspect ratio. Only
// paragraphs of the main document part can host pictures, since the
// relationship is registered against word/document.xml.
func (d *Document) ReplaceWithImage(p *Paragraph, img []byte, widthEMU int64) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	contentType, ok := imageContentTypes[format]
	if !ok {
		return fmt.Errorf("unsupported image format %q: %w", format, common.ErrInvalidInput)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("image has no dimensions: %w", common.ErrInvalidInput)
	}
	heightEMU := widthEMU * int64(cfg.Height) / int64(cfg.Width)

	d.images++
	mediaName := fmt.Sprintf("word/media/petimage%d.%s", d.images, format)
	for {
		if _, exists := d.byName[mediaName]; !exists {
			break
		}
		d.images++
		mediaName = fmt.Sprintf("word/media/petimage%d.%s", d.images, format)
	}
	d.setEntry(mediaName, img)

	if err := d.registerDefaultContentType(format, contentType); err != nil {
		return err
	}
	relID, err := d.addImageRelationship(strings.TrimPrefix(mediaName, "word/"))
	if err != nil {
		return err
	}

	p.setXML(inlineImageXML(relID, d.images, widthEMU, heightEMU))
	return nil
}

func (d *Document) registerDefaultContentType(ext, contentType string) error {
	data, ok := d.entryData(contentTypesPart)
	if !ok {
		return fmt.Errorf("archive has no %s: %w", contentTypesPart, common.ErrInvalidInput)
	}
	content := string(data)
	if strings.Contains(content, `Extension="`+ext+`"`) {
		return nil
	}
	def := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, contentType)
	updated := strings.Replace(content, "</Types>", def+"</Types>", 1)
	if updated == content {
		return fmt.Errorf("malformed %s: %w", contentTypesPart, common.ErrInvalidInput)
	}
	d.setEntry(contentTypesPart, []byte(updated))
	return nil
}

func (d *Document) addImageRelationship(target string) (string, error) {
	data, ok := d.entryData(documentRelsPart)
	if !ok {
		data = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)
	}
	content := string(data)

	maxID := 0
	for _, m := range relIDRe.FindAllStringSubmatch(content, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
			maxID = n
		}
	}
	relID := fmt.Sprintf("rId%d", maxID+1)

	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, relID, imageRelType, target)
	updated := strings.Replace(content, "</Relationships>", rel+"</Relationships>", 1)
	if updated == content {
		return "", fmt.Errorf("malformed %s: %w", documentRelsPart, common.ErrInvalidInput)
	}
	d.setEntry(documentRelsPart, []byte(updated))
	return relID, nil
}

func inlineImageXML(relID string, index int, cx, cy int64) string {
	name := fmt.Sprintf("Imagem %d", index)
	return `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>` +
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
		fmt.Sprintf(`<wp:extent cx="%d" cy="%d"/>`, cx, cy) +
		fmt.Sprintf(`<wp:docPr id="%d" name="%s"/>`, index, name) +
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		fmt.Sprintf(`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`, index, name) +
		fmt.Sprintf(`<pic:blipFill><a:blip r:embed="%s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, relID) +
		fmt.Sprintf(`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`, cx, cy) +
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`
}
