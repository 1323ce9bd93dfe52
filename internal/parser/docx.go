package parser

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/readwellapp/readwell-server/internal/archive"
)

const docxPlaceholderText = "This DOCX could not be parsed. The file may be corrupt or use an unsupported layout."

// parseDOCX extracts text from an OOXML word-processing document.
// DOCX carries no reliably usable metadata on this path, so only the
// text is populated. Mirrors the EPUB failure policy: degrade, never fail.
func (p *Parser) parseDOCX(path string) *ParsedContent {
	content := &ParsedContent{
		Title:       "Unknown DOCX",
		Placeholder: docxPlaceholderText,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		p.logger.Warn("failed to read docx", "path", path, "error", err)
		return content
	}

	r, err := archive.Open(data)
	if err != nil {
		p.logger.Warn("docx is not a valid archive", "path", path, "error", err)
		return content
	}

	body, err := r.ReadEntry("word/document.xml")
	if err != nil {
		p.logger.Warn("docx has no document part", "path", path, "error", err)
		return content
	}

	content.Text = extractDOCXText(body)
	return content
}

// extractDOCXText walks the WordprocessingML token stream, collecting
// the character data of <w:t> runs and breaking paragraphs at </w:p>.
func extractDOCXText(body []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))

	var paragraphs []string
	var current strings.Builder
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				if text := collapseWhitespace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inTextRun {
				current.Write(t)
			}
		}
	}
	if text := collapseWhitespace(current.String()); text != "" {
		paragraphs = append(paragraphs, text)
	}

	return strings.Join(paragraphs, "\n\n")
}
