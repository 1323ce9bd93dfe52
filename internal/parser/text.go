package parser

import "os"

// parseText reads the file as plain text. Metadata is left empty; the
// metrics calculator derives everything from the text itself.
func (p *Parser) parseText(path string) *ParsedContent {
	data, err := os.ReadFile(path)
	if err != nil {
		p.logger.Warn("failed to read text file", "path", path, "error", err)
		return &ParsedContent{Placeholder: "Could not read this file."}
	}
	return &ParsedContent{Text: string(data)}
}
