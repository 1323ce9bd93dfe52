package parser

import (
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/readwellapp/readwell-server/internal/archive"
	"github.com/readwellapp/readwell-server/internal/errors"
)

// Defaults for EPUB metadata fields absent from the package document.
const (
	defaultEPUBTitle    = "Unknown EPUB"
	defaultEPUBAuthor   = "Unknown"
	defaultEPUBLanguage = "en"
)

const epubPlaceholderText = "This EPUB could not be parsed. The file may be corrupt or use an unsupported layout."

// defaultRootfilePaths are tried when META-INF/container.xml is missing
// or malformed. Real-world EPUBs vary; these cover the common layouts.
var defaultRootfilePaths = []string{
	"OEBPS/content.opf",
	"EPUB/content.opf",
	"OPS/content.opf",
	"content.opf",
}

// container.xml structure (OCF).
type ocfContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// Package document (OPF) structure. Dublin Core fields are optional.
type opfPackage struct {
	Metadata struct {
		Title       string `xml:"title"`
		Creator     string `xml:"creator"`
		Description string `xml:"description"`
		Language    string `xml:"language"`
		Publisher   string `xml:"publisher"`
		Date        string `xml:"date"`
	} `xml:"metadata"`
	Manifest struct {
		Items []opfItem `xml:"item"`
	} `xml:"manifest"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// parseEPUB extracts metadata, chapters, and flattened text from an EPUB
// container. Any failure along the way degrades to default metadata and
// placeholder text; the caller always receives usable content.
func (p *Parser) parseEPUB(path string) *ParsedContent {
	content := &ParsedContent{
		Title:       defaultEPUBTitle,
		Author:      defaultEPUBAuthor,
		Language:    defaultEPUBLanguage,
		Placeholder: epubPlaceholderText,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		p.logger.Warn("failed to read epub", "path", path, "error", err)
		return content
	}

	r, err := archive.Open(data)
	if err != nil {
		p.logger.Warn("epub is not a valid archive", "path", path, "error", err)
		return content
	}

	opfPath, pkg, err := readPackageDocument(r)
	if err != nil {
		p.logger.Warn("failed to locate epub package document", "path", path, "error", err)
		return content
	}

	if t := strings.TrimSpace(pkg.Metadata.Title); t != "" {
		content.Title = t
	}
	if a := strings.TrimSpace(pkg.Metadata.Creator); a != "" {
		content.Author = a
	}
	if l := strings.TrimSpace(pkg.Metadata.Language); l != "" {
		content.Language = l
	}
	content.Publisher = strings.TrimSpace(pkg.Metadata.Publisher)
	content.PublishDate = strings.TrimSpace(pkg.Metadata.Date)
	if d := strings.TrimSpace(pkg.Metadata.Description); d != "" {
		content.Description = htmlToMarkdown(d)
	}

	opfDir := dirOf(opfPath)
	content.Chapters = buildChapters(r, pkg, opfDir)

	content.Text = flattenChapters(r, content.Chapters, opfDir)

	return content
}

// readPackageDocument finds and parses the OPF package document, going
// through container.xml first and the conventional default paths after.
func readPackageDocument(r *archive.Reader) (string, *opfPackage, error) {
	var candidates []string

	if data, err := r.ReadEntry("META-INF/container.xml"); err == nil {
		var c ocfContainer
		if err := xml.Unmarshal(data, &c); err == nil {
			for _, rf := range c.Rootfiles {
				if rf.FullPath != "" {
					candidates = append(candidates, rf.FullPath)
				}
			}
		}
	}
	candidates = append(candidates, defaultRootfilePaths...)

	for _, candidate := range candidates {
		data, err := r.ReadEntry(candidate)
		if err != nil {
			continue
		}
		var pkg opfPackage
		if err := xml.Unmarshal(data, &pkg); err != nil {
			continue
		}
		return candidate, &pkg, nil
	}
	return "", nil, fmt.Errorf("no package document found")
}

// buildChapters lists the HTML manifest items in declared order, using
// the navigation document's labels when one exists and synthesized
// "Chapter N" titles otherwise.
func buildChapters(r *archive.Reader, pkg *opfPackage, opfDir string) []Chapter {
	var chapters []Chapter
	order := 1
	for _, item := range pkg.Manifest.Items {
		if !isHTMLMediaType(item.MediaType) {
			continue
		}
		// The navigation document describes the book, it is not a chapter.
		if strings.Contains(item.Properties, "nav") {
			continue
		}
		chapters = append(chapters, Chapter{
			ID:    item.ID,
			Title: fmt.Sprintf("Chapter %d", order),
			Href:  item.Href,
			Order: order,
		})
		order++
	}

	labels := readNavLabels(r, pkg, opfDir)
	if len(labels) == 0 {
		return chapters
	}
	for i := range chapters {
		if label, ok := labels[normalizeHref(chapters[i].Href)]; ok {
			chapters[i].Title = label
		}
	}
	return chapters
}

// readNavLabels extracts (href -> label) pairs from the EPUB3 navigation
// document, falling back to the EPUB2 NCX. Missing or unparseable
// navigation yields no labels, never an error.
func readNavLabels(r *archive.Reader, pkg *opfPackage, opfDir string) map[string]string {
	for _, item := range pkg.Manifest.Items {
		if !strings.Contains(item.Properties, "nav") {
			continue
		}
		data, err := r.ReadEntry(joinHref(opfDir, item.Href))
		if err != nil {
			continue
		}
		if labels := parseNavDocument(string(data)); len(labels) > 0 {
			return labels
		}
	}

	for _, item := range pkg.Manifest.Items {
		if item.MediaType != "application/x-dtbncx+xml" {
			continue
		}
		data, err := r.ReadEntry(joinHref(opfDir, item.Href))
		if err != nil {
			continue
		}
		if labels := parseNCX(data); len(labels) > 0 {
			return labels
		}
	}
	return nil
}

// parseNavDocument pulls anchor (href, text) pairs out of an EPUB3 nav file.
func parseNavDocument(src string) map[string]string {
	labels := make(map[string]string)
	for _, anchor := range extractAnchors(src) {
		href := normalizeHref(anchor.href)
		if href == "" || anchor.label == "" {
			continue
		}
		if _, seen := labels[href]; !seen {
			labels[href] = anchor.label
		}
	}
	return labels
}

type ncxDocument struct {
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxNavPoint struct {
	Label   string `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// parseNCX pulls (src, label) pairs out of an EPUB2 NCX table of contents.
func parseNCX(data []byte) map[string]string {
	var ncx ncxDocument
	if err := xml.Unmarshal(data, &ncx); err != nil {
		return nil
	}

	labels := make(map[string]string)
	var collect func(points []ncxNavPoint)
	collect = func(points []ncxNavPoint) {
		for _, np := range points {
			href := normalizeHref(np.Content.Src)
			label := strings.TrimSpace(np.Label)
			if href != "" && label != "" {
				if _, seen := labels[href]; !seen {
					labels[href] = label
				}
			}
			collect(np.Children)
		}
	}
	collect(ncx.NavPoints)
	return labels
}

// flattenChapters concatenates the visible text of every chapter,
// separated by blank lines. Unreadable chapters are skipped.
func flattenChapters(r *archive.Reader, chapters []Chapter, opfDir string) string {
	var parts []string
	for _, ch := range chapters {
		data, err := readChapterEntry(r, opfDir, ch.Href)
		if err != nil {
			continue
		}
		if text := extractVisibleText(string(data)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ChapterContent retrieves one chapter's visible text on demand.
// Returns errors.ErrChapterNotFound when the href cannot be resolved
// against the archive even after path normalization.
func (p *Parser) ChapterContent(epubPath, href string) (string, error) {
	data, err := os.ReadFile(epubPath)
	if err != nil {
		return "", errors.SourceUnavailable(fmt.Sprintf("cannot read %s", epubPath)).WithCause(err)
	}

	r, err := archive.Open(data)
	if err != nil {
		return "", err
	}

	opfPath, _, err := readPackageDocument(r)
	if err != nil {
		return "", errors.ChapterNotFoundf("chapter %q not found: no package document", href)
	}

	entry, err := readChapterEntry(r, dirOf(opfPath), href)
	if err != nil {
		return "", errors.ChapterNotFoundf("chapter %q not found in archive", href)
	}
	return extractVisibleText(string(entry)), nil
}

// readChapterEntry resolves a chapter href relative to the package
// document's directory, trying a small set of path normalizations
// before giving up.
func readChapterEntry(r *archive.Reader, opfDir, href string) ([]byte, error) {
	href = normalizeHref(href)

	candidates := []string{
		joinHref(opfDir, href),
		href,
		strings.TrimPrefix(href, "/"),
		path.Clean(strings.TrimPrefix(href, "/")),
	}

	var lastErr error
	for _, candidate := range candidates {
		if candidate == "" || candidate == "." {
			continue
		}
		data, err := r.ReadEntry(candidate)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// normalizeHref strips fragments and leading ./ segments from a href.
func normalizeHref(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimPrefix(href, "./")
	return strings.TrimSpace(href)
}

// joinHref resolves href against the directory dir within the archive.
func joinHref(dir, href string) string {
	href = strings.TrimPrefix(normalizeHref(href), "/")
	if dir == "" || dir == "." {
		return href
	}
	return path.Clean(path.Join(dir, href))
}

func dirOf(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

func isHTMLMediaType(mt string) bool {
	switch mt {
	case "application/xhtml+xml", "text/html", "application/html":
		return true
	}
	return false
}
