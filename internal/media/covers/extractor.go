package covers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"
	"os"
	"path"
	"strings"

	"golang.org/x/image/draw"

	"github.com/readwellapp/readwell-server/internal/archive"
)

// thumbnailMaxDim bounds the longer side of stored cover thumbnails.
const thumbnailMaxDim = 600

// jpegQuality for encoded thumbnails.
const jpegQuality = 85

// Extractor pulls cover images out of EPUB containers and stores
// resized JPEG thumbnails.
type Extractor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewExtractor creates an extractor writing through the given storage.
func NewExtractor(storage *Storage, logger *slog.Logger) *Extractor {
	return &Extractor{storage: storage, logger: logger}
}

// Result describes a successfully extracted cover.
type Result struct {
	Path     string // Stored thumbnail path
	BlurHash string // Placeholder hash, may be empty
}

// ExtractEPUBCover locates the cover image declared in an EPUB's package
// document, resizes it, and stores it as {documentID}.jpg. Returns nil
// without error when the EPUB declares no cover.
func (e *Extractor) ExtractEPUBCover(epubPath, documentID string) (*Result, error) {
	data, err := os.ReadFile(epubPath)
	if err != nil {
		return nil, fmt.Errorf("read epub: %w", err)
	}

	r, err := archive.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open epub archive: %w", err)
	}

	coverEntry := findCoverEntry(r)
	if coverEntry == "" {
		e.logger.Debug("epub declares no cover image", "path", epubPath)
		return nil, nil
	}

	raw, err := r.ReadEntry(coverEntry)
	if err != nil {
		return nil, fmt.Errorf("read cover entry %q: %w", coverEntry, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode cover image: %w", err)
	}

	thumbnail := resizeBilinear(img, thumbnailMaxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	if err := e.storage.Save(documentID, buf.Bytes()); err != nil {
		return nil, err
	}

	result := &Result{Path: e.storage.Path(documentID)}
	if hash, err := ComputeBlurHash(thumbnail); err == nil {
		result.BlurHash = hash
	} else {
		e.logger.Warn("failed to compute blurhash", "document_id", documentID, "error", err)
	}

	return result, nil
}

// opfCoverScan is the subset of the package document needed to locate
// a cover: manifest items plus EPUB2-style meta name/content pairs.
type opfCoverScan struct {
	Metadata struct {
		Metas []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			MediaType  string `xml:"media-type,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
}

// findCoverEntry returns the archive entry name of the cover image, or
// "" if none is declared. EPUB3 marks the item with a cover-image
// property; EPUB2 points at a manifest id via <meta name="cover">.
func findCoverEntry(r *archive.Reader) string {
	opfPath, scan := readCoverScan(r)
	if scan == nil {
		return ""
	}
	opfDir := path.Dir(opfPath)
	if opfDir == "." {
		opfDir = ""
	}

	for _, item := range scan.Manifest.Items {
		if strings.Contains(item.Properties, "cover-image") {
			return resolveEntry(opfDir, item.Href)
		}
	}

	for _, meta := range scan.Metadata.Metas {
		if !strings.EqualFold(meta.Name, "cover") || meta.Content == "" {
			continue
		}
		for _, item := range scan.Manifest.Items {
			if item.ID == meta.Content {
				return resolveEntry(opfDir, item.Href)
			}
		}
	}

	// Last resort: a manifest image whose id or href mentions "cover".
	for _, item := range scan.Manifest.Items {
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") ||
			strings.Contains(strings.ToLower(item.Href), "cover") {
			return resolveEntry(opfDir, item.Href)
		}
	}
	return ""
}

func readCoverScan(r *archive.Reader) (string, *opfCoverScan) {
	var candidates []string

	if data, err := r.ReadEntry("META-INF/container.xml"); err == nil {
		var c struct {
			Rootfiles []struct {
				FullPath string `xml:"full-path,attr"`
			} `xml:"rootfiles>rootfile"`
		}
		if xml.Unmarshal(data, &c) == nil {
			for _, rf := range c.Rootfiles {
				if rf.FullPath != "" {
					candidates = append(candidates, rf.FullPath)
				}
			}
		}
	}
	candidates = append(candidates,
		"OEBPS/content.opf", "EPUB/content.opf", "OPS/content.opf", "content.opf")

	for _, candidate := range candidates {
		data, err := r.ReadEntry(candidate)
		if err != nil {
			continue
		}
		var scan opfCoverScan
		if xml.Unmarshal(data, &scan) == nil {
			return candidate, &scan
		}
	}
	return "", nil
}

func resolveEntry(opfDir, href string) string {
	href = strings.TrimPrefix(href, "./")
	href = strings.TrimPrefix(href, "/")
	if opfDir == "" {
		return href
	}
	return path.Clean(path.Join(opfDir, href))
}

// resizeBilinear scales an image down to fit within maxDim on its longer
// side, preserving aspect ratio. Images already small enough pass through.
func resizeBilinear(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxDim && srcHeight <= maxDim {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = maxDim
		dstHeight = max((srcHeight*maxDim)/srcWidth, 1)
	} else {
		dstHeight = maxDim
		dstWidth = max((srcWidth*maxDim)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
