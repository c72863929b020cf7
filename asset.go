package distill

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// AssetKind distinguishes images from downloadable files.
type AssetKind string

// Asset kinds.
const (
	AssetImage AssetKind = "image"
	AssetFile  AssetKind = "file"
)

// Asset is a content-addressed media object. The JSON form is the sidecar
// file stored next to the asset bytes.
type Asset struct {
	Hash             string    `json:"hash"`
	Filename         string    `json:"filename"`
	OriginalURL      string    `json:"original_url"`
	Size             int64     `json:"size"`
	MIMEType         string    `json:"mime_type"`
	DownloadedAt     time.Time `json:"downloaded_at"`
	Width            int       `json:"width,omitempty"`
	Height           int       `json:"height,omitempty"`
	AltText          string    `json:"alt_text,omitempty"`
	AltTextGenerated bool      `json:"alt_text_generated,omitempty"`
	LinkText         string    `json:"link_text,omitempty"`

	Kind AssetKind `json:"-"`
}

// AssetRef is a media reference discovered on a page, before download.
type AssetRef struct {
	URL      string
	Kind     AssetKind
	AltText  string
	LinkText string

	// AltTextGenerated marks AltText as produced by a Captioner.
	AltTextGenerated bool
}

// AssetStore stores assets once per distinct byte sequence.
type AssetStore interface {
	// Register stores data under its hash. When the hash is already known
	// only alt text and link text are updated and the stored record is
	// returned.
	Register(ctx context.Context, data []byte, mimeType string, ref AssetRef) (*Asset, error)
}

// Download is the body of a fetched asset.
type Download struct {
	URL      string
	Data     []byte
	MIMEType string
}

// Downloader fetches asset bytes.
type Downloader interface {
	Download(ctx context.Context, url string) (*Download, error)
}

// AssetHash returns the content address of data: the first 16 hex
// characters of its SHA-256 digest.
func AssetHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// skipAssetPatterns mark decorative or UI images.
var skipAssetPatterns = []string{
	"icon", "logo", "menu", "nav", "button", "arrow", "sprite", "header", "footer",
}

// SkipAssetURL reports whether an image URL looks like a UI element rather
// than content. Inline data URIs are skipped as well.
func SkipAssetURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "data:") {
		return true
	}
	for _, p := range skipAssetPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// FileExtensions lists the extensions of downloadable file links.
var FileExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".zip", ".rar", ".txt"}

// IsDownloadableFile reports whether the URL path ends in one of
// FileExtensions.
func IsDownloadableFile(rawURL string) bool {
	ext := urlExtension(rawURL)
	for _, e := range FileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// BestSrcset returns the URL of the largest candidate of a srcset
// attribute. A "w" descriptor is a width; an "x" descriptor is a density
// and ranked as density × 1000. Candidates without a descriptor count as 1x.
// The first candidate wins ties.
func BestSrcset(srcset string) string {
	var best string
	var bestSize float64 = -1
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		size := 1000.0
		if len(fields) > 1 {
			d := strings.ToLower(fields[1])
			switch {
			case strings.HasSuffix(d, "w"):
				v, err := strconv.ParseFloat(strings.TrimSuffix(d, "w"), 64)
				if err != nil {
					continue
				}
				size = v
			case strings.HasSuffix(d, "x"):
				v, err := strconv.ParseFloat(strings.TrimSuffix(d, "x"), 64)
				if err != nil {
					continue
				}
				size = v * 1000
			default:
				continue
			}
		}
		if size > bestSize {
			best, bestSize = fields[0], size
		}
	}
	return best
}

// genericAltTexts carry no information about the image.
var genericAltTexts = map[string]bool{
	"image": true, "img": true, "photo": true, "picture": true, "bild": true,
	"foto": true, "grafik": true, "graphic": true, "banner": true,
	"thumbnail": true, "placeholder": true, "untitled": true,
}

// IsGenericAltText reports whether alt says nothing about the image: it is
// missing or very short, a generic word, the image file name, or a tiny
// phrase.
func IsGenericAltText(alt, imageURL string) bool {
	alt = strings.TrimSpace(alt)
	if utf8.RuneCountInString(alt) < 5 {
		return true
	}
	lower := strings.ToLower(alt)
	if genericAltTexts[lower] {
		return true
	}
	if name := path.Base(urlPath(imageURL)); name != "" && name != "." && name != "/" {
		if lower == strings.ToLower(name) || lower == strings.ToLower(strings.TrimSuffix(name, path.Ext(name))) {
			return true
		}
	}
	if ext := path.Ext(lower); ext != "" && imageExtensions[ext] {
		return true
	}
	return len(strings.Fields(alt)) <= 2 && utf8.RuneCountInString(alt) < 20
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

var imageMIMEExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

var fileMIMEExtensions = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/zip":              ".zip",
	"application/x-rar-compressed": ".rar",
	"text/plain":                   ".txt",
}

// AssetExtension picks the file extension an asset is stored under.
// Images are named after their media type and default to ".jpg". Files
// keep the extension of their URL, else one derived from the media type,
// else ".bin".
func AssetExtension(kind AssetKind, rawURL, mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}

	if kind == AssetImage {
		if ext, ok := imageMIMEExtensions[mediaType]; ok {
			return ext
		}
		return ".jpg"
	}

	if ext := urlExtension(rawURL); ext != "" {
		return ext
	}
	if ext, ok := fileMIMEExtensions[mediaType]; ok {
		return ext
	}
	return ".bin"
}

// urlExtension returns the lowercase extension of the URL path.
func urlExtension(rawURL string) string {
	return strings.ToLower(path.Ext(urlPath(rawURL)))
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

// AssetDiscoverer finds the media referenced by the content of a page.
type AssetDiscoverer interface {
	// DiscoverAssets returns absolute asset URLs in document order without
	// duplicates. UI images matched by SkipAssetURL are left out.
	DiscoverAssets(html, baseURL string, analysis *StructureAnalysis) ([]AssetRef, error)
}
