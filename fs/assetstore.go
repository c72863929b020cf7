package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/distill"
	_ "golang.org/x/image/webp"
)

// Ensure AssetStore implements distill.AssetStore at compile time.
var _ distill.AssetStore = (*AssetStore)(nil)

// Asset directories, relative to the store root.
const (
	ImagesDir = "assets/images"
	FilesDir  = "assets/files"
)

// AssetStore stores assets by content address. Each distinct byte sequence
// is written once as <hash><ext> next to a <hash>.json sidecar holding its
// distill.Asset record. It is safe for concurrent use.
type AssetStore struct {
	root string
	now  func() time.Time

	mu     sync.Mutex
	assets map[string]*distill.Asset
}

// NewAssetStore returns an AssetStore rooted at dir.
func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{
		root:   dir,
		now:    time.Now,
		assets: make(map[string]*distill.Asset),
	}
}

// Register stores data and returns its record. Known assets, whether seen
// by this store or found on disk, are not written again; only their alt
// text and link text are updated from ref.
func (s *AssetStore) Register(ctx context.Context, data []byte, mimeType string, ref distill.AssetRef) (*distill.Asset, error) {
	if len(data) == 0 {
		return nil, distill.Errorf(distill.EINVALID, "empty asset %q", ref.URL)
	}

	hash := distill.AssetHash(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[hash]
	if !ok {
		var err error
		if a, err = s.findSidecar(hash, ref.Kind); err != nil {
			return nil, err
		}
	}

	// A known asset keeps its kind and directory, whatever ref calls it.
	if a != nil {
		if mergeRef(a, ref) {
			if err := writeJSON(sidecarPath(s.dir(a.Kind), hash), a); err != nil {
				return nil, err
			}
		}
		s.assets[hash] = a
		return copyAsset(a), nil
	}

	a = &distill.Asset{
		Hash:             hash,
		Filename:         hash + distill.AssetExtension(ref.Kind, ref.URL, mimeType),
		OriginalURL:      ref.URL,
		Size:             int64(len(data)),
		MIMEType:         mimeType,
		DownloadedAt:     s.now().UTC(),
		AltText:          ref.AltText,
		AltTextGenerated: ref.AltText != "" && ref.AltTextGenerated,
		LinkText:         ref.LinkText,
		Kind:             ref.Kind,
	}
	if ref.Kind == distill.AssetImage {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			a.Width, a.Height = cfg.Width, cfg.Height
		}
	}

	dir := s.dir(ref.Kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, a.Filename), data, 0644); err != nil {
		return nil, err
	}
	if err := writeJSON(sidecarPath(dir, hash), a); err != nil {
		return nil, err
	}

	s.assets[hash] = a
	return copyAsset(a), nil
}

// mergeRef copies reference text from ref into a. An authored alt text
// replaces a generated one; otherwise only missing values are filled. It
// reports whether a changed.
func mergeRef(a *distill.Asset, ref distill.AssetRef) bool {
	changed := false
	switch {
	case ref.AltText == "":
	case a.AltText == "", a.AltTextGenerated && !ref.AltTextGenerated:
		a.AltText = ref.AltText
		a.AltTextGenerated = ref.AltTextGenerated
		changed = true
	}
	if a.LinkText == "" && ref.LinkText != "" {
		a.LinkText = ref.LinkText
		changed = true
	}
	return changed
}

// findSidecar looks for the record of hash on disk, first under the
// directory of kind and then under the other one, and sets its Kind from
// where it was found.
func (s *AssetStore) findSidecar(hash string, kind distill.AssetKind) (*distill.Asset, error) {
	other := distill.AssetFile
	if kind == distill.AssetFile {
		other = distill.AssetImage
	}
	for _, k := range []distill.AssetKind{kind, other} {
		a, err := readSidecar(s.dir(k), hash)
		if err != nil {
			return nil, err
		}
		if a != nil {
			a.Kind = k
			return a, nil
		}
	}
	return nil, nil
}

func (s *AssetStore) dir(kind distill.AssetKind) string {
	return filepath.Join(s.root, assetDir(kind))
}

// readSidecar loads the record of hash from dir. It returns nil when the
// asset has never been stored there.
func readSidecar(dir, hash string) (*distill.Asset, error) {
	buf, err := os.ReadFile(sidecarPath(dir, hash))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var a distill.Asset
	if err := json.Unmarshal(buf, &a); err != nil {
		return nil, distill.Errorf(distill.EINTERNAL, "corrupt asset sidecar %s: %v", hash, err)
	}
	return &a, nil
}

func sidecarPath(dir, hash string) string {
	return filepath.Join(dir, hash+".json")
}

func assetDir(kind distill.AssetKind) string {
	if kind == distill.AssetFile {
		return filepath.FromSlash(FilesDir)
	}
	return filepath.FromSlash(ImagesDir)
}

func copyAsset(a *distill.Asset) *distill.Asset {
	c := *a
	return &c
}
