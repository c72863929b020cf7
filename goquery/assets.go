package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure AssetDiscoverer implements distill.AssetDiscoverer at compile time.
var _ distill.AssetDiscoverer = (*AssetDiscoverer)(nil)

// AssetDiscoverer finds images and downloadable files in the content region
// of a page.
type AssetDiscoverer struct{}

// NewAssetDiscoverer creates a new AssetDiscoverer.
func NewAssetDiscoverer() *AssetDiscoverer {
	return &AssetDiscoverer{}
}

// DiscoverAssets returns the images and file links inside the main region
// of analysis, with the excluded regions removed. Without a usable analysis
// the whole body is searched.
//
// An image is located by the largest srcset candidate, then src, then
// data-src. UI images are skipped.
func (d *AssetDiscoverer) DiscoverAssets(rawHTML, baseURL string, analysis *distill.StructureAnalysis) ([]distill.AssetRef, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parse(rawHTML)
	if err != nil {
		return nil, err
	}

	region := contentRegion(doc, analysis)

	seen := make(map[string]bool)
	refs := []distill.AssetRef{}
	region.Find("img, a[href]").Each(func(_ int, s *goquery.Selection) {
		var ref distill.AssetRef
		if goquery.NodeName(s) == "img" {
			src := imageSource(s)
			if src == "" {
				return
			}
			ref = distill.AssetRef{
				URL:     absoluteURL(base, src),
				Kind:    distill.AssetImage,
				AltText: strings.TrimSpace(s.AttrOr("alt", "")),
			}
			if ref.URL == "" || distill.SkipAssetURL(ref.URL) {
				return
			}
		} else {
			ref = distill.AssetRef{
				URL:      absoluteURL(base, s.AttrOr("href", "")),
				Kind:     distill.AssetFile,
				LinkText: strings.Join(strings.Fields(s.Text()), " "),
			}
			if ref.URL == "" || !distill.IsDownloadableFile(ref.URL) {
				return
			}
		}
		if seen[ref.URL] {
			return
		}
		seen[ref.URL] = true
		refs = append(refs, ref)
	})

	return refs, nil
}

// contentRegion returns the main region of doc with exclusions removed,
// or the body when analysis gives no usable main locator.
func contentRegion(doc *goquery.Document, analysis *distill.StructureAnalysis) *goquery.Selection {
	if analysis == nil {
		return doc.Find("body")
	}

	region := doc.Find("body")
	if !analysis.Fallback && !analysis.Main.IsZero() {
		if main := resolve(doc, analysis.Main); main.Length() > 0 {
			region = main
		}
	}

	if region.Length() > 0 {
		removeExcluded(doc, analysis.Exclude, region.Nodes[0])
	}
	return region
}

// imageSource returns the best source attribute of an img element.
func imageSource(s *goquery.Selection) string {
	if srcset := strings.TrimSpace(s.AttrOr("srcset", "")); srcset != "" {
		if best := distill.BestSrcset(srcset); best != "" {
			return best
		}
	}
	if src := strings.TrimSpace(s.AttrOr("src", "")); src != "" {
		return src
	}
	return strings.TrimSpace(s.AttrOr("data-src", ""))
}
