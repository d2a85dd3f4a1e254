package wiki

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Wikimedia serves downscaled thumbnails whose URLs carry the width as a
// "/NNNpx-" path segment. Narrow thumbnails are rewritten to this width.
const desiredImageWidthPx = 2000

var thumbWidthRe = regexp.MustCompile(`/(\d+)px-`)

// extractDailyImage locates the picture-of-the-day section by its heading
// and returns the best image URL together with the caption text. It never
// touches the network.
func extractDailyImage(doc *goquery.Document, heading string) (string, string, error) {
	headingSel := findHeading(doc, heading)
	if headingSel == nil {
		return "", "", fmt.Errorf("heading %q is missing", heading)
	}

	img := followingBlock(headingSel).Find("img").First()
	if img.Length() == 0 {
		return "", "", errors.New("image tag is missing")
	}

	imageURL := imageURLFromTag(img)
	if imageURL == "" {
		return "", "", errors.New("image URL is missing")
	}

	return imageURL, captionAfterBreak(img), nil
}

func findHeading(doc *goquery.Document, heading string) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), heading) {
			found = s
			return false
		}

		return true
	})

	return found
}

// followingBlock returns the content block after the heading. Depending on
// the skin the h2 is either a sibling of the block or wrapped in a heading
// container, so both levels are tried.
func followingBlock(heading *goquery.Selection) *goquery.Selection {
	block := heading.NextAllFiltered("div").First()
	if block.Length() == 0 {
		block = heading.Parent().NextAllFiltered("div").First()
	}

	return block
}

func imageURLFromTag(img *goquery.Selection) string {
	if srcset, ok := img.Attr("srcset"); ok {
		if u := highestResSrcset(srcset); u != "" {
			return absoluteImageURL(u)
		}
	}

	if src, ok := img.Attr("src"); ok {
		return absoluteImageURL(src)
	}

	return ""
}

// highestResSrcset picks the URL of the last srcset entry, which Wikimedia
// orders from lowest to highest density.
func highestResSrcset(srcset string) string {
	var last string

	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(entry)
		if len(fields) > 0 {
			last = fields[0]
		}
	}

	return last
}

func absoluteImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}

	return raw
}

// captionAfterBreak collects the text that follows the first <br> inside
// the image's figure block, which is where the main page keeps the
// caption.
func captionAfterBreak(img *goquery.Selection) string {
	figure := img.Closest("div")
	if figure.Length() == 0 {
		return ""
	}

	br := figure.Find("br").First()
	if br.Length() == 0 {
		return ""
	}

	var sb strings.Builder
	for n := br.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		sb.WriteString(nodeText(n))
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}

	return sb.String()
}

func upscaleThumbURL(rawURL string) string {
	m := thumbWidthRe.FindStringSubmatch(rawURL)
	if m == nil {
		return rawURL
	}

	width, err := strconv.Atoi(m[1])
	if err != nil || width >= desiredImageWidthPx {
		return rawURL
	}

	return thumbWidthRe.ReplaceAllString(rawURL, fmt.Sprintf("/%dpx-", desiredImageWidthPx))
}

func guessMIMEType(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return mime.TypeByExtension(path.Ext(u.Path))
}
