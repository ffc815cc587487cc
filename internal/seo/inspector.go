package seo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"blankdigi/internal/models"
)

const (
	maxBodyBytes = 2 << 20
	maxH1s       = 5
	userAgent    = "BlankDigiSuite/1.0 (+https://blankdigi.com)"
)

// Inspector fetches a page and extracts the on-page signals the advice
// chat feeds to the model.
type Inspector struct {
	httpClient *http.Client
}

func NewInspector(client *http.Client) *Inspector {
	if client == nil {
		client = http.DefaultClient
	}
	return &Inspector{httpClient: client}
}

// Inspect downloads rawURL and summarises its SEO-relevant facts.
func (i *Inspector) Inspect(ctx context.Context, rawURL string) (*models.PageFacts, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported page url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	res, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	facts := &models.PageFacts{
		URL:   u.String(),
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	facts.MetaDescription, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
	facts.MetaDescription = strings.TrimSpace(facts.MetaDescription)
	facts.Canonical, _ = doc.Find(`link[rel="canonical"]`).First().Attr("href")
	facts.Canonical = strings.TrimSpace(facts.Canonical)

	doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		if len(facts.H1s) >= maxH1s {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			facts.H1s = append(facts.H1s, text)
		}
	})
	facts.H2Count = doc.Find("h2").Length()

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		facts.ImageCount++
		if alt, ok := sel.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			facts.ImagesMissingAlt++
		}
	})

	facts.WordCount = len(strings.Fields(doc.Find("body").Text()))

	return facts, nil
}

// Render formats the facts as a plain-text block for a model prompt.
func Render(f *models.PageFacts) string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", f.URL)
	fmt.Fprintf(&b, "Title: %s\n", orNone(f.Title))
	fmt.Fprintf(&b, "Meta description: %s\n", orNone(f.MetaDescription))
	fmt.Fprintf(&b, "Canonical: %s\n", orNone(f.Canonical))
	if len(f.H1s) > 0 {
		fmt.Fprintf(&b, "H1 headings: %s\n", strings.Join(f.H1s, " | "))
	} else {
		b.WriteString("H1 headings: none\n")
	}
	fmt.Fprintf(&b, "H2 count: %d\n", f.H2Count)
	fmt.Fprintf(&b, "Images: %d (%d missing alt text)\n", f.ImageCount, f.ImagesMissingAlt)
	fmt.Fprintf(&b, "Approximate word count: %d", f.WordCount)
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
