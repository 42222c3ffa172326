package linkpreview

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Preview definition link preview metadata
type Preview struct {
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
	Site        string `bson:"site,omitempty" json:"site,omitempty"`
}

var urlRegex = regexp.MustCompile(`https?://[^\s<>"]+`)

// FirstURL return the first http(s) URL in text, or ""
func FirstURL(text string) string {
	return urlRegex.FindString(text)
}

// Fetcher fetch and parse link preview
type Fetcher struct {
	client *http.Client
}

// NewFetcher create Fetcher with request timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch GET rawURL and extract og: metadata, fallback to <title>
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("link preview fetch: " + resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	p := &Preview{Site: u.Host}
	walk(doc, p)
	if p.Title == "" && p.Description == "" {
		return nil, errors.New("link preview: no metadata")
	}
	return p, nil
}

func walk(n *html.Node, p *Preview) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			var prop, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "property", "name":
					prop = a.Val
				case "content":
					content = a.Val
				}
			}
			switch prop {
			case "og:title":
				p.Title = content
			case "og:description", "description":
				if p.Description == "" {
					p.Description = content
				}
			case "og:image":
				p.Image = content
			case "og:site_name":
				p.Site = content
			}
		case "title":
			if p.Title == "" && n.FirstChild != nil {
				p.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, p)
	}
}
