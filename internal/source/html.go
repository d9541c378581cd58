package source

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// linkAttrs maps element names to the attribute holding their URL.
var linkAttrs = map[string]string{
	"a":      "href",
	"area":   "href",
	"link":   "href",
	"script": "src",
	"img":    "src",
	"iframe": "src",
}

// ExtractLinks collects the URLs referenced by an HTML document in document
// order. When base is non-empty, relative references are resolved against
// it; otherwise they are kept as written. javascript:, mailto:, tel: and
// data: references and bare fragments are skipped.
func ExtractLinks(r io.Reader, base string) ([]string, error) {
	var baseURL *url.URL
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		baseURL = u
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if link := resolveLink(baseURL, getAttr(n, attr)); link != "" {
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolveLink filters out non-resource references and resolves the rest.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	if base == nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		// Unparseable references are still counted under their own text.
		return href
	}
	return base.ResolveReference(u).String()
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
