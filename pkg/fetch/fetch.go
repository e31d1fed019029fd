package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Header is one request header to send.
type Header struct {
	Name  string
	Value string
}

// Request describes a page fetch.
type Request struct {
	URL     string
	Method  string
	Headers []Header
}

// Response carries the pieces of a fetched page the CLI cares about.
type Response struct {
	StatusCode int
	Length     int
	Title      string
	Body       string
}

// Send fetches a page and extracts its HTML title, when there is one.
func Send(ctx context.Context, r *Request, client *http.Client) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en")
	for _, h := range r.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	res := &Response{
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
	}
	if title, ok := htmlTitle(res.Body); ok {
		res.Title = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}
	res.Length = utf8.RuneCountInString(res.Body)
	return res, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func htmlTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	return traverse(doc)
}
