package ontoenv

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FetchOptions configures the HTTP fetch layer: timeout, offline gating,
// the Accept-header preference order, and the extension candidates tried
// when content negotiation and sniffing both fail.
type FetchOptions struct {
	Offline             bool
	Timeout             time.Duration
	AcceptOrder         []string
	ExtensionCandidates []string
}

// DefaultFetchOptions mirrors the accept order and extension fallback list.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Offline: false,
		Timeout: 30 * time.Second,
		AcceptOrder: []string{
			"text/turtle",
			"application/rdf+xml",
			"application/ld+json",
			"application/n-triples",
		},
		ExtensionCandidates: []string{
			".ttl", ".rdf", ".owl", ".rdf.xml", ".owl.xml", ".xml", ".jsonld", ".nt", ".nq",
		},
	}
}

// FetchResult carries the retrieved bytes plus what the resolution chain
// determined about their format and origin.
type FetchResult struct {
	Bytes       []byte
	Format      Format
	FinalURL    string
	ContentType string
}

func buildAccept(order []string) string {
	if len(order) == 0 {
		return "*/*"
	}
	var parts []string
	q := 1.0
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%s; q=%.1f", t, q))
		q -= 0.1
		if q < 0.1 {
			q = 0.1
		}
	}
	parts = append(parts, "*/*; q=0.1")
	return strings.Join(parts, ", ")
}

func isGenericContentType(ct string) bool {
	ct = strings.ToLower(ct)
	if ct == "" {
		return true
	}
	for _, generic := range []string{"text/plain", "application/octet-stream", "text/html", "application/xhtml"} {
		if strings.Contains(ct, generic) {
			return true
		}
	}
	return false
}

func resolveFormat(contentType, finalURL string, body []byte) (Format, bool) {
	if f, ok := detectFormatFromContentType(contentType); ok {
		return f, true
	}
	if f, ok := detectFormatFromURL(finalURL); ok {
		return f, true
	}
	if f, ok := sniffFormat(body); ok {
		return f, true
	}
	return tryParseCandidates(body)
}

func buildExtensionCandidates(orig string, exts []string) []string {
	var out []string
	if strings.HasSuffix(orig, "/") {
		for _, e := range exts {
			out = append(out, orig+strings.TrimPrefix(e, "."))
		}
		return out
	}
	slash := strings.LastIndex(orig, "/") + 1
	prefix, filename := orig[:slash], orig[slash:]
	stem := filename
	if dot := strings.LastIndex(filename, "."); dot >= 0 {
		stem = filename[:dot]
	}
	base := prefix + stem
	for _, e := range exts {
		out = append(out, base+e)
	}
	return out
}

func parseLinkAlternates(linkHeader string, acceptOrder []string) []string {
	var out []string
	for _, part := range strings.Split(linkHeader, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="alternate"`) {
			continue
		}
		matches := false
		for _, typ := range acceptOrder {
			if strings.Contains(part, fmt.Sprintf(`type="%s"`, typ)) {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		start := strings.Index(part, "<")
		if start < 0 {
			continue
		}
		end := strings.Index(part[start+1:], ">")
		if end < 0 {
			continue
		}
		out = append(out, part[start+1:start+1+end])
	}
	return out
}

type httpGetResult struct {
	body        []byte
	contentType string
	link        string
	finalURL    string
	statusCode  int
}

func httpGet(client *http.Client, url, accept string) (*httpGetResult, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &httpGetResult{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
		link:        resp.Header.Get("Link"),
		finalURL:    finalURL,
		statusCode:  resp.StatusCode,
	}, nil
}

// FetchRDF retrieves and identifies the format of an RDF document at url,
// following the resolution chain: content-type, URL extension, byte
// sniffing, trial parse; then Link rel="alternate" candidates; then
// extension-rewritten candidates; failing all of that, returns FetchFailed
// or ParseError.
func FetchRDF(url string, opts FetchOptions) (*FetchResult, error) {
	if opts.Offline {
		return nil, newErr(KindOffline, "fetch forbidden for "+url, nil)
	}
	client := &http.Client{Timeout: opts.Timeout}
	accept := buildAccept(opts.AcceptOrder)

	first, err := httpGet(client, url, accept)
	if err != nil {
		return nil, newErr(KindFetchFailed, "GET "+url, err)
	}
	success := first.statusCode >= 200 && first.statusCode < 300

	if success {
		if f, ok := resolveFormat(first.contentType, first.finalURL, first.body); ok {
			return &FetchResult{Bytes: first.body, Format: f, FinalURL: first.finalURL, ContentType: first.contentType}, nil
		}
	}

	if first.link != "" {
		for _, alt := range parseLinkAlternates(first.link, opts.AcceptOrder) {
			r, err := httpGet(client, alt, accept)
			if err != nil {
				continue
			}
			if r.statusCode >= 200 && r.statusCode < 300 {
				if f, ok := resolveFormat(r.contentType, r.finalURL, r.body); ok {
					return &FetchResult{Bytes: r.body, Format: f, FinalURL: r.finalURL, ContentType: r.contentType}, nil
				}
			}
		}
	}

	if !success || isGenericContentType(first.contentType) {
		for _, candidate := range buildExtensionCandidates(first.finalURL, opts.ExtensionCandidates) {
			r, err := httpGet(client, candidate, accept)
			if err != nil {
				continue
			}
			if r.statusCode >= 200 && r.statusCode < 300 {
				if f, ok := resolveFormat(r.contentType, r.finalURL, r.body); ok {
					return &FetchResult{Bytes: r.body, Format: f, FinalURL: r.finalURL, ContentType: r.contentType}, nil
				}
			}
		}
	}

	if success {
		return nil, newErr(KindParseError, "no candidate format parsed "+url, nil)
	}
	return nil, newErr(KindFetchFailed, fmt.Sprintf("GET %s returned status %d", url, first.statusCode), nil)
}

// HeadLastModified returns the RFC-2822 Last-Modified header, if present.
func HeadLastModified(url string, opts FetchOptions) (*time.Time, error) {
	if opts.Offline {
		return nil, newErr(KindOffline, "HEAD forbidden for "+url, nil)
	}
	client := &http.Client{Timeout: opts.Timeout}
	resp, err := client.Head(url)
	if err != nil {
		return nil, newErr(KindFetchFailed, "HEAD "+url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}
	raw := resp.Header.Get("Last-Modified")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC1123, raw)
	if err != nil {
		return nil, nil
	}
	return &t, nil
}

// HeadExists reports whether url answers with a 2xx status.
func HeadExists(url string, opts FetchOptions) (bool, error) {
	if opts.Offline {
		return false, newErr(KindOffline, "HEAD forbidden for "+url, nil)
	}
	client := &http.Client{Timeout: opts.Timeout}
	resp, err := client.Head(url)
	if err != nil {
		return false, newErr(KindFetchFailed, "HEAD "+url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// ReadFileLocation reads a filesystem location, dispatching format by
// extension and defaulting to Turtle for missing/unknown extensions.
func ReadFileLocation(path string) ([]byte, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, formatFromExtension(filepath.Ext(path)), nil
}
