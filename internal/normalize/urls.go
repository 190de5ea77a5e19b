package normalize

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// trackingPrefixes are redirect services put in front of the real media URL.
// The path segment after each prefix is dropped together with it.
var trackingPrefixes = []string{
	"www.podtrac.com/pts/redirect",
	"chtbl.com/track/",
}

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"www.youtu.be":    true,
}

// EpisodeNumber returns the episode number encoded as the last path segment of an
// episode page URL, e.g. https://linuxunplugged.com/472.
func EpisodeNumber(rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("parsing episode url: %w", err)
	}
	segment := LastSegment(u.Path)
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("episode url %q has no numeric last segment", rawURL)
	}
	return n, nil
}

// LastSegment returns the last non-empty segment of a slash separated path.
func LastSegment(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// URLPath returns the path part of a URL, or the input when it does not parse.
func URLPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// RemoveTracking strips podcast analytics redirects from a media URL, keeping the
// original scheme. URLs without a scheme get http://.
func RemoveTracking(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	scheme, rest := splitScheme(rawURL)
	if scheme == "" {
		scheme = "http://"
	}
	for _, prefix := range trackingPrefixes {
		if after, ok := strings.CutPrefix(rest, prefix); ok {
			rest = after[strings.Index(after, "/")+1:]
		}
	}
	return scheme + rest
}

// SameMedia reports whether two URLs point at the same file, ignoring the scheme.
func SameMedia(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	_, ra := splitScheme(a)
	_, rb := splitScheme(b)
	return ra == rb
}

// ValidYouTube reports whether the URL is hosted on a YouTube domain.
func ValidYouTube(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return youtubeHosts[strings.ToLower(u.Hostname())]
}

// SponsorShortname builds the sponsor identifier from the registrable part of the
// sponsor link host and the show acronym, e.g. "linode.com-lup".
func SponsorShortname(link, acronym string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing sponsor link: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("sponsor link %q has no host", link)
	}
	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		labels = labels[len(labels)-2:]
	}
	return strings.ToLower(strings.Join(labels, ".") + "-" + acronym), nil
}

// JoinURL resolves href against base the way the show sites link their pages:
// root relative paths are appended to the site URL, absolute URLs pass through.
func JoinURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

// ResolveURL resolves ref against the page URL base the way a browser does, so
// "/149032/x/" on https://host/show/lup becomes https://host/149032/x/.
func ResolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func splitScheme(rawURL string) (string, string) {
	for _, s := range []string{"https://", "http://"} {
		if strings.HasPrefix(rawURL, s) {
			return s, rawURL[len(s):]
		}
	}
	return "", rawURL
}
