// Package linkmeta builds best-effort previews (title, description, image)
// for hotel and trip links. Titles fall back to heuristics on the URL itself
// whenever the metadata service is unavailable or returns something useless.
package linkmeta

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTitle is used when nothing at all can be derived from the URL.
const DefaultTitle = "Hotel Link"

// Rule describes how to treat links on one family of hosts.
// Canonical and Title report false when the URL does not have the shape the
// rule understands, in which case the generic behaviour applies.
type Rule struct {
	Name      string
	Match     func(host string) bool
	Canonical func(u *url.URL) (string, bool)
	Title     func(u *url.URL) (string, bool)
}

// DefaultRules is the host strategy table used by NewResolver.
var DefaultRules = []Rule{
	{
		Name:      "booking",
		Match:     hostHasSuffix("booking.com"),
		Canonical: bookingCanonical,
		Title:     bookingTitle,
	},
	{
		Name:  "listing",
		Match: hostHasSuffix("hotels.com", "expedia.com"),
		Title: lastSegmentTitle,
	},
}

// fileSuffixes are stripped from slugs before they are turned into titles.
var fileSuffixes = []string{".html", ".htm", ".php", ".pl", ".com"}

// hostHasSuffix matches each domain and its subdomains, never a host that
// merely ends in the same letters.
func hostHasSuffix(domains ...string) func(string) bool {
	return func(host string) bool {
		for _, d := range domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
		return false
	}
}

// bookingPath splits /hotel/<country>/<slug> paths.
func bookingPath(u *url.URL) (country, slug string, ok bool) {
	parts := strings.Split(u.Path, "/")
	if len(parts) < 4 || parts[1] != "hotel" || parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

func bookingCanonical(u *url.URL) (string, bool) {
	country, slug, ok := bookingPath(u)
	if !ok {
		return "", false
	}
	return "https://www.booking.com/hotel/" + country + "/" + slug, true
}

func bookingTitle(u *url.URL) (string, bool) {
	_, slug, ok := bookingPath(u)
	if !ok {
		return "", false
	}
	return Humanize(slug), true
}

func lastSegmentTitle(u *url.URL) (string, bool) {
	var last string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			last = p
		}
	}
	if last == "" {
		return "", false
	}
	return Humanize(last), true
}

// Humanize turns a URL slug into a title: known file suffixes are removed,
// hyphens and underscores become spaces, and every word is title-cased.
// "villa-perla-krk.pl.html" becomes "Villa Perla Krk".
func Humanize(slug string) string {
	s := slug
	for trimmed := true; trimmed; {
		trimmed = false
		for _, suf := range fileSuffixes {
			if len(s) > len(suf) && strings.HasSuffix(strings.ToLower(s), suf) {
				s = s[:len(s)-len(suf)]
				trimmed = true
			}
		}
	}
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)

	caser := cases.Title(language.Und)
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// Normalize prepends https:// when raw has no http(s) scheme.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

func parse(normalized string) (*url.URL, bool) {
	u, err := url.Parse(normalized)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

func ruleFor(rules []Rule, host string) *Rule {
	for i := range rules {
		if rules[i].Match(host) {
			return &rules[i]
		}
	}
	return nil
}

// Canonicalize rewrites a normalized URL to the form sent to the metadata
// service. Recognized booking pages lose everything but the hotel path;
// other URLs lose their query string and fragment.
func Canonicalize(normalized string, rules []Rule) string {
	u, ok := parse(normalized)
	if !ok {
		return normalized
	}
	host := strings.ToLower(u.Hostname())
	if r := ruleFor(rules, host); r != nil && r.Canonical != nil {
		if c, ok := r.Canonical(u); ok {
			return c
		}
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// FallbackTitle derives a title from the URL alone.
func FallbackTitle(normalized string, rules []Rule) string {
	u, ok := parse(normalized)
	if !ok {
		return DefaultTitle
	}
	host := strings.ToLower(u.Hostname())
	if r := ruleFor(rules, host); r != nil && r.Title != nil {
		if title, ok := r.Title(u); ok && title != "" {
			return title
		}
	}

	label, _, _ := strings.Cut(strings.TrimPrefix(host, "www."), ".")
	if label == "" {
		return DefaultTitle
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// usableTitle reports whether a service-provided title beats the fallback.
func usableTitle(title string) bool {
	return title != "" && title != DefaultTitle && len([]rune(title)) > 3
}
