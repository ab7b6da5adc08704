package embed

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	vimeoPathPattern = regexp.MustCompile(`^/(?:video/)?(\d+)$`)
	tweetPathPattern = regexp.MustCompile(`^/[A-Za-z0-9_]+/status(?:es)?/\d+$`)
)

// YouTube matches youtube.com watch, embed and shorts URLs as well as
// youtu.be short links, and returns the video ID.
func YouTube(raw string) (string, bool) {
	u, ok := parseAbsoluteURL(raw)
	if !ok {
		return "", false
	}

	var id string
	switch host := strings.TrimPrefix(u.Hostname(), "www."); host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.Trim(strings.TrimPrefix(u.Path, "/embed/"), "/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/")
		}
	default:
		return "", false
	}

	if !youtubeIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// Vimeo matches vimeo.com and player.vimeo.com video URLs and returns the
// numeric video ID.
func Vimeo(raw string) (string, bool) {
	u, ok := parseAbsoluteURL(raw)
	if !ok {
		return "", false
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "vimeo.com" && host != "player.vimeo.com" {
		return "", false
	}

	m := vimeoPathPattern.FindStringSubmatch(strings.TrimSuffix(u.Path, "/"))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Tweet matches twitter.com and x.com status URLs and returns the URL with
// query and fragment stripped.
func Tweet(raw string) (string, bool) {
	u, ok := parseAbsoluteURL(raw)
	if !ok {
		return "", false
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "twitter.com" && host != "x.com" && host != "mobile.twitter.com" {
		return "", false
	}
	if !tweetPathPattern.MatchString(strings.TrimSuffix(u.Path, "/")) {
		return "", false
	}

	canonical := *u
	canonical.RawQuery = ""
	canonical.Fragment = ""
	return canonical.String(), true
}

// AnyURL accepts every absolute http(s) URL and returns it unchanged.
func AnyURL(raw string) (string, bool) {
	if _, ok := parseAbsoluteURL(raw); !ok {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// Pattern builds a URLMatcher from a regular expression. The expression must
// match the entire URL. A non-empty replace template is expanded against the
// match ($1, ${name}, ...); an empty template yields the URL itself.
func Pattern(expr, replace string) (URLMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	return func(raw string) (string, bool) {
		raw = strings.TrimSpace(raw)
		loc := re.FindStringIndex(raw)
		if loc == nil || loc[0] != 0 || loc[1] != len(raw) {
			return "", false
		}
		if replace == "" {
			return raw, true
		}
		return re.ReplaceAllString(raw, replace), true
	}, nil
}

func parseAbsoluteURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}
