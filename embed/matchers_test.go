package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYouTubeMatcher(t *testing.T) {
	cases := []struct {
		name string
		url  string
		id   string
		ok   bool
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch URL without www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"nocookie host", "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", true},
		{"channel page", "https://www.youtube.com/@somechannel", "", false},
		{"watch without id", "https://www.youtube.com/watch", "", false},
		{"other host", "https://vimeo.com/123456", "", false},
		{"not a URL", "youtube", "", false},
		{"relative path", "/watch?v=dQw4w9WgXcQ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := YouTube(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestVimeoMatcher(t *testing.T) {
	cases := []struct {
		name string
		url  string
		id   string
		ok   bool
	}{
		{"plain video", "https://vimeo.com/123456789", "123456789", true},
		{"www host", "https://www.vimeo.com/123456789", "123456789", true},
		{"player URL", "https://player.vimeo.com/video/123456789", "123456789", true},
		{"trailing slash", "https://vimeo.com/123456789/", "123456789", true},
		{"channel page", "https://vimeo.com/channels/staffpicks", "", false},
		{"other host", "https://youtu.be/dQw4w9WgXcQ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := Vimeo(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestTweetMatcher(t *testing.T) {
	url, ok := Tweet("https://twitter.com/jack/status/20?s=19")
	require.True(t, ok)
	assert.Equal(t, "https://twitter.com/jack/status/20", url)

	url, ok = Tweet("https://x.com/jack/status/20")
	require.True(t, ok)
	assert.Equal(t, "https://x.com/jack/status/20", url)

	_, ok = Tweet("https://twitter.com/jack")
	assert.False(t, ok)
	_, ok = Tweet("https://example.com/jack/status/20")
	assert.False(t, ok)
}

func TestAnyURLMatcher(t *testing.T) {
	url, ok := AnyURL("  https://example.com/page ")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/page", url)

	_, ok = AnyURL("ftp://example.com/file")
	assert.False(t, ok)
	_, ok = AnyURL("not a url")
	assert.False(t, ok)
	_, ok = AnyURL("https://")
	assert.False(t, ok)
}

func TestPatternMatcher(t *testing.T) {
	match, err := Pattern(`https://codepen\.io/([\w-]+)/pen/([\w-]+)`, "$1/$2")
	require.NoError(t, err)

	value, ok := match("https://codepen.io/someone/pen/abcDEF")
	require.True(t, ok)
	assert.Equal(t, "someone/abcDEF", value)

	_, ok = match("https://codepen.io/someone")
	assert.False(t, ok)

	// The whole URL must match, not a prefix or substring.
	_, ok = match("https://codepen.io/someone/pen/abcDEF/extra")
	assert.False(t, ok)
}

func TestPatternMatcherEmptyReplaceReturnsURL(t *testing.T) {
	match, err := Pattern(`https://gist\.github\.com/.*`, "")
	require.NoError(t, err)

	value, ok := match("https://gist.github.com/u/abc123")
	require.True(t, ok)
	assert.Equal(t, "https://gist.github.com/u/abc123", value)
}

func TestPatternMatcherRejectsBadExpression(t *testing.T) {
	_, err := Pattern(`https://(`, "")
	require.Error(t, err)
}
