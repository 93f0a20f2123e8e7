// Package suggest asks a machine translation service for a translation
// proposal.
package suggest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/keys"
	"github.com/tidwall/gjson"
)

// Defaults of the public translation endpoint.
const (
	DefaultEndpoint  = "https://translate.googleapis.com/translate_a/single"
	DefaultUserAgent = "Mozilla/5.0"
	DefaultTimeout   = 10 * time.Second
)

// ErrNoTranslation is returned when the service answers nothing.
var ErrNoTranslation = fmt.Errorf("%w: no translation found", bundle.ErrRemote)

// Service translates text between two languages.
type Service interface {
	Translate(ctx context.Context, source, target, text string) (string, error)
}

// GoogleClient calls a Google translate compatible endpoint directly.
type GoogleClient struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client
}

// NewGoogleClient creates a client; empty arguments take the defaults.
func NewGoogleClient(endpoint, userAgent string, timeout time.Duration) *GoogleClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GoogleClient{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Translate implements Service. The response is a nested JSON array whose
// first element lists translated segments.
func (c *GoogleClient) Translate(ctx context.Context, source, target, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", bundle.ErrRemote, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", bundle.ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", bundle.ErrRemote, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s", bundle.ErrRemote, resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: malformed response", bundle.ErrRemote)
	}

	var sb strings.Builder
	for _, seg := range gjson.GetBytes(body, "0.#.0").Array() {
		sb.WriteString(seg.String())
	}
	return sb.String(), nil
}

var keySeparators = regexp.MustCompile(`[_\-.]`)

// PrepareKey turns a translation key into words, e.g. "error.fileNotFound"
// becomes "Error file not found".
func PrepareKey(key string) string {
	var words []string
	for _, s := range keySeparators.Split(key, -1) {
		if strings.ToUpper(s) == s {
			words = append(words, strings.ToLower(s))
			continue
		}
		var sb strings.Builder
		for i, r := range s {
			if unicode.IsUpper(r) {
				if i > 0 {
					sb.WriteByte(' ')
				}
				r = unicode.ToLower(r)
			}
			sb.WriteRune(r)
		}
		words = append(words, sb.String())
	}
	return capitalize(strings.Join(words, " "))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// PickSource chooses what to translate into target: the first non-blank
// translation of key in another language of b, otherwise English words made
// from the key.
func PickSource(b *bundle.Bundle, key, target string) (lang, text string) {
	if b != nil {
		for _, l := range b.Languages() {
			if l == target {
				continue
			}
			if v, ok := keys.Lookup(b.Sibling(l), key); ok && strings.TrimSpace(v) != "" {
				return l, v
			}
		}
	}
	return "en", PrepareKey(key)
}

// Suggest translates text from source to target. When the service answers
// nothing or echoes the text, the words of key are translated from English
// instead. Case of the first letter and a space before final punctuation
// follow the text.
func Suggest(ctx context.Context, svc Service, source, target, text, key string) (string, error) {
	if source == target {
		return text, nil
	}
	out, err := svc.Translate(ctx, source, target, text)
	if err != nil {
		return "", err
	}
	if out == "" || out == text {
		if words := PrepareKey(key); key != "" && words != text {
			if out, err = svc.Translate(ctx, "en", target, words); err != nil {
				return "", err
			}
		}
	}
	if out == "" {
		return "", ErrNoTranslation
	}

	src := []rune(text)
	if len(src) > 0 && unicode.IsUpper(src[0]) {
		out = capitalize(out)
	}
	dst := []rune(out)
	if len(dst) > 2 && len(src) > 2 &&
		src[len(src)-2] == ' ' &&
		dst[len(dst)-2] != ' ' &&
		dst[len(dst)-1] == src[len(src)-1] {
		out = string(dst[:len(dst)-1]) + " " + string(dst[len(dst)-1])
	}
	return out, nil
}
