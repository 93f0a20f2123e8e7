package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bregydoc/gtranslate"
	"github.com/l10n-tools/bundle-helper/bundle"
)

var translateWithParams = gtranslate.TranslateWithParams

// Translator translates through the public Google service with gtranslate.
type Translator struct {
	Timeout time.Duration
}

// NewTranslator creates a Translator; a timeout <= 0 takes the default.
func NewTranslator(timeout time.Duration) *Translator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Translator{Timeout: timeout}
}

type answer struct {
	text string
	err  error
}

// Translate implements Service. gtranslate knows no context, so the call
// runs in its own goroutine and is abandoned when ctx is done.
func (t *Translator) Translate(ctx context.Context, source, target, text string) (string, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	ch := make(chan answer, 1)
	go func() {
		out, err := translateWithParams(text, gtranslate.TranslationParams{
			From: tag(source),
			To:   tag(target),
		})
		ch <- answer{text: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", bundle.ErrRemote, ctx.Err())
	case a := <-ch:
		if a.err != nil {
			return "", fmt.Errorf("%w: %w", bundle.ErrRemote, a.err)
		}
		return a.text, nil
	}
}

// tag turns a file language code like pt_BR into pt-BR.
func tag(lang string) string {
	return strings.ReplaceAll(lang, "_", "-")
}

// NewService returns the Translator, or a GoogleClient when a custom
// endpoint is configured.
func NewService(endpoint, userAgent string, timeout time.Duration) Service {
	if endpoint == "" {
		return NewTranslator(timeout)
	}
	return NewGoogleClient(endpoint, userAgent, timeout)
}
