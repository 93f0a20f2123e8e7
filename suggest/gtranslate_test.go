package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bregydoc/gtranslate"
	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTranslate(t *testing.T, fn func(string, gtranslate.TranslationParams) (string, error)) {
	t.Helper()
	orig := translateWithParams
	translateWithParams = fn
	t.Cleanup(func() { translateWithParams = orig })
}

func TestTranslator(t *testing.T) {
	var params gtranslate.TranslationParams
	stubTranslate(t, func(text string, p gtranslate.TranslationParams) (string, error) {
		params = p
		return "Olá", nil
	})

	got, err := NewTranslator(time.Second).Translate(context.Background(), "en", "pt_BR", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Olá", got)
	assert.Equal(t, "en", params.From)
	assert.Equal(t, "pt-BR", params.To)
}

func TestTranslatorErrors(t *testing.T) {
	stubTranslate(t, func(string, gtranslate.TranslationParams) (string, error) {
		return "", errors.New("bad response")
	})
	_, err := NewTranslator(time.Second).Translate(context.Background(), "en", "de", "x")
	assert.True(t, errors.Is(err, bundle.ErrRemote))
}

func TestTranslatorCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	stubTranslate(t, func(string, gtranslate.TranslationParams) (string, error) {
		close(started)
		<-release
		return "late", nil
	})

	task := &Task{}
	done := make(chan error, 1)
	go func() {
		_, err := task.Run(context.Background(), NewTranslator(5*time.Second), "en", "de", "Hello", "hello")
		done <- err
	}()
	<-started
	task.Cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrCanceled))
	case <-time.After(5 * time.Second):
		t.Fatal("task did not stop after cancel")
	}
}

func TestNewService(t *testing.T) {
	assert.IsType(t, &Translator{}, NewService("", "", 0))
	svc := NewService("http://localhost/translate", "agent", time.Second)
	require.IsType(t, &GoogleClient{}, svc)
	assert.Equal(t, "http://localhost/translate", svc.(*GoogleClient).Endpoint)
}
