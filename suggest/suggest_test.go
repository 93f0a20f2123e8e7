package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	answers map[string]string
	calls   []string
	err     error
}

func (f *fakeService) Translate(_ context.Context, source, target, text string) (string, error) {
	f.calls = append(f.calls, source+">"+target+":"+text)
	if f.err != nil {
		return "", f.err
	}
	return f.answers[text], nil
}

func TestPrepareKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "error.fileNotFound", want: "Error file not found"},
		{key: "MAX_SIZE", want: "Max size"},
		{key: "menu-open_recent", want: "Menu open recent"},
		{key: "ok", want: "Ok"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, PrepareKey(tt.key))
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		text    string
		key     string
		answers map[string]string
		want    string
		calls   int
	}{
		{
			name:   "same language",
			source: "de", text: "Hallo", key: "hello",
			want: "Hallo", calls: 0,
		},
		{
			name:   "direct",
			source: "en", text: "Hello", key: "hello",
			answers: map[string]string{"Hello": "hallo"},
			want:    "Hallo", calls: 1,
		},
		{
			name:   "echo falls back to key words",
			source: "en", text: "OK", key: "button.cancelAction",
			answers: map[string]string{"OK": "OK", "Button cancel action": "Schaltfläche Aktion abbrechen"},
			want:    "Schaltfläche Aktion abbrechen", calls: 2,
		},
		{
			name:   "space before final punctuation kept",
			source: "en", text: "Really ?", key: "q",
			answers: map[string]string{"Really ?": "Wirklich?"},
			want:    "Wirklich ?", calls: 1,
		},
		{
			name:   "lower case kept",
			source: "en", text: "file", key: "file",
			answers: map[string]string{"file": "datei"},
			want:    "datei", calls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{answers: tt.answers}
			got, err := Suggest(context.Background(), svc, tt.source, "de", tt.text, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, svc.calls, tt.calls)
		})
	}
}

func TestSuggestNoResult(t *testing.T) {
	svc := &fakeService{answers: map[string]string{}}
	_, err := Suggest(context.Background(), svc, "en", "de", "Hello", "hello")
	assert.True(t, errors.Is(err, ErrNoTranslation))
	assert.True(t, errors.Is(err, bundle.ErrRemote))
}

func TestPickSource(t *testing.T) {
	en, err := bundle.NewMemoryFile("m_en.properties", "app", []byte("k=Hello\nblank=  \n"), true)
	require.NoError(t, err)
	fr, err := bundle.NewMemoryFile("m_fr.properties", "app", []byte("k=Bonjour\n"), true)
	require.NoError(t, err)
	b := &bundle.Bundle{BaseName: "m", Owner: "app", Files: []bundle.ResourceFile{fr, en}}

	lang, text := PickSource(b, "k", "de")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "Hello", text)

	lang, text = PickSource(b, "k", "en")
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "Bonjour", text)

	lang, text = PickSource(b, "blank", "de")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "Blank", text)
}

func TestGoogleClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gtx", r.URL.Query().Get("client"))
		assert.Equal(t, "en", r.URL.Query().Get("sl"))
		assert.Equal(t, "de", r.URL.Query().Get("tl"))
		assert.Equal(t, "Hello. Bye.", r.URL.Query().Get("q"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[[["Hallo. ","Hello. ",null,null,10],["Tschüss.","Bye.",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, "test-agent", time.Second)
	got, err := c.Translate(context.Background(), "en", "de", "Hello. Bye.")
	require.NoError(t, err)
	assert.Equal(t, "Hallo. Tschüss.", got)
}

func TestGoogleClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "bad" {
			_, _ = w.Write([]byte(`not json`))
			return
		}
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL, "", time.Second)
	_, err := c.Translate(context.Background(), "en", "de", "x")
	assert.True(t, errors.Is(err, bundle.ErrRemote))
	_, err = c.Translate(context.Background(), "en", "de", "bad")
	assert.True(t, errors.Is(err, bundle.ErrRemote))
}

func TestTaskCancel(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	task := &Task{}
	done := make(chan error, 1)
	go func() {
		_, err := task.Run(context.Background(), NewGoogleClient(srv.URL, "", 5*time.Second), "en", "de", "Hello", "hello")
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
	assert.True(t, task.Canceled())
}
