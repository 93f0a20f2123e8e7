package keys

import (
	"errors"
	"testing"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T, name, content string, writable bool) *bundle.MemoryFile {
	t.Helper()
	f, err := bundle.NewMemoryFile(name, "app", []byte(content), writable)
	require.NoError(t, err)
	return f
}

func newBundle(files ...bundle.ResourceFile) *bundle.Bundle {
	return &bundle.Bundle{BaseName: "messages", Owner: "app", Files: files}
}

func TestResolve(t *testing.T) {
	en := newFile(t, "messages_en.properties", "c=Cee\nb.c=Bee Cee\nx=Ex\n", true)
	files := []bundle.ResourceFile{en}

	tests := []struct {
		name  string
		key   string
		want  string
		found bool
	}{
		{name: "verbatim", key: "b.c", want: "Bee Cee", found: true},
		{name: "fallback to last segment", key: "a.b.c", want: "Bee Cee", found: true},
		{name: "fallback twice", key: "q.r.c", want: "Cee", found: true},
		{name: "not found", key: "q.r.s", found: false},
		{name: "no dot", key: "zzz", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(files, tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFirstFileWins(t *testing.T) {
	a := newFile(t, "a_en.properties", "k=from a\n", true)
	b := newFile(t, "b_en.properties", "k=from b\n", true)
	scope := bundle.NewScope("app",
		&bundle.Bundle{BaseName: "a", Owner: "app", Files: []bundle.ResourceFile{a}},
		&bundle.Bundle{BaseName: "b", Owner: "app", Files: []bundle.ResourceFile{b}},
	)
	got, ok := ResolveIn(scope, "x.k", "en")
	require.True(t, ok)
	assert.Equal(t, "from a", got)
}

func TestCreatePositions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
		want    string
	}{
		{
			name:    "middle",
			content: "a=1\nc=3\n",
			key:     "b",
			want:    "a=1\nb=\nc=3\n",
		},
		{
			name:    "end",
			content: "a=1\nb=2\n",
			key:     "c",
			want:    "a=1\nb=2\nc=\n",
		},
		{
			name:    "sorts before everything is appended",
			content: "b=1\nc=2\n",
			key:     "a",
			want:    "b=1\nc=2\na=\n",
		},
		{
			name:    "stops at first greater key",
			content: "a=1\nd=4\nb=2\n",
			key:     "c",
			want:    "a=1\nc=\nd=4\nb=2\n",
		},
		{
			name:    "empty file",
			content: "",
			key:     "a",
			want:    "a=\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFile(t, "messages_en.properties", tt.content, true)
			res := Create(newBundle(f), tt.key)
			require.NoError(t, res.Err())
			assert.Equal(t, tt.want, string(f.Data()))
		})
	}
}

func TestCreateSkipsExisting(t *testing.T) {
	en := newFile(t, "messages_en.properties", "k=one\n", true)
	de := newFile(t, "messages_de.properties", "", true)
	res := Create(newBundle(en, de), "k")
	require.NoError(t, res.Err())
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, "k=one\n", string(en.Data()))
	assert.Equal(t, "k=\n", string(de.Data()))
}

func TestRename(t *testing.T) {
	en := newFile(t, "messages_en.properties", "old=one\nx=1\nold=dup\n", true)
	de := newFile(t, "messages_de.properties", "old=eins\n", true)
	b := newBundle(en, de)

	res := Rename(b, "old", "new key")
	require.NoError(t, res.Err())
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, "new\\ key=one\nx=1\nnew\\ key=dup\n", string(en.Data()))
	assert.Equal(t, []int{0, 2}, en.Document().FindAll("new key"))
	assert.Equal(t, "new\\ key=eins\n", string(de.Data()))

	res = Rename(b, "x", "x")
	assert.Equal(t, 0, res.Applied)
	assert.NoError(t, res.Err())
}

func TestDelete(t *testing.T) {
	en := newFile(t, "messages_en.properties", "# c\nk=one\nx=1\nk=dup\n", true)
	de := newFile(t, "messages_de.properties", "x=eins\n", true)
	res := Delete(newBundle(en, de), "k")
	require.NoError(t, res.Err())
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, "# c\nx=1\n", string(en.Data()))
	assert.Equal(t, "x=eins\n", string(de.Data()))
}

func TestDuplicate(t *testing.T) {
	t.Run("same bundle", func(t *testing.T) {
		en := newFile(t, "messages_en.properties", "k=one\n", true)
		de := newFile(t, "messages_de.properties", "k=eins\n", true)
		fr := newFile(t, "messages_fr.properties", "", true)
		b := newBundle(en, de, fr)

		newKey, res := Duplicate(b, b, "k", "")
		require.NoError(t, res.Err())
		assert.Equal(t, "k.copy", newKey)
		assert.Equal(t, "k=one\nk.copy=one\n", string(en.Data()))
		assert.Equal(t, "k=eins\nk.copy=eins\n", string(de.Data()))
		assert.Equal(t, "", string(fr.Data()))
	})

	t.Run("other bundle", func(t *testing.T) {
		en := newFile(t, "messages_en.properties", "k=one\n", true)
		de := newFile(t, "messages_de.properties", "k=eins\n", true)
		targetEn := newFile(t, "labels_en.properties", "a=1\n", true)
		source := newBundle(en, de)
		target := &bundle.Bundle{BaseName: "labels", Owner: "app", Files: []bundle.ResourceFile{targetEn}}

		newKey, res := Duplicate(source, target, "k", "")
		require.NoError(t, res.Err())
		assert.Equal(t, "k", newKey)
		assert.Equal(t, "a=1\nk=one\n", string(targetEn.Data()))
	})
}

func TestUpdate(t *testing.T) {
	de := newFile(t, "messages_de.properties", "a=1\nc=3\n", true)

	require.NoError(t, Update(de, "c", "drei\nZeilen"))
	require.NoError(t, Update(de, "b", "Grüße"))

	v, ok := Lookup(de, "c")
	require.True(t, ok)
	assert.Equal(t, "drei\nZeilen", v)
	assert.Equal(t, "a=1\nb=Gr\\u00FC\\u00DFe\nc=drei\\n\\\nZeilen\n", string(de.Data()))
}

func TestPartialFailure(t *testing.T) {
	en := newFile(t, "messages_en.properties", "a=1\n", true)
	ro := newFile(t, "messages_de.properties", "a=1\n", false)
	fr := newFile(t, "messages_fr.properties", "a=1\n", true)

	res := Create(newBundle(en, ro, fr), "b")
	assert.Equal(t, 2, res.Applied)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "messages_de.properties", res.Failures[0].File)
	assert.True(t, errors.Is(res.Failures[0].Err, bundle.ErrReadOnly))
	assert.True(t, errors.Is(res.Err(), bundle.ErrReadOnly), "got %v", res.Err())
	assert.Contains(t, res.Err().Error(), "messages_de.properties")
	assert.Equal(t, "a=1\nb=\n", string(fr.Data()))
}
