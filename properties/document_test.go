package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Greetings
! legacy comment

test.Key1=My test
test.Key2 = My comma test, easy
test.Key3:File\: {0}
test.Key4   First line<br/>second line
test.Key5=First line\n\
          second line
key\ with\ spaces=value
test.Key6=
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	tests := []struct {
		name string
		want string
	}{
		{name: "test.Key1", want: "My test"},
		{name: "test.Key2", want: "My comma test, easy"},
		{name: "test.Key3", want: "File: {0}"},
		{name: "test.Key4", want: "First line<br/>second line"},
		{name: "test.Key5", want: "First line\nsecond line"},
		{name: "key with spaces", want: "value"},
		{name: "test.Key6", want: ""},
	}
	require.Equal(t, len(tests), doc.Len())
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := doc.Entry(i)
			assert.Equal(t, tt.name, e.Name())
			assert.Equal(t, tt.want, e.Text())
		})
	}
}

func TestMarshalUntouched(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, sample, string(doc.Marshal()))
}

func TestMarshalCRLF(t *testing.T) {
	doc, err := Parse([]byte("a=1\r\nb=2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "a=1\nb=2\n", string(doc.Marshal()))
}

func TestEditing(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	i := doc.Find("test.Key1")
	require.Equal(t, 0, i)
	doc.SetValue(i, NewEntry("", "Mein Test").Value)
	doc.SetKey(doc.Find("test.Key2"), NewEntry("test.Renamed", "").Key)
	doc.Remove(doc.Find("test.Key6"))
	doc.InsertAfter(doc.Find("test.Key3"), NewEntry("test.Key3a", "neu"))
	doc.Append(NewEntry("zzz", " leading"))

	out := string(doc.Marshal())
	assert.Contains(t, out, "test.Key1=Mein Test\n")
	assert.Contains(t, out, "test.Renamed=My comma test, easy\n")
	assert.Contains(t, out, "test.Key3:File\\: {0}\ntest.Key3a=neu\n")
	assert.NotContains(t, out, "test.Key6")
	assert.Contains(t, out, "# Greetings\n! legacy comment\n\n")
	assert.Contains(t, out, "zzz=\\ leading\n")

	reparsed, err := Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, doc.Texts(), reparsed.Texts())
}

func TestMarshalRoundTripsEscapedText(t *testing.T) {
	texts := []string{
		"First line\nsecond line",
		"Zeile\r\nzwei",
		"tab\tand\\backslash",
		"Grüße aus Köln",
		"  indented\n  twice",
	}
	doc := &Document{}
	for i, text := range texts {
		doc.Append(NewEntry(string(rune('a'+i))+" key=x", text))
	}

	reparsed, err := Parse(doc.Marshal())
	require.NoError(t, err)
	require.Equal(t, len(texts), reparsed.Len())
	for i, text := range texts {
		e := reparsed.Entry(i)
		assert.Equal(t, string(rune('a'+i))+" key=x", e.Name())
		assert.Equal(t, text, e.Text())
	}
}

func TestDuplicateKeys(t *testing.T) {
	doc, err := Parse([]byte("a=1\nb=2\na=3\n"))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, doc.FindAll("a"))
	e, ok := doc.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "1", e.Value)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, doc.Texts())
}

func TestClone(t *testing.T) {
	doc, err := Parse([]byte("a=1\n"))
	require.NoError(t, err)
	c := doc.Clone()
	c.SetValue(0, "2")
	assert.Equal(t, "1", doc.Entry(0).Value)
	assert.Equal(t, "2", c.Entry(0).Value)
}
