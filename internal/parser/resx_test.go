package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"resx-hooks/internal/parser"
)

func resx(entries ...string) []byte {
	return []byte(`<?xml version="1.0" encoding="utf-8"?>
<root>
` + strings.Join(entries, "\n") + `
</root>`)
}

func data(name, value string) string {
	return fmt.Sprintf(`  <data name=%q xml:space="preserve">
    <value>%s</value>
  </data>`, name, value)
}

func entries(t *testing.T, table *parser.Table) map[string]string {
	t.Helper()
	out := make(map[string]string, table.Len())
	for _, k := range table.Keys() {
		v, ok := table.Get(k)
		require.True(t, ok)
		out[k] = v
	}
	return out
}

func TestResxParser_Parse(t *testing.T) {
	t.Parallel()
	p := parser.NewResxParser()

	t.Run("well formed entries", func(t *testing.T) {
		t.Parallel()
		content := resx(
			data("Welcome", "Welcome to our application"),
			data("Goodbye", ""),
			data("Error", "   "),
			data("Success", "Operation was successful"),
		)

		table, err := p.Parse("en.resx", content)
		require.NoError(t, err)

		assert.Equal(t, []string{"Welcome", "Goodbye", "Error", "Success"}, table.Keys())
		assert.Equal(t, map[string]string{
			"Welcome": "Welcome to our application",
			"Goodbye": "",
			"Error":   "   ",
			"Success": "Operation was successful",
		}, entries(t, table))
	})

	t.Run("entries without name are skipped", func(t *testing.T) {
		t.Parallel()
		content := resx(
			`<data><value>metadata</value></data>`,
			`<data name=""><value>blank name</value></data>`,
			data("Kept", "yes"),
		)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		assert.Equal(t, []string{"Kept"}, table.Keys())
	})

	t.Run("entries without value element are skipped", func(t *testing.T) {
		t.Parallel()
		content := resx(
			`<data name="NoValue" type="System.Byte[]"><comment>binary</comment></data>`,
			`<data name="SelfClosing"><value/></data>`,
			data("Kept", "yes"),
		)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		assert.Equal(t, []string{"SelfClosing", "Kept"}, table.Keys())

		v, ok := table.Get("SelfClosing")
		assert.True(t, ok)
		assert.Equal(t, "", v)
		assert.False(t, table.Has("NoValue"))
	})

	t.Run("duplicate names keep first position and last value", func(t *testing.T) {
		t.Parallel()
		content := resx(
			data("A", "first"),
			data("B", "b"),
			data("A", "second"),
		)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, table.Keys())
		v, _ := table.Get("A")
		assert.Equal(t, "second", v)
	})

	t.Run("metadata elements are ignored", func(t *testing.T) {
		t.Parallel()
		content := []byte(`<?xml version="1.0" encoding="utf-8"?>
<root>
  <xsd:schema id="root" xmlns="" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
    <xsd:element name="root"/>
  </xsd:schema>
  <resheader name="resmimetype">
    <value>text/microsoft-resx</value>
  </resheader>
  <data name="Title"><value>Hello</value><comment>shown in the header</comment></data>
</root>`)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Title": "Hello"}, entries(t, table))
	})

	t.Run("value text stops at first child element", func(t *testing.T) {
		t.Parallel()
		content := resx(`<data name="Mixed"><value>before<b>bold</b>after</value></data>`)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		v, _ := table.Get("Mixed")
		assert.Equal(t, "before", v)
	})

	t.Run("entities and cdata are decoded", func(t *testing.T) {
		t.Parallel()
		content := resx(
			data("Amp", "Tom &amp; Jerry &lt;3"),
			`<data name="Raw"><value><![CDATA[<b>{0}</b>]]></value></data>`,
		)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Amp": "Tom & Jerry <3",
			"Raw": "<b>{0}</b>",
		}, entries(t, table))
	})

	t.Run("nested data elements are found", func(t *testing.T) {
		t.Parallel()
		content := resx(`<group><data name="Deep"><value>deep</value></data></group>`)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		assert.Equal(t, []string{"Deep"}, table.Keys())
	})

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()
		table, err := p.Parse("a.resx", []byte(`<root/>`))
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})
}

func TestResxParser_RoundTrip(t *testing.T) {
	t.Parallel()
	p := parser.NewResxParser()

	const n = 25
	var items []string
	want := make(map[string]string, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("Key%02d", i)
		value := fmt.Sprintf("Value {%d} %%s", i)
		if i%5 == 0 {
			value = ""
		}
		items = append(items, data(key, value))
		want[key] = value
	}

	table, err := p.Parse("a.resx", resx(items...))
	require.NoError(t, err)
	assert.Equal(t, n, table.Len())
	assert.Equal(t, want, entries(t, table))
}

func TestResxParser_Malformed(t *testing.T) {
	t.Parallel()
	p := parser.NewResxParser()

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "  \n"},
		{"unclosed root", `<root><data name="A"><value>x</value></data>`},
		{"mismatched tags", `<root><data name="A"><value>x</data></value></root>`},
		{"two roots", `<root/><root/>`},
		{"text after root", `<root/>trailing`},
		{"not xml", `Welcome = "Hello"`},
		{"invalid utf8", "<root><data name=\"A\"><value>\xff\xfe\xfd</value></data></root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := p.Parse("bad.resx", []byte(tt.content))
			require.Error(t, err)

			var perr *parser.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "bad.resx", perr.File)
			assert.True(t, errors.Is(err, parser.ErrMalformed) || errors.Is(err, parser.ErrDecode))
		})
	}
}

func TestResxParser_Encodings(t *testing.T) {
	t.Parallel()
	p := parser.NewResxParser()

	t.Run("utf-8 bom", func(t *testing.T) {
		t.Parallel()
		content := append([]byte{0xEF, 0xBB, 0xBF}, resx(data("A", "ünïcödé"))...)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		v, _ := table.Get("A")
		assert.Equal(t, "ünïcödé", v)
	})

	t.Run("utf-16 with bom", func(t *testing.T) {
		t.Parallel()
		doc := `<?xml version="1.0" encoding="utf-16"?><root>` + data("A", "Привет {0}") + `</root>`
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		content, err := enc.Bytes([]byte(doc))
		require.NoError(t, err)

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		v, _ := table.Get("A")
		assert.Equal(t, "Привет {0}", v)
	})

	t.Run("declared windows-1252", func(t *testing.T) {
		t.Parallel()
		content := []byte("<?xml version=\"1.0\" encoding=\"windows-1252\"?>\n<root><data name=\"A\"><value>caf\xe9</value></data></root>")

		table, err := p.Parse("a.resx", content)
		require.NoError(t, err)
		v, _ := table.Get("A")
		assert.Equal(t, "café", v)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		t.Parallel()
		content := []byte(`<?xml version="1.0" encoding="x-no-such-charset"?><root/>`)

		_, err := p.Parse("a.resx", content)
		require.Error(t, err)
		assert.ErrorIs(t, err, parser.ErrDecode)
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	reg := parser.DefaultRegistry()

	for _, path := range []string{"a.resx", "dir/B.RESX", "en.toml", "fr.yaml", "de.yml", "es.json"} {
		_, ok := reg.ForPath(path)
		assert.True(t, ok, path)
	}

	_, ok := reg.ForPath("notes.txt")
	assert.False(t, ok)

	_, err := reg.Parse("notes.txt", []byte("hello"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnsupported)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "notes.txt", perr.File)
}
