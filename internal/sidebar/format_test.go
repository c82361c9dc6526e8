package sidebar

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "js", want: FormatJS},
		{input: "JavaScript", want: FormatJS},
		{input: "ts", want: FormatJS},
		{input: "json", want: FormatJSON},
		{input: " yml ", want: FormatYAML},
		{input: "yaml", want: FormatYAML},
		{input: "toml", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("website/sidebars.js")
	require.NoError(t, err)
	assert.Equal(t, FormatJS, f)

	f, err = FormatFromPath("sidebars.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("sidebars")
	assert.ErrorContains(t, err, "no file extension")
}

func TestEncodeDecode_AllFormats(t *testing.T) {
	cfg := Default().With("apiSidebar", []Item{
		DocWithLabel("api/overview", "Overview"),
		Link("Reference", "https://example.com/api"),
	})

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, cfg, f))
			assert.True(t, strings.HasSuffix(buf.String(), "\n"))

			decoded, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, cfg, decoded)
		})
	}
}

func TestEncodeDecode_KeepsExtraProperties(t *testing.T) {
	guides := Category("Guides",
		Item{Type: TypeDoc, ID: "guides/intro", Extra: []Property{
			{Key: "className", Value: json.RawMessage(`"sidebar-hot"`)},
		}},
		HTML("<hr/>"),
		Ref("api/overview"),
	)
	guides.Link = &CategoryLink{
		Type:     LinkTypeGeneratedIndex,
		Title:    "Guides",
		Keywords: []string{"guides", "how-to"},
		Image:    "/img/guides.png",
	}
	guides.Extra = []Property{
		{Key: "className", Value: json.RawMessage(`"sidebar-guides"`)},
		{Key: "description", Value: json.RawMessage(`"Step by step"`)},
		{Key: "customProps", Value: json.RawMessage(`{"badge":"new","order":[2,1.5,-3],"beta":false,"note":null,"quote":"it's"}`)},
	}
	cfg := Config{Sidebars: []Sidebar{{Name: "docs", Items: []Item{Doc("index"), guides}}}}
	require.NoError(t, Validate(cfg))

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, cfg, f))
			assert.Contains(t, buf.String(), "className")
			assert.Contains(t, buf.String(), "customProps")

			decoded, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, cfg, decoded)
		})
	}
}

func TestDecode_TrailingData(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{name: "json garbage", format: FormatJSON, input: `{"docs":["intro"]} garbage`},
		{name: "json second object", format: FormatJSON, input: `{"docs":["intro"]}{"more":[]}`},
		{name: "json stray brace", format: FormatJSON, input: `{"docs":["intro"]}}`},
		{name: "yaml second document", format: FormatYAML, input: "docs:\n  - intro\n---\nmore:\n  - x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)
		})
	}

	cfg, err := Decode(strings.NewReader("{\"docs\":[\"intro\"]}\n\n"), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, single(Doc("intro")), cfg)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""), FormatJSON)
	assert.ErrorContains(t, err, "empty")

	_, err = Decode(strings.NewReader(""), FormatYAML)
	assert.ErrorContains(t, err, "empty")

	_, err = Decode(strings.NewReader(""), FormatJS)
	assert.ErrorContains(t, err, "no module.exports")
}

func TestFormat_ContentType(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "application/yaml", FormatYAML.ContentType())
	assert.Contains(t, FormatJS.ContentType(), "javascript")
}
