package sidebar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Structure(t *testing.T) {
	cfg := Default()

	require.Equal(t, []string{"tutorialSidebar"}, cfg.Names())

	items, ok := cfg.Get(DefaultSidebarName)
	require.True(t, ok)
	require.Len(t, items, 5)

	assert.Equal(t, Doc("index"), items[0])

	labels := make([]string, 0, 4)
	for _, it := range items[1:] {
		require.Equal(t, TypeCategory, it.Type)
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"Getting Started", "Guides", "Examples", "Contributing"}, labels)

	gettingStarted := items[1]
	assert.Equal(t, []Item{
		Doc("introduction/concepts"),
		Doc("guides/installation"),
		Doc("guides/quick-start"),
	}, gettingStarted.Items)
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestDefault_DocIDsInOrder(t *testing.T) {
	assert.Equal(t, []string{
		"index",
		"introduction/concepts",
		"guides/installation",
		"guides/quick-start",
		"guides/generators",
		"guides/media-providers",
		"examples/overview",
		"examples/basic-password",
		"examples/tls-self-signed",
		"examples/aws-secrets-manager",
		"contributing/process",
	}, Default().DocIDs())
}

func TestConfig_Stats(t *testing.T) {
	st := Default().Stats()

	assert.Equal(t, Stats{Sidebars: 1, Categories: 4, Docs: 11, Links: 0, MaxDepth: 2}, st)
}

func TestConfig_WithDoesNotMutate(t *testing.T) {
	orig := Default()

	updated := orig.With(DefaultSidebarName, []Item{Doc("only")})
	added := orig.With("apiSidebar", []Item{Doc("api/overview")})

	items, _ := orig.Get(DefaultSidebarName)
	assert.Len(t, items, 5)

	items, _ = updated.Get(DefaultSidebarName)
	assert.Equal(t, []Item{Doc("only")}, items)

	assert.Equal(t, []string{"tutorialSidebar", "apiSidebar"}, added.Names())
}

func TestItem_CloneIsDeep(t *testing.T) {
	cat := Category("A", Doc("a"))
	cat.Collapsed = boolPtr(true)
	cat.Link = &CategoryLink{Type: LinkTypeGeneratedIndex, Keywords: []string{"a"}}
	cat.Extra = []Property{{Key: "className", Value: json.RawMessage(`"x"`)}}

	clone := cat.Clone()
	clone.Items[0].ID = "changed"
	*clone.Collapsed = false
	clone.Link.Keywords[0] = "changed"
	clone.Extra[0].Value[1] = 'y'

	assert.Equal(t, "a", cat.Items[0].ID)
	assert.True(t, *cat.Collapsed)
	assert.Equal(t, []string{"a"}, cat.Link.Keywords)
	assert.Equal(t, json.RawMessage(`"x"`), cat.Extra[0].Value)
}

func TestConfig_StatsCountsRefsAsLinks(t *testing.T) {
	cfg := single(Doc("a"), Ref("b"), Link("C", "/c"), HTML("<hr/>"))

	assert.Equal(t, Stats{Sidebars: 1, Docs: 1, Links: 2, MaxDepth: 1}, cfg.Stats())
	assert.Equal(t, []string{"a"}, cfg.DocIDs())
}
