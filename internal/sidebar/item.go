package sidebar

import "encoding/json"

// ItemType is the discriminator Docusaurus reads from the "type" key of a
// sidebar entry.
type ItemType string

const (
	TypeDoc           ItemType = "doc"
	TypeCategory      ItemType = "category"
	TypeLink          ItemType = "link"
	TypeAutogenerated ItemType = "autogenerated"
	TypeHTML          ItemType = "html"
	TypeRef           ItemType = "ref"
)

// Item is one entry of a sidebar: a doc leaf, a category with children,
// an external link, an autogenerated placeholder for a docs directory,
// raw HTML, or a ref to a doc that belongs to another sidebar.
//
// Only the fields relevant to Type are meaningful. A doc without Label or
// Extra encodes as a bare string, which is the shape hand-written sidebars
// use.
type Item struct {
	Type ItemType

	// ID is the document identifier of a doc or ref item.
	ID string
	// Label is required for categories and links, optional for docs and refs.
	Label string
	// Href is the target of a link item.
	Href string
	// DirName is the docs-relative directory of an autogenerated item.
	DirName string
	// Value is the markup of an html item.
	Value string

	Items       []Item
	Collapsed   *bool
	Collapsible *bool
	Link        *CategoryLink

	// Extra holds the members this model does not interpret (className,
	// customProps, key, description, ...) in source order. Codecs write
	// them back after the known members.
	Extra []Property
}

// Property is a passed-through item member. Value is compact JSON.
type Property struct {
	Key   string
	Value json.RawMessage
}

// CategoryLink makes a category label itself navigable.
type CategoryLink struct {
	Type        string   `json:"type" yaml:"type"`
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Slug        string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty"`
}

const (
	LinkTypeDoc            = "doc"
	LinkTypeGeneratedIndex = "generated-index"
)

// Doc returns a doc leaf.
func Doc(id string) Item {
	return Item{Type: TypeDoc, ID: id}
}

// DocWithLabel returns a doc leaf whose sidebar label overrides the page title.
func DocWithLabel(id, label string) Item {
	return Item{Type: TypeDoc, ID: id, Label: label}
}

// Category returns a category holding items in the given order.
func Category(label string, items ...Item) Item {
	return Item{Type: TypeCategory, Label: label, Items: items}
}

// Link returns an external link entry.
func Link(label, href string) Item {
	return Item{Type: TypeLink, Label: label, Href: href}
}

// Autogenerated returns a placeholder expanded from the docs directory dirName.
func Autogenerated(dirName string) Item {
	return Item{Type: TypeAutogenerated, DirName: dirName}
}

// HTML returns an item rendering value as raw markup.
func HTML(value string) Item {
	return Item{Type: TypeHTML, Value: value}
}

// Ref returns a link to a doc without making it part of this sidebar.
func Ref(id string) Item {
	return Item{Type: TypeRef, ID: id}
}

// IsLeaf reports whether the item has no children.
func (it Item) IsLeaf() bool {
	return it.Type != TypeCategory
}

// Clone returns a deep copy so callers can modify the result freely.
func (it Item) Clone() Item {
	out := it
	if it.Items != nil {
		out.Items = cloneItems(it.Items)
	}
	if it.Collapsed != nil {
		v := *it.Collapsed
		out.Collapsed = &v
	}
	if it.Collapsible != nil {
		v := *it.Collapsible
		out.Collapsible = &v
	}
	if it.Link != nil {
		l := *it.Link
		if l.Keywords != nil {
			l.Keywords = append([]string(nil), l.Keywords...)
		}
		out.Link = &l
	}
	if it.Extra != nil {
		out.Extra = make([]Property, len(it.Extra))
		for i, p := range it.Extra {
			out.Extra[i] = Property{Key: p.Key, Value: append(json.RawMessage(nil), p.Value...)}
		}
	}
	return out
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func boolPtr(v bool) *bool { return &v }
