// Package sidebar models the navigation sidebars of a Docusaurus site.
//
// A Config maps sidebar names to ordered item trees. Order is significant
// everywhere: it is the order pages appear in the rendered navigation, so
// every codec in this package preserves it.
package sidebar

// Sidebar is one named navigation tree, e.g. "tutorialSidebar".
type Sidebar struct {
	Name  string
	Items []Item
}

// Config is the root of a sidebars file: named sidebars in declaration order.
type Config struct {
	Sidebars []Sidebar
}

// Names returns sidebar names in declaration order.
func (c Config) Names() []string {
	names := make([]string, len(c.Sidebars))
	for i, sb := range c.Sidebars {
		names[i] = sb.Name
	}
	return names
}

// Get returns the items of the named sidebar.
func (c Config) Get(name string) ([]Item, bool) {
	for _, sb := range c.Sidebars {
		if sb.Name == name {
			return sb.Items, true
		}
	}
	return nil, false
}

// With returns a copy of c where the named sidebar holds items. A new
// sidebar is appended when the name is not present yet.
func (c Config) With(name string, items []Item) Config {
	out := c.Clone()
	for i := range out.Sidebars {
		if out.Sidebars[i].Name == name {
			out.Sidebars[i].Items = cloneItems(items)
			return out
		}
	}
	out.Sidebars = append(out.Sidebars, Sidebar{Name: name, Items: cloneItems(items)})
	return out
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := Config{Sidebars: make([]Sidebar, len(c.Sidebars))}
	for i, sb := range c.Sidebars {
		out.Sidebars[i] = Sidebar{Name: sb.Name, Items: cloneItems(sb.Items)}
	}
	return out
}

// DocIDs returns every doc identifier in pre-order, including docs used as
// category links.
func (c Config) DocIDs() []string {
	var ids []string
	for _, sb := range c.Sidebars {
		Walk(sb.Items, func(_ string, it Item, _ int) error {
			switch {
			case it.Type == TypeDoc:
				ids = append(ids, it.ID)
			case it.Type == TypeCategory && it.Link != nil && it.Link.Type == LinkTypeDoc:
				ids = append(ids, it.Link.ID)
			}
			return nil
		})
	}
	return ids
}

// Stats summarises the shape of a config.
type Stats struct {
	Sidebars   int `json:"sidebars"`
	Categories int `json:"categories"`
	Docs       int `json:"docs"`
	Links      int `json:"links"` // external links and refs
	MaxDepth   int `json:"max_depth"`
}

// Stats counts the entries of every sidebar. MaxDepth is 1 for a flat sidebar.
func (c Config) Stats() Stats {
	st := Stats{Sidebars: len(c.Sidebars)}
	for _, sb := range c.Sidebars {
		Walk(sb.Items, func(_ string, it Item, depth int) error {
			if depth > st.MaxDepth {
				st.MaxDepth = depth
			}
			switch it.Type {
			case TypeCategory:
				st.Categories++
			case TypeDoc:
				st.Docs++
			case TypeLink, TypeRef:
				st.Links++
			}
			return nil
		})
	}
	return st
}
