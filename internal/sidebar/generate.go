package sidebar

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// "01-intro", "2_setup", "3. usage"
	numberPrefixRegex = regexp.MustCompile(`^(\d+)\s*[-_.]+\s*`)

	categoryMetaFiles = []string{"_category_.json", "_category_.yml", "_category_.yaml"}
)

// genEntry is a generated item plus the data used to order it among its
// siblings.
type genEntry struct {
	item     Item
	position *float64
	sortKey  string
	// index marks a doc that can serve as its directory's category link
	index bool
}

// Generate builds sidebar items from the docs tree under dir, following the
// conventions of Docusaurus autogenerated sidebars:
//
//   - .md and .mdx files become docs; the id is the file path without
//     extension and number prefixes, or the frontmatter id within the same
//     directory
//   - directories become categories, labelled and ordered by an optional
//     _category_.json/.yml file
//   - frontmatter sidebar_position (or a number prefix) orders entries,
//     unpositioned entries follow in file name order
//   - index.md, README.md or a doc named like its directory becomes the
//     category link instead of a child
//   - names starting with "_" or "." are ignored; empty directories are skipped
//
// Doc ids are relative to the root of fsys, so dir selects a subtree
// without changing ids.
func Generate(fsys fs.FS, dir string) ([]Item, error) {
	dir = path.Clean(strings.TrimPrefix(dir, "/"))
	if dir == "" {
		dir = "."
	}

	entries, err := generateDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items, nil
}

func generateDir(fsys fs.FS, dir string) ([]genEntry, error) {
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read docs directory %s: %w", dir, err)
	}

	var out []genEntry
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		full := path.Join(dir, name)

		if de.IsDir() {
			entry, ok, err := generateCategory(fsys, full)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, entry)
			}
			continue
		}

		if !isDocFile(name) {
			continue
		}
		entry, err := generateDoc(fsys, full)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}

	sortEntries(out)
	return out, nil
}

func generateDoc(fsys fs.FS, file string) (genEntry, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return genEntry{}, fmt.Errorf("read doc %s: %w", file, err)
	}
	fm, err := parseFrontmatter(content)
	if err != nil {
		return genEntry{}, fmt.Errorf("%s: %w", file, err)
	}

	dir, name := path.Split(file)
	base := strings.TrimSuffix(name, path.Ext(name))
	id := docIDFor(file, fm)

	item := Doc(id)
	if fm.SidebarLabel != "" {
		item = DocWithLabel(id, fm.SidebarLabel)
	}

	position := fm.SidebarPosition
	if position == nil {
		position = numberPrefix(base)
	}

	lowered := strings.ToLower(stripNumberPrefix(base))
	dirName := stripNumberPrefix(path.Base(strings.TrimSuffix(dir, "/")))
	return genEntry{
		item:     item,
		position: position,
		sortKey:  name,
		index:    lowered == "index" || lowered == "readme" || (dirName != "." && lowered == strings.ToLower(dirName)),
	}, nil
}

func generateCategory(fsys fs.FS, dir string) (genEntry, bool, error) {
	meta, err := readCategoryMeta(fsys, dir)
	if err != nil {
		return genEntry{}, false, err
	}

	children, err := generateDir(fsys, dir)
	if err != nil {
		return genEntry{}, false, err
	}

	base := path.Base(dir)
	label := meta.Label
	if label == "" {
		label = stripNumberPrefix(base)
	}

	cat := Item{
		Type:        TypeCategory,
		Label:       label,
		Collapsed:   meta.Collapsed,
		Collapsible: meta.Collapsible,
		Link:        meta.Link,
	}

	for _, child := range children {
		if child.index && cat.Link == nil && child.item.Type == TypeDoc {
			cat.Link = &CategoryLink{Type: LinkTypeDoc, ID: child.item.ID}
			continue
		}
		cat.Items = append(cat.Items, child.item)
	}

	if len(cat.Items) == 0 && cat.Link == nil {
		return genEntry{}, false, nil
	}
	if cat.Items == nil {
		cat.Items = []Item{}
	}

	position := meta.Position
	if position == nil {
		position = numberPrefix(base)
	}

	return genEntry{item: cat, position: position, sortKey: base}, true, nil
}

func readCategoryMeta(fsys fs.FS, dir string) (categoryMeta, error) {
	for _, name := range categoryMetaFiles {
		file := path.Join(dir, name)
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			continue
		}
		meta, err := parseCategoryMeta(content)
		if err != nil {
			return categoryMeta{}, fmt.Errorf("%s: %w", file, err)
		}
		return meta, nil
	}
	return categoryMeta{}, nil
}

// docIDFor derives the doc id of file (relative to the docs root).
func docIDFor(file string, fm docFrontmatter) string {
	dir, name := path.Split(file)
	base := stripNumberPrefix(strings.TrimSuffix(name, path.Ext(name)))
	if fm.ID != "" {
		base = fm.ID
	}

	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || dir == "." {
		return base
	}

	segments := strings.Split(dir, "/")
	for i, s := range segments {
		segments[i] = stripNumberPrefix(s)
	}
	return strings.Join(segments, "/") + "/" + base
}

func sortEntries(entries []genEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.position != nil && b.position != nil:
			if *a.position != *b.position {
				return *a.position < *b.position
			}
			return a.sortKey < b.sortKey
		case a.position != nil:
			return true
		case b.position != nil:
			return false
		default:
			return a.sortKey < b.sortKey
		}
	})
}

func isDocFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

func stripNumberPrefix(name string) string {
	stripped := numberPrefixRegex.ReplaceAllString(name, "")
	if stripped == "" {
		return name
	}
	return stripped
}

func numberPrefix(name string) *float64 {
	m := numberPrefixRegex.FindStringSubmatch(name)
	if m == nil || m[0] == name {
		return nil
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &n
}

// Expand returns a copy of cfg where every autogenerated item is replaced by
// the items generated from its directory.
func Expand(cfg Config, fsys fs.FS) (Config, error) {
	out := cfg.Clone()
	for i := range out.Sidebars {
		items, err := expandItems(out.Sidebars[i].Items, fsys)
		if err != nil {
			return Config{}, fmt.Errorf("sidebar %q: %w", out.Sidebars[i].Name, err)
		}
		out.Sidebars[i].Items = items
	}
	return out, nil
}

func expandItems(items []Item, fsys fs.FS) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch it.Type {
		case TypeAutogenerated:
			generated, err := Generate(fsys, it.DirName)
			if err != nil {
				return nil, err
			}
			out = append(out, generated...)
		case TypeCategory:
			children, err := expandItems(it.Items, fsys)
			if err != nil {
				return nil, err
			}
			it.Items = children
			out = append(out, it)
		default:
			out = append(out, it)
		}
	}
	return out, nil
}
