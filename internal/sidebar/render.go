package sidebar

import (
	"strings"
)

// treeLine is a single rendered row.
type treeLine struct {
	Text   string
	Depth  int
	IsLast bool // last child of its parent
}

// RenderTree draws every sidebar with box-drawing characters:
//
//	tutorialSidebar
//	├── index
//	├── Getting Started/
//	│   ├── introduction/concepts
//	│   └── guides/quick-start
//	└── Contributing/
//	    └── contributing/process
func RenderTree(cfg Config) string {
	var sb strings.Builder
	for i, s := range cfg.Sidebars {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		lines := []treeLine{{Text: s.Name, Depth: 0, IsLast: true}}
		lines = appendTreeLines(lines, s.Items, 1)
		sb.WriteString(renderLines(lines))
	}
	return sb.String()
}

func appendTreeLines(lines []treeLine, items []Item, depth int) []treeLine {
	for i, it := range items {
		lines = append(lines, treeLine{
			Text:   itemText(it),
			Depth:  depth,
			IsLast: i == len(items)-1,
		})
		if it.Type == TypeCategory {
			lines = appendTreeLines(lines, it.Items, depth+1)
		}
	}
	return lines
}

func itemText(it Item) string {
	switch it.Type {
	case TypeDoc:
		if it.Label != "" {
			return it.ID + " (" + it.Label + ")"
		}
		return it.ID
	case TypeCategory:
		text := it.Label + "/"
		if it.Link != nil {
			switch it.Link.Type {
			case LinkTypeDoc:
				text += " -> " + it.Link.ID
			case LinkTypeGeneratedIndex:
				text += " [index]"
			}
		}
		return text
	case TypeLink:
		return it.Label + " -> " + it.Href
	case TypeAutogenerated:
		return "[autogenerated " + it.DirName + "]"
	case TypeHTML:
		return "[html]"
	case TypeRef:
		if it.Label != "" {
			return "ref " + it.ID + " (" + it.Label + ")"
		}
		return "ref " + it.ID
	default:
		return "[" + string(it.Type) + "]"
	}
}

// renderLines converts depth-annotated rows into the tree string.
func renderLines(lines []treeLine) string {
	var result strings.Builder

	// Depths that still have siblings below (for continuation bars)
	continuations := make(map[int]bool)

	for i, line := range lines {
		result.WriteString(buildPrefix(line.Depth, line.IsLast, continuations))
		result.WriteString(line.Text)

		if i < len(lines)-1 {
			result.WriteString("\n")
		}

		if line.IsLast {
			delete(continuations, line.Depth)
		} else {
			continuations[line.Depth] = true
		}
	}

	return result.String()
}

// buildPrefix creates the branch prefix for a row at depth.
func buildPrefix(depth int, isLast bool, continuations map[int]bool) string {
	if depth == 0 {
		return ""
	}

	var prefix strings.Builder

	for d := 1; d < depth; d++ {
		if continuations[d] {
			prefix.WriteString("│   ")
		} else {
			prefix.WriteString("    ")
		}
	}

	if isLast {
		prefix.WriteString("└── ")
	} else {
		prefix.WriteString("├── ")
	}

	return prefix.String()
}
