package sidebar

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// docFrontmatter holds the frontmatter keys that affect the sidebar.
type docFrontmatter struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition *float64 `yaml:"sidebar_position"`
}

// categoryMeta is the content of a _category_.json or _category_.yml file.
// YAML is a superset of JSON, so one decoder reads both.
type categoryMeta struct {
	Label       string        `yaml:"label"`
	Position    *float64      `yaml:"position"`
	Collapsed   *bool         `yaml:"collapsed"`
	Collapsible *bool         `yaml:"collapsible"`
	Link        *CategoryLink `yaml:"link"`
}

// parseFrontmatter reads the YAML block between leading "---" lines.
// A file without frontmatter yields the zero value.
//
// Expected format:
//
//	---
//	id: quick-start
//	sidebar_position: 2
//	---
//	# Markdown content here
func parseFrontmatter(content []byte) (docFrontmatter, error) {
	var fm docFrontmatter

	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return fm, nil
	}

	lines := bytes.Split(content, []byte("\n"))

	// Skip the opening "---" line
	closing := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closing = i
			break
		}
	}
	if closing == 0 {
		return fm, errors.New("missing closing frontmatter delimiter '---'")
	}

	block := bytes.Join(lines[1:closing], []byte("\n"))
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fm, fmt.Errorf("parse YAML frontmatter: %w", err)
	}
	return fm, nil
}

func parseCategoryMeta(content []byte) (categoryMeta, error) {
	var meta categoryMeta
	if err := yaml.Unmarshal(content, &meta); err != nil {
		return meta, fmt.Errorf("parse category metadata: %w", err)
	}
	return meta, nil
}
