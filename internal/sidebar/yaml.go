package sidebar

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler using the same shapes as JSON.
func (it Item) MarshalYAML() (interface{}, error) {
	v, err := it.shape()
	if err != nil || len(it.Extra) == 0 {
		return v, err
	}
	if err := it.checkExtra(); err != nil {
		return nil, err
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	for _, p := range it.Extra {
		value, err := jsonNode(p.Value)
		if err != nil {
			return nil, fmt.Errorf("extra property %q: %w", p.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
			value,
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (it *Item) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}

	switch value.Kind {
	case yaml.ScalarNode:
		if tag := value.ShortTag(); tag != "!!str" {
			return fmt.Errorf("line %d: sidebar item must be a doc id string, got %s %q", value.Line, tag, value.Value)
		}
		*it = Doc(value.Value)
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: sidebar item must be a string or a mapping", value.Line)
	}

	if mappingValue(value, "type") == nil {
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: sidebar item mapping has no \"type\"", value.Line)
		}
		label := value.Content[0].Value
		var items []Item
		if err := value.Content[1].Decode(&items); err != nil {
			return fmt.Errorf("category %q: %w", label, err)
		}
		*it = Category(label, items...)
		return nil
	}

	var f itemFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	if err := it.fromFields(f); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	known := knownKeys[it.Type]
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if known[key] {
			continue
		}
		raw, err := nodeJSON(value.Content[i+1])
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", value.Content[i].Line, key, err)
		}
		it.Extra = append(it.Extra, Property{Key: key, Value: raw})
	}
	return nil
}

var linkKeys = map[string]bool{
	"type": true, "id": true, "title": true, "description": true,
	"slug": true, "keywords": true, "image": true,
}

// UnmarshalYAML implements yaml.Unmarshaler, rejecting unknown members
// the way the JSON decoder does.
func (l *CategoryLink) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if key := value.Content[i]; !linkKeys[key.Value] {
				return fmt.Errorf("line %d: category link: unknown field %q", key.Line, key.Value)
			}
		}
	}

	type plain CategoryLink
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*l = CategoryLink(p)
	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping sidebar order.
func (c Config) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, sb := range c.Sidebars {
		items := sb.Items
		if items == nil {
			items = []Item{}
		}
		var value yaml.Node
		if err := value.Encode(items); err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", sb.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sb.Name},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping sidebar order.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebars must be a mapping of sidebar names", value.Line)
	}

	var sidebars []Sidebar
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		body := value.Content[i+1]
		if body.Kind == yaml.AliasNode && body.Alias != nil {
			body = body.Alias
		}

		var items []Item
		switch body.Kind {
		case yaml.SequenceNode:
			if err := body.Decode(&items); err != nil {
				return fmt.Errorf("sidebar %q: %w", name, err)
			}
		case yaml.MappingNode:
			for j := 0; j+1 < len(body.Content); j += 2 {
				label := body.Content[j].Value
				var children []Item
				if err := body.Content[j+1].Decode(&children); err != nil {
					return fmt.Errorf("sidebar %q: category %q: %w", name, label, err)
				}
				items = append(items, Category(label, children...))
			}
		default:
			return fmt.Errorf("line %d: sidebar %q must be a list of items", body.Line, name)
		}
		sidebars = append(sidebars, Sidebar{Name: name, Items: items})
	}

	c.Sidebars = sidebars
	return nil
}

// mappingValue returns the value node stored under key, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// nodeJSON converts a YAML value to compact JSON, keeping mapping order.
func nodeJSON(node *yaml.Node) (json.RawMessage, error) {
	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", node.Line)
		}
		return nodeJSON(node.Alias)
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, fmt.Errorf("line %d: empty document", node.Line)
		}
		return nodeJSON(node.Content[0])
	case yaml.MappingNode:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(node.Content[i].Value)
			if err != nil {
				return nil, err
			}
			value, err := nodeJSON(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case yaml.SequenceNode:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			value, err := nodeJSON(elem)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return data, nil
	}
}

// jsonNode is the inverse of nodeJSON. Styles are cleared so the value is
// written in block style like the rest of the file.
func jsonNode(raw json.RawMessage) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("not a single value: %s", truncate(raw))
	}
	node := doc.Content[0]
	clearStyle(node)
	return node, nil
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
