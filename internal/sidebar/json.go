package sidebar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The object shapes below are shared by the JSON and YAML codecs; field
// order is the key order written to disk.
type docJSON struct {
	Type  ItemType `json:"type" yaml:"type"`
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
}

type categoryJSON struct {
	Type        ItemType      `json:"type" yaml:"type"`
	Label       string        `json:"label" yaml:"label"`
	Collapsible *bool         `json:"collapsible,omitempty" yaml:"collapsible,omitempty"`
	Collapsed   *bool         `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Link        *CategoryLink `json:"link,omitempty" yaml:"link,omitempty"`
	Items       []Item        `json:"items" yaml:"items"`
}

type linkJSON struct {
	Type  ItemType `json:"type" yaml:"type"`
	Label string   `json:"label" yaml:"label"`
	Href  string   `json:"href" yaml:"href"`
}

type autogeneratedJSON struct {
	Type    ItemType `json:"type" yaml:"type"`
	DirName string   `json:"dirName" yaml:"dirName"`
}

type htmlJSON struct {
	Type  ItemType `json:"type" yaml:"type"`
	Value string   `json:"value" yaml:"value"`
}

type refJSON struct {
	Type  ItemType `json:"type" yaml:"type"`
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// knownKeys are the members each item type maps onto Item fields. Any
// other member of an item object is kept in Item.Extra.
var knownKeys = map[ItemType]map[string]bool{
	TypeDoc:           {"type": true, "id": true, "label": true},
	TypeCategory:      {"type": true, "label": true, "items": true, "collapsible": true, "collapsed": true, "link": true},
	TypeLink:          {"type": true, "label": true, "href": true},
	TypeAutogenerated: {"type": true, "dirName": true},
	TypeHTML:          {"type": true, "value": true},
	TypeRef:           {"type": true, "id": true, "label": true},
}

// itemFields is the union of every object shape accepted on input.
type itemFields struct {
	Type        ItemType      `json:"type" yaml:"type"`
	ID          string        `json:"id" yaml:"id"`
	Label       string        `json:"label" yaml:"label"`
	Href        string        `json:"href" yaml:"href"`
	DirName     string        `json:"dirName" yaml:"dirName"`
	Value       string        `json:"value" yaml:"value"`
	Collapsible *bool         `json:"collapsible" yaml:"collapsible"`
	Collapsed   *bool         `json:"collapsed" yaml:"collapsed"`
	Link        *CategoryLink `json:"link" yaml:"link"`
	Items       []Item        `json:"items" yaml:"items"`
}

// shape returns the value encoders should emit for it, without Extra: a
// bare string for plain docs, a typed object otherwise.
func (it Item) shape() (interface{}, error) {
	switch it.Type {
	case TypeDoc:
		if it.Label == "" && len(it.Extra) == 0 {
			return it.ID, nil
		}
		return docJSON{Type: TypeDoc, ID: it.ID, Label: it.Label}, nil
	case TypeCategory:
		items := it.Items
		if items == nil {
			items = []Item{}
		}
		return categoryJSON{
			Type:        TypeCategory,
			Label:       it.Label,
			Collapsible: it.Collapsible,
			Collapsed:   it.Collapsed,
			Link:        it.Link,
			Items:       items,
		}, nil
	case TypeLink:
		return linkJSON{Type: TypeLink, Label: it.Label, Href: it.Href}, nil
	case TypeAutogenerated:
		return autogeneratedJSON{Type: TypeAutogenerated, DirName: it.DirName}, nil
	case TypeHTML:
		return htmlJSON{Type: TypeHTML, Value: it.Value}, nil
	case TypeRef:
		return refJSON{Type: TypeRef, ID: it.ID, Label: it.Label}, nil
	default:
		return nil, fmt.Errorf("unknown sidebar item type %q", it.Type)
	}
}

// checkExtra rejects extra properties the codecs cannot write back.
func (it Item) checkExtra() error {
	for _, p := range it.Extra {
		if p.Key == "" {
			return errors.New("extra property has an empty key")
		}
		if knownKeys[it.Type][p.Key] {
			return fmt.Errorf("extra property %q shadows a %s field", p.Key, it.Type)
		}
		if !json.Valid(p.Value) {
			return fmt.Errorf("extra property %q is not valid JSON", p.Key)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (it Item) MarshalJSON() ([]byte, error) {
	v, err := it.shape()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil || len(it.Extra) == 0 {
		return data, err
	}
	if err := it.checkExtra(); err != nil {
		return nil, err
	}

	// every shape with extras is an object with at least a "type" member
	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, p := range it.Extra {
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(p.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts bare doc ids, typed
// objects and the single-key shorthand {"Label": [items...]} for categories.
func (it *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty sidebar item")
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*it = Doc(id)
		return nil
	case '{':
	default:
		return fmt.Errorf("sidebar item must be a string or an object, got %s", truncate(data))
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	if _, ok := keys["type"]; !ok {
		if len(keys) != 1 {
			return fmt.Errorf("sidebar item object has no \"type\": %s", truncate(data))
		}
		for label, raw := range keys {
			var items []Item
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("category %q: %w", label, err)
			}
			*it = Category(label, items...)
		}
		return nil
	}

	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if err := it.fromFields(f); err != nil {
		return err
	}

	known := knownKeys[it.Type]
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		if known[key] {
			return nil
		}
		var value bytes.Buffer
		if err := json.Compact(&value, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		it.Extra = append(it.Extra, Property{Key: key, Value: value.Bytes()})
		return nil
	})
}

func (it *Item) fromFields(f itemFields) error {
	switch f.Type {
	case TypeDoc:
		*it = Item{Type: TypeDoc, ID: f.ID, Label: f.Label}
	case TypeCategory:
		*it = Item{
			Type:        TypeCategory,
			Label:       f.Label,
			Items:       f.Items,
			Collapsible: f.Collapsible,
			Collapsed:   f.Collapsed,
			Link:        f.Link,
		}
	case TypeLink:
		*it = Item{Type: TypeLink, Label: f.Label, Href: f.Href}
	case TypeAutogenerated:
		*it = Item{Type: TypeAutogenerated, DirName: f.DirName}
	case TypeHTML:
		*it = Item{Type: TypeHTML, Value: f.Value}
	case TypeRef:
		*it = Item{Type: TypeRef, ID: f.ID, Label: f.Label}
	default:
		return fmt.Errorf("unknown sidebar item type %q", f.Type)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Unlike items, a category link
// has no room for extra members, so unknown ones are an error.
func (l *CategoryLink) UnmarshalJSON(data []byte) error {
	type plain CategoryLink
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p plain
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("category link: %w", err)
	}
	*l = CategoryLink(p)
	return nil
}

// MarshalJSON implements json.Marshaler, emitting sidebars as object keys
// in declaration order.
func (c Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sb := range c.Sidebars {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sb.Name)
		if err != nil {
			return nil, err
		}
		items := sb.Items
		if items == nil {
			items = []Item{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", sb.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Sidebar values may be item
// arrays or the shorthand object {"Category": [items...], ...}.
func (c *Config) UnmarshalJSON(data []byte) error {
	var sidebars []Sidebar
	err := decodeOrderedObject(data, func(name string, raw json.RawMessage) error {
		items, err := decodeSidebarValue(raw)
		if err != nil {
			return fmt.Errorf("sidebar %q: %w", name, err)
		}
		sidebars = append(sidebars, Sidebar{Name: name, Items: items})
		return nil
	})
	if err != nil {
		return err
	}
	c.Sidebars = sidebars
	return nil
}

func decodeSidebarValue(raw json.RawMessage) ([]Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var items []Item
		err := decodeOrderedObject(raw, func(label string, v json.RawMessage) error {
			var children []Item
			if err := json.Unmarshal(v, &children); err != nil {
				return fmt.Errorf("category %q: %w", label, err)
			}
			items = append(items, Category(label, children...))
			return nil
		})
		return items, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeOrderedObject calls fn for each member of a JSON object in the
// order the members appear.
func decodeOrderedObject(data []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %s", truncate(data))
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func truncate(data []byte) string {
	const max = 40
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
