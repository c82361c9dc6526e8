package sidebar

import "fmt"

// WalkFunc is called for every item in pre-order. path locates the item
// relative to the walked slice ("[1].items[0]"); depth is 1 for top-level
// items. Returning an error stops the walk.
type WalkFunc func(path string, it Item, depth int) error

// Walk visits items and their descendants in pre-order.
func Walk(items []Item, fn WalkFunc) error {
	return walk(items, "", 1, fn)
}

func walk(items []Item, prefix string, depth int, fn WalkFunc) error {
	for i, it := range items {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		if err := fn(path, it, depth); err != nil {
			return err
		}
		if it.Type == TypeCategory {
			if err := walk(it.Items, path+".items", depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
