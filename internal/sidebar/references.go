package sidebar

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// DocIndex maps every doc id found under the root of fsys to its file.
func DocIndex(fsys fs.FS) (map[string]string, error) {
	index := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isDocFile(name) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read doc %s: %w", p, err)
		}
		fm, err := parseFrontmatter(content)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		index[docIDFor(p, fm)] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index, nil
}

// CheckReferences reports doc ids in cfg that no file under fsys defines,
// and autogenerated directories that do not exist.
func CheckReferences(cfg Config, fsys fs.FS) ([]Issue, error) {
	index, err := DocIndex(fsys)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, sb := range cfg.Sidebars {
		_ = walk(sb.Items, sb.Name, 1, func(p string, it Item, _ int) error {
			switch it.Type {
			case TypeDoc, TypeRef:
				if _, ok := index[it.ID]; !ok {
					issues = append(issues, Issue{Path: p, Message: fmt.Sprintf("doc %q has no matching file", it.ID)})
				}
			case TypeCategory:
				if it.Link != nil && it.Link.Type == LinkTypeDoc {
					if _, ok := index[it.Link.ID]; !ok {
						issues = append(issues, Issue{Path: p + ".link", Message: fmt.Sprintf("doc %q has no matching file", it.Link.ID)})
					}
				}
			case TypeAutogenerated:
				dir := path.Clean(strings.TrimPrefix(it.DirName, "/"))
				info, err := fs.Stat(fsys, dir)
				switch {
				case errors.Is(err, fs.ErrNotExist):
					issues = append(issues, Issue{Path: p, Message: fmt.Sprintf("directory %q does not exist", it.DirName)})
				case err == nil && !info.IsDir():
					issues = append(issues, Issue{Path: p, Message: fmt.Sprintf("%q is not a directory", it.DirName)})
				}
			}
			return nil
		})
	}
	return issues, nil
}
