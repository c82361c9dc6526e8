package sidebar

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"signpost/internal/config"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Issue is one structural problem found in a Config.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationErrors collects every Issue found by Validate.
type ValidationErrors struct {
	Issues []Issue
}

func (e *ValidationErrors) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid sidebars"
	case 1:
		return "invalid sidebars: " + e.Issues[0].String()
	default:
		return fmt.Sprintf("invalid sidebars: %s (and %d more)", e.Issues[0].String(), len(e.Issues)-1)
	}
}

// Validate checks the structural rules a sidebar must satisfy before the
// site generator sees it. It reports every problem, not just the first;
// the error is a *ValidationErrors.
//
// Whether doc ids resolve to real pages is not checked here, see
// CheckReferences.
func Validate(cfg Config) error {
	v := &validator{seen: make(map[string]string)}
	v.config(cfg)
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationErrors{Issues: v.issues}
}

type validator struct {
	issues []Issue
	// seen maps doc id to the path it first appeared at
	seen map[string]string
}

func (v *validator) add(path, format string, args ...interface{}) {
	v.issues = append(v.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) config(cfg Config) {
	if len(cfg.Sidebars) == 0 {
		v.add("", "no sidebars defined")
		return
	}

	names := make(map[string]bool, len(cfg.Sidebars))
	for i, sb := range cfg.Sidebars {
		path := sb.Name
		if err := validation.Validate(sb.Name,
			validation.Required.Error("sidebar name is required"),
			validation.RuneLength(0, config.MaxSidebarNameLength),
		); err != nil {
			path = fmt.Sprintf("sidebars[%d]", i)
			v.add(path, "%s", err.Error())
		}
		if sb.Name != "" && names[sb.Name] {
			v.add(path, "duplicate sidebar name %q", sb.Name)
		}
		names[sb.Name] = true

		if len(sb.Items) == 0 {
			v.add(path, "sidebar has no items")
			continue
		}
		_ = walk(sb.Items, path, 1, func(p string, it Item, depth int) error {
			v.item(p, it, depth)
			return nil
		})
	}
}

func (v *validator) item(path string, it Item, depth int) {
	if depth > config.MaxDepth {
		v.add(path, "nested %d levels deep, limit is %d", depth, config.MaxDepth)
	}

	v.fieldErrors(path, itemRules(&it))
	if err := it.checkExtra(); err != nil {
		v.add(path, "%s", err.Error())
	}

	switch it.Type {
	case TypeDoc:
		v.docID(path, it.ID)
	case TypeCategory:
		if it.Link != nil && it.Link.Type == LinkTypeDoc {
			v.docID(path+".link", it.Link.ID)
		}
	}
}

func (v *validator) docID(path, id string) {
	if id == "" {
		return
	}
	if first, ok := v.seen[id]; ok {
		v.add(path, "doc %q already referenced at %s", id, first)
		return
	}
	v.seen[id] = path
}

// fieldErrors flattens ozzo field errors into issues, ordered by field.
func (v *validator) fieldErrors(path string, err error) {
	if err == nil {
		return
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		v.add(path, "%s", err.Error())
		return
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		v.add(path, "%s", errs[field].Error())
	}
}

func itemRules(it *Item) error {
	switch it.Type {
	case TypeDoc:
		return validation.ValidateStruct(it,
			validation.Field(&it.ID,
				validation.Required.Error("doc id is required"),
				validation.RuneLength(0, config.MaxDocIDLength),
				validation.By(docIDRule),
			),
			validation.Field(&it.Label, validation.RuneLength(0, config.MaxLabelLength)),
		)
	case TypeCategory:
		return validation.ValidateStruct(it,
			validation.Field(&it.Label,
				validation.Required.Error("category label is required"),
				validation.RuneLength(0, config.MaxLabelLength),
				validation.By(trimmedRule),
			),
			validation.Field(&it.Items, validation.Required.Error("category has no items")),
			validation.Field(&it.Link, validation.By(categoryLinkRule)),
		)
	case TypeLink:
		return validation.ValidateStruct(it,
			validation.Field(&it.Label,
				validation.Required.Error("link label is required"),
				validation.RuneLength(0, config.MaxLabelLength),
			),
			validation.Field(&it.Href,
				validation.Required.Error("link href is required"),
				validation.By(hrefRule),
			),
		)
	case TypeAutogenerated:
		return validation.ValidateStruct(it,
			validation.Field(&it.DirName, validation.Required.Error("autogenerated dirName is required")),
		)
	case TypeHTML:
		return validation.ValidateStruct(it,
			validation.Field(&it.Value, validation.Required.Error("html value is required")),
		)
	case TypeRef:
		// refs point into other sidebars, so they are exempt from the duplicate check
		return validation.ValidateStruct(it,
			validation.Field(&it.ID,
				validation.Required.Error("ref id is required"),
				validation.RuneLength(0, config.MaxDocIDLength),
				validation.By(docIDRule),
			),
			validation.Field(&it.Label, validation.RuneLength(0, config.MaxLabelLength)),
		)
	default:
		return fmt.Errorf("unknown item type %q", it.Type)
	}
}

// docIDRule applies the path rules doc ids share with file paths.
func docIDRule(value interface{}) error {
	id, _ := value.(string)
	if id == "" {
		return nil
	}
	if strings.TrimSpace(id) != id {
		return fmt.Errorf("doc id %q has leading or trailing whitespace", id)
	}
	if strings.HasPrefix(id, "/") || strings.HasSuffix(id, "/") {
		return fmt.Errorf("doc id %q cannot start or end with a slash", id)
	}
	for _, segment := range strings.Split(id, "/") {
		switch segment {
		case "":
			return fmt.Errorf("doc id %q contains an empty path segment", id)
		case ".", "..":
			return fmt.Errorf("doc id %q contains a relative path segment", id)
		}
	}
	return nil
}

func trimmedRule(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("label cannot be blank")
	}
	return nil
}

func categoryLinkRule(value interface{}) error {
	link, _ := value.(*CategoryLink)
	if link == nil {
		return nil
	}
	switch link.Type {
	case LinkTypeDoc:
		if link.ID == "" {
			return errors.New("category doc link requires an id")
		}
		return docIDRule(link.ID)
	case LinkTypeGeneratedIndex:
		return nil
	default:
		return fmt.Errorf("unknown category link type %q", link.Type)
	}
}

func hrefRule(value interface{}) error {
	href, _ := value.(string)
	if href == "" {
		return nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("invalid href %q", href)
	}
	if u.Scheme == "" && !strings.HasPrefix(href, "/") {
		return fmt.Errorf("href %q must be absolute or start with /", href)
	}
	return nil
}
