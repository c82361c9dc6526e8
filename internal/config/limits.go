package config

const (
	// MaxSiteNameLength is the maximum length for stored site names.
	MaxSiteNameLength = 255

	// MaxSidebarNameLength is the maximum length for a sidebar key
	// such as "tutorialSidebar".
	MaxSidebarNameLength = 100

	// MaxLabelLength is the maximum length for category and link labels.
	MaxLabelLength = 255

	// MaxDocIDLength is the maximum length for a document identifier.
	// Same budget as document paths: "A/B/C/D/E/doc" with 100-char segments.
	MaxDocIDLength = 500

	// MaxDepth is the deepest category nesting accepted. Sidebars nested
	// deeper than this are unusable in a rendered navigation panel.
	MaxDepth = 8

	// MaxRequestBodyBytes caps uploaded sidebar configurations.
	MaxRequestBodyBytes = 2 << 20
)
