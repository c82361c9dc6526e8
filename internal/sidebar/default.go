package sidebar

// DefaultSidebarName is the sidebar key Docusaurus' classic preset expects.
const DefaultSidebarName = "tutorialSidebar"

// Default returns the documentation sidebar shipped with the project.
func Default() Config {
	return Config{Sidebars: []Sidebar{{
		Name: DefaultSidebarName,
		Items: []Item{
			Doc("index"),
			Category("Getting Started",
				Doc("introduction/concepts"),
				Doc("guides/installation"),
				Doc("guides/quick-start"),
			),
			Category("Guides",
				Doc("guides/generators"),
				Doc("guides/media-providers"),
			),
			Category("Examples",
				Doc("examples/overview"),
				Doc("examples/basic-password"),
				Doc("examples/tls-self-signed"),
				Doc("examples/aws-secrets-manager"),
			),
			Category("Contributing",
				Doc("contributing/process"),
			),
		},
	}}}
}
