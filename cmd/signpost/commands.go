package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"signpost/internal/sidebar"

	"github.com/spf13/cobra"
)

func defaultCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print the built-in tutorial sidebar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := sidebar.ParseFormat(format)
			if err != nil {
				return err
			}
			return sidebar.Encode(cmd.OutOrStdout(), sidebar.Default(), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "js", "Output format: js, json or yaml")
	return cmd
}

func convertCmd() *cobra.Command {
	var from, to, output string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a sidebars file to another format",
		Long: `Convert a sidebars file to another format. Use "-" to read standard
input (requires --from). The output format defaults to the extension of
--output, then to json.`,
		Example: "  signpost convert sidebars.js --to yaml -o sidebars.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, args[0], from)
			if err != nil {
				return err
			}

			target, err := outputFormat(to, output)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := sidebar.Encode(&buf, cfg, target); err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format (default: from the file extension)")
	cmd.Flags().StringVar(&to, "to", "", "Output format: js, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: standard output)")
	return cmd
}

func outputFormat(to, output string) (sidebar.Format, error) {
	switch {
	case to != "":
		return sidebar.ParseFormat(to)
	case output != "" && output != "-":
		return sidebar.FormatFromPath(output)
	default:
		return sidebar.FormatJSON, nil
	}
}

// errInvalid marks a run that found problems; the details are already printed.
var errInvalid = errors.New("validation failed")

func validateCmd() *cobra.Command {
	var from, docs string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check sidebars files for structural problems",
		Long: `Check sidebars files for structural problems. With --docs, doc ids
must also resolve to a .md or .mdx file under that directory and
autogenerated directories must exist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				issues, cfg, err := validateFile(cmd, path, from, docs)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", path, err)
					failed++
					continue
				}
				if len(issues) > 0 {
					for _, issue := range issues {
						fmt.Fprintf(out, "%s: %s\n", path, issue)
					}
					failed++
					continue
				}
				stats := cfg.Stats()
				fmt.Fprintf(out, "%s: ok (%d sidebars, %d categories, %d docs, %d links)\n",
					path, stats.Sidebars, stats.Categories, stats.Docs, stats.Links)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errInvalid, failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format (default: from the file extension)")
	cmd.Flags().StringVar(&docs, "docs", "", "Docs directory to resolve doc ids against")
	return cmd
}

func validateFile(cmd *cobra.Command, path, from, docs string) ([]sidebar.Issue, sidebar.Config, error) {
	cfg, err := readConfig(cmd, path, from)
	if err != nil {
		return nil, sidebar.Config{}, err
	}

	var issues []sidebar.Issue
	var invalid *sidebar.ValidationErrors
	if err := sidebar.Validate(cfg); errors.As(err, &invalid) {
		issues = append(issues, invalid.Issues...)
	}

	if docs != "" {
		missing, err := sidebar.CheckReferences(cfg, os.DirFS(docs))
		if err != nil {
			return nil, sidebar.Config{}, fmt.Errorf("scan %s: %w", docs, err)
		}
		issues = append(issues, missing...)
	}
	return issues, cfg, nil
}

func treeCmd() *cobra.Command {
	var from, docs string

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Draw the sidebars in a file as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd, args[0], from)
			if err != nil {
				return err
			}
			if docs != "" {
				if cfg, err = sidebar.Expand(cfg, os.DirFS(docs)); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), sidebar.RenderTree(cfg))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format (default: from the file extension)")
	cmd.Flags().StringVar(&docs, "docs", "", "Docs directory used to expand autogenerated items")
	return cmd
}

func generateCmd() *cobra.Command {
	var name, format, dir string

	cmd := &cobra.Command{
		Use:   "generate <docs-dir>",
		Short: "Generate a sidebar from a docs directory",
		Long: `Generate a sidebar from a docs directory the way Docusaurus builds
autogenerated sidebars: frontmatter sidebar_position and sidebar_label,
number prefixes, _category_ files and index docs are honoured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := sidebar.ParseFormat(format)
			if err != nil {
				return err
			}
			items, err := sidebar.Generate(os.DirFS(args[0]), dir)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("no docs found under %s", filepath.Join(args[0], dir))
			}
			cfg := sidebar.Config{Sidebars: []sidebar.Sidebar{{Name: name, Items: items}}}
			return sidebar.Encode(cmd.OutOrStdout(), cfg, f)
		},
	}

	cmd.Flags().StringVar(&name, "name", sidebar.DefaultSidebarName, "Sidebar name")
	cmd.Flags().StringVar(&format, "format", "js", "Output format: js, json or yaml")
	cmd.Flags().StringVar(&dir, "dir", ".", "Subdirectory to generate from; doc ids stay relative to <docs-dir>")
	return cmd
}

// readConfig decodes path, or standard input for "-".
func readConfig(cmd *cobra.Command, path, from string) (sidebar.Config, error) {
	var (
		format sidebar.Format
		err    error
	)
	switch {
	case from != "":
		format, err = sidebar.ParseFormat(from)
	case path == "-":
		err = errors.New("--from is required when reading standard input")
	default:
		format, err = sidebar.FormatFromPath(path)
	}
	if err != nil {
		return sidebar.Config{}, err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return sidebar.Config{}, err
		}
		defer f.Close()
		r = f
	}

	cfg, err := sidebar.Decode(r, format)
	if err != nil {
		return sidebar.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
