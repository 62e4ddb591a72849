// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bfw-systems/bfw/internal/app"
	"github.com/bfw-systems/bfw/internal/modulelist"
)

type (
	// treeDocument is the machine-readable form of a load tree.
	treeDocument struct {
		Modules int         `json:"modules" yaml:"modules" toml:"modules"`
		Edges   int         `json:"edges" yaml:"edges" toml:"edges"`
		Layers  []treeLayer `json:"layers" yaml:"layers" toml:"layers"`
	}

	treeLayer struct {
		Index  int          `json:"index" yaml:"index" toml:"index"`
		Groups [][]string   `json:"groups" yaml:"groups" toml:"groups"`
		Needs  []treeModule `json:"needs,omitempty" yaml:"needs,omitempty" toml:"needs,omitempty"`
	}

	treeModule struct {
		Name         string   `json:"name" yaml:"name" toml:"name"`
		Dependencies []string `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	}
)

func newTreeCommand(a *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the module load tree",
		Long: `Discover the modules, read their needMe declarations and print the
resulting layers. Modules of one layer only need modules of earlier layers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := a.newApplication(cmd.Context(), app.ModeRun, "", nil)
			if err == nil {
				err = application.Build(cmd.Context())
			}
			if err != nil {
				cmd.SilenceErrors = true
				return a.fail(err)
			}

			list := application.ModuleList()
			doc := newTreeDocument(list.GetLoadTree(), list.Graph())
			if format == formatText {
				fmt.Fprint(a.stdout, renderTree(doc))
				return nil
			}
			return encodeDocument(a.stdout, format, doc)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, yaml or toml")
	return cmd
}

func newTreeDocument(tree modulelist.LoadTree, g *modulelist.Graph) treeDocument {
	doc := treeDocument{Modules: tree.Len(), Edges: g.EdgeCount(), Layers: make([]treeLayer, 0, len(tree))}
	for i, layer := range tree {
		tl := treeLayer{Index: i}
		for _, group := range layer {
			tl.Groups = append(tl.Groups, []string(group))
			for _, name := range group {
				if deps := g.Dependencies(name); len(deps) > 0 {
					tl.Needs = append(tl.Needs, treeModule{Name: name, Dependencies: deps})
				}
			}
		}
		doc.Layers = append(doc.Layers, tl)
	}
	return doc
}

func renderTree(doc treeDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", TitleStyle.Render("Load tree"),
		SubtitleStyle.Render(fmt.Sprintf("(%d modules, %d layers, %d edges)", doc.Modules, len(doc.Layers), doc.Edges)))
	if doc.Modules == 0 {
		fmt.Fprintln(&b, SubtitleStyle.Render("  (no modules found)"))
		return b.String()
	}

	for _, layer := range doc.Layers {
		needs := make(map[string][]string, len(layer.Needs))
		for _, m := range layer.Needs {
			needs[m.Name] = m.Dependencies
		}

		var lines []string
		for _, group := range layer.Groups {
			for _, name := range group {
				line := ModuleStyle.Render(name)
				if deps := needs[name]; len(deps) > 0 {
					line += " " + SubtitleStyle.Render("needs "+strings.Join(deps, ", "))
				}
				lines = append(lines, line)
			}
		}
		fmt.Fprintln(&b, TitleStyle.Render(fmt.Sprintf("Layer %d", layer.Index)))
		fmt.Fprintln(&b, layerStyle.Render(strings.Join(lines, "\n")))
	}
	return b.String()
}
