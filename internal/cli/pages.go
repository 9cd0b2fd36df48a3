package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the scene's pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPages()
	},
}

type pageView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Nodes   int    `json:"nodes"`
	Current bool   `json:"current,omitempty"`
}

func runPages() error {
	doc, err := requireScene()
	if doc == nil {
		return err
	}

	current := ""
	if sceneMatchesState(resolvedScenePath) {
		current = getState().CurrentPage
	}

	views := make([]pageView, len(doc.Pages))
	for i, p := range doc.Pages {
		views[i] = pageView{
			ID:    p.ID,
			Name:  p.Name,
			Slug:  scene.PageSlug(p.Name),
			Nodes: subtreeSize(p),
		}
		if current != "" && (p.Name == current || views[i].Slug == scene.PageSlug(current)) {
			views[i].Current = true
		}
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"scene": absScenePath(resolvedScenePath),
			"pages": views,
		}, &Meta{Count: len(views)})
		return nil
	}

	fmt.Println(ui.Header(fmt.Sprintf("%s %s", doc.Name, ui.Count(len(views), "page", "pages"))))
	fmt.Println()
	nameWidth := 0
	slugWidth := 0
	for _, v := range views {
		if len(v.Name) > nameWidth {
			nameWidth = len(v.Name)
		}
		if len(v.Slug) > slugWidth {
			slugWidth = len(v.Slug)
		}
	}
	for _, v := range views {
		marker := " "
		if v.Current {
			marker = "*"
		}
		fmt.Printf("%s # %-*s  %s  %s\n",
			marker,
			nameWidth, v.Name,
			ui.Hint(fmt.Sprintf("%-*s", slugWidth, v.Slug)),
			ui.Hint(fmt.Sprintf("%d %s", v.Nodes, pluralize(v.Nodes, "node", "nodes"))))
	}
	if current != "" && !quiet {
		fmt.Println()
		fmt.Println(ui.Hint("* current page; searches without --page or a #Page directive start here."))
	}
	return nil
}

// subtreeSize counts a page's layers, the page node excluded.
func subtreeSize(n *scene.Node) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + subtreeSize(c)
	}
	return total
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
