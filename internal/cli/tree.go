package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var (
	treePageFlag string
	treeDepth    int
	treeHidden   bool
	treeShowIDs  bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [node-id]",
	Short: "Print a layer subtree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID := ""
		if len(args) > 0 {
			nodeID = args[0]
		}
		return runTree(nodeID)
	},
}

func runTree(nodeID string) error {
	doc, err := requireScene()
	if doc == nil {
		return err
	}

	var root *scene.Node
	var warnings []Warning
	if nodeID != "" {
		if treePageFlag != "" {
			return handleErrorMsg(ErrInvalidInput, "give a node ID or --page, not both", "")
		}
		node, ok := doc.ByID(nodeID)
		if !ok {
			return handleErrorMsg(ErrNodeNotFound,
				fmt.Sprintf("node not found: %s", nodeID),
				"Node IDs come from search results; run 'figq last' to see them")
		}
		root = node
	} else {
		root, warnings, err = startPageFor(doc, resolvedScenePath, treePageFlag)
		if root == nil {
			return err
		}
	}

	opts := ui.TreeOptions{
		MaxDepth:      treeDepth,
		IncludeHidden: treeHidden,
		ShowIDs:       treeShowIDs,
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"scene": absScenePath(resolvedScenePath),
			"root":  treeNodeView(root, 0, treeDepth, treeHidden),
		}, warnings, nil)
		return nil
	}

	printWarnings(warnings)
	fmt.Print(ui.RenderTree(root, opts))
	return nil
}

type treeView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Type     string     `json:"type"`
	Visible  bool       `json:"visible"`
	Children []treeView `json:"children,omitempty"`
}

// treeNodeView mirrors the rendered tree: same depth cap, same hidden
// pruning. depth is 0 at the root; maxDepth 0 means unlimited.
func treeNodeView(n *scene.Node, depth, maxDepth int, includeHidden bool) treeView {
	v := treeView{
		ID:      n.ID,
		Name:    n.Name,
		Kind:    n.Kind.String(),
		Type:    n.Type,
		Visible: n.Visible,
	}
	if maxDepth > 0 && depth >= maxDepth {
		return v
	}
	for _, c := range n.Children {
		if !includeHidden && !c.Visible {
			continue
		}
		v.Children = append(v.Children, treeNodeView(c, depth+1, maxDepth, includeHidden))
	}
	return v
}

func init() {
	treeCmd.Flags().StringVar(&treePageFlag, "page", "", "Page to print (name or slug) instead of a node ID")
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "Levels to render below the root (0 = all)")
	treeCmd.Flags().BoolVar(&treeHidden, "hidden", false, "Include hidden layers")
	treeCmd.Flags().BoolVar(&treeShowIDs, "ids", false, "Append node IDs to labels")

	rootCmd.AddCommand(treeCmd)
}
