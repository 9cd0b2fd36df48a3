package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Wire shapes for a Figma REST file export (GET /v1/files/:key). Only
// the fields the engine consumes are decoded; everything else in the
// export is ignored.
type rawExport struct {
	Name     string   `json:"name"`
	Document *rawNode `json:"document"`
}

type rawNode struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Visible    *bool      `json:"visible"`
	Children   []*rawNode `json:"children"`
	Box        *rawBox    `json:"absoluteBoundingBox"`
	Fills      []rawPaint `json:"fills"`
	LayoutMode string     `json:"layoutMode"`
}

type rawBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type rawPaint struct {
	Type string `json:"type"`
}

// Load reads a file export from r and builds the document tree. Both
// the full export shape ({name, document}) and a bare node subtree are
// accepted. Node IDs must be unique.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	var export rawExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	root := export.Document
	name := export.Name
	if root == nil {
		// Bare subtree export: the top-level object is the node itself.
		var n rawNode
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("parsing scene: %w", err)
		}
		if n.ID == "" && n.Type == "" {
			return nil, fmt.Errorf("parsing scene: no document node")
		}
		root = &n
		name = n.Name
	}

	doc := &Document{Name: name, byID: make(map[string]*Node)}
	preorder := 0
	built, err := doc.build(root, nil, 0, 0, &preorder)
	if err != nil {
		return nil, err
	}
	doc.Root = built
	doc.count = preorder

	if built.Kind == KindPage {
		doc.Pages = []*Node{built}
	} else {
		for _, c := range built.Children {
			if c.Kind == KindPage {
				doc.Pages = append(doc.Pages, c)
			}
		}
	}
	if len(doc.Pages) == 0 {
		doc.Pages = []*Node{built}
	}
	return doc, nil
}

// LoadFile loads a scene export from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (d *Document) build(raw *rawNode, parent *Node, index, depth int, preorder *int) (*Node, error) {
	n := &Node{
		ID:       raw.ID,
		Name:     raw.Name,
		Type:     raw.Type,
		Kind:     kindForType(raw.Type),
		Visible:  raw.Visible == nil || *raw.Visible,
		Parent:   parent,
		Index:    index,
		Depth:    depth,
		Preorder: *preorder,
	}
	*preorder++

	for _, fill := range raw.Fills {
		if fill.Type == "IMAGE" {
			n.HasImageFill = true
			break
		}
	}
	switch raw.LayoutMode {
	case "HORIZONTAL":
		n.Axis = AxisHorizontal
	case "VERTICAL":
		n.Axis = AxisVertical
	}
	if raw.Box != nil {
		n.X, n.Y = raw.Box.X, raw.Box.Y
		n.W, n.H = raw.Box.Width, raw.Box.Height
		n.HasGeometry = true
	}

	if n.ID != "" {
		if _, dup := d.byID[n.ID]; dup {
			return nil, fmt.Errorf("parsing scene: duplicate node id %q", n.ID)
		}
		d.byID[n.ID] = n
	}

	if len(raw.Children) > 0 {
		n.Children = make([]*Node, 0, len(raw.Children))
		for i, rc := range raw.Children {
			child, err := d.build(rc, n, i, depth+1, preorder)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}
	return n, nil
}
