package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is an inspectable view of a document, used for debug dumps.
type Node struct {
	Kind     string            `yaml:"kind" json:"kind"`
	Text     string            `yaml:"text,omitempty" json:"text,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Children []*Node           `yaml:"children,omitempty" json:"children,omitempty"`
}

// Tree converts d into a [Node] tree. ids may be nil; when given, group
// names are included.
func Tree(d Doc, ids *IDs) *Node {
	switch d := d.(type) {
	case nil:
		return &Node{Kind: "nil"}
	case Text:
		return &Node{Kind: "text", Text: string(d)}
	case Concat:
		n := &Node{Kind: "concat"}
		for _, e := range d {
			n.Children = append(n.Children, Tree(e, ids))
		}
		return n
	case Line:
		return &Node{Kind: d.Kind.String()}
	case Indent:
		return &Node{Kind: "indent", Children: []*Node{Tree(d.Contents, ids)}}
	case *Group:
		n := &Node{Kind: "group", Children: []*Node{Tree(d.Contents, ids)}}
		if d.ID != 0 || d.Expand {
			n.Attrs = map[string]string{}
		}
		if d.ID != 0 {
			n.Attrs["id"] = groupLabel(d.ID, ids)
		}
		if d.Expand {
			n.Attrs["expand"] = "true"
		}
		return n
	case IfBreaks:
		n := &Node{Kind: "if_breaks", Children: []*Node{Tree(d.Broken, ids), Tree(d.Flat, ids)}}
		if d.Group != 0 {
			n.Attrs = map[string]string{"group": groupLabel(d.Group, ids)}
		}
		return n
	case BestFit:
		n := &Node{Kind: "best_fit"}
		for _, v := range d.Variants {
			n.Children = append(n.Children, Tree(v, ids))
		}
		return n
	case LineSuffix:
		return &Node{
			Kind:     "line_suffix",
			Attrs:    map[string]string{"reserved": strconv.Itoa(d.Reserved)},
			Children: []*Node{Tree(d.Contents, ids)},
		}
	case ExpandParent:
		return &Node{Kind: "expand_parent"}
	case Mark:
		return &Node{Kind: "mark", Attrs: map[string]string{"id": strconv.Itoa(d.ID)}}
	}
	return &Node{Kind: fmt.Sprintf("%T", d)}
}

func groupLabel(id GroupID, ids *IDs) string {
	if name := ids.nameOrEmpty(id); name != "" {
		return fmt.Sprintf("%d:%s", id, name)
	}
	return strconv.Itoa(int(id))
}

func (ids *IDs) nameOrEmpty(id GroupID) string {
	if ids == nil {
		return ""
	}
	return ids.Name(id)
}

// Dump renders d as an indented, human readable IR listing.
func Dump(d Doc, ids *IDs) string {
	var sb strings.Builder
	dumpNode(&sb, Tree(d, ids), 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	switch n.Kind {
	case "text":
		sb.WriteString(strconv.Quote(n.Text))
	default:
		sb.WriteString(n.Kind)
	}
	if len(n.Attrs) > 0 {
		keys := make([]string, 0, len(n.Attrs))
		for _, k := range []string{"id", "group", "expand", "reserved"} {
			if v, ok := n.Attrs[k]; ok {
				keys = append(keys, k+": "+v)
			}
		}
		sb.WriteString("(" + strings.Join(keys, ", ") + ")")
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		dumpNode(sb, c, depth+1)
	}
}
