package field

// Node is the decode result of one packet or layer: an ordered list of fields
// in wire order, with subtrees bracketed by marker fields.
type Node struct {
	Type   string
	Fields []Field

	open []int
}

// NewNode returns an empty node of the given type.
func NewNode(typ string) *Node {
	return &Node{Type: typ}
}

// Add appends f.
func (n *Node) Add(f Field) {
	n.Fields = append(n.Fields, f)
}

// Last returns the most recently added field, or nil. The pointer is only
// valid until the next field is added.
func (n *Node) Last() *Field {
	if len(n.Fields) == 0 {
		return nil
	}
	return &n.Fields[len(n.Fields)-1]
}

// Begin opens a subtree named key starting at start.
func (n *Node) Begin(key string, start uint32) {
	n.open = append(n.open, len(n.Fields))
	n.Add(Field{Key: key, Loc: Bytes(start, 0), Status: StatusSubtreeStart})
}

// End closes the innermost subtree, which ends just before end. End without a
// matching Begin is ignored.
func (n *Node) End(end uint32) {
	if len(n.open) == 0 {
		return
	}
	i := n.open[len(n.open)-1]
	n.open = n.open[:len(n.open)-1]

	begin := &n.Fields[i]
	if end > begin.Loc.Start {
		begin.Loc.Len = uint16(end - begin.Loc.Start)
	}
	n.Add(Field{Key: begin.Key, Loc: begin.Loc, Status: StatusSubtreeEnd})
}

// Walk calls fn for every value field with the keys of the subtrees enclosing it.
func (n *Node) Walk(fn func(path []string, f Field)) {
	var path []string
	for _, f := range n.Fields {
		switch f.Status {
		case StatusSubtreeStart:
			path = append(path, f.Key)
		case StatusSubtreeEnd:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		default:
			fn(path, f)
		}
	}
}

// Lookup finds the first value field whose enclosing subtree keys and own key
// equal path, e.g. Lookup("L2CAP", "Command_1", "Source_CID").
func (n *Node) Lookup(path ...string) (Field, bool) {
	if len(path) == 0 {
		return Field{}, false
	}
	var out Field
	var found bool
	n.Walk(func(p []string, f Field) {
		if found || f.Key != path[len(path)-1] || len(p) != len(path)-1 {
			return
		}
		for i := range p {
			if p[i] != path[i] {
				return
			}
		}
		out, found = f, true
	})
	return out, found
}

// Subtree reports whether a subtree named by path was opened.
func (n *Node) Subtree(path ...string) bool {
	var depth []string
	for _, f := range n.Fields {
		switch f.Status {
		case StatusSubtreeStart:
			depth = append(depth, f.Key)
			if equal(depth, path) {
				return true
			}
		case StatusSubtreeEnd:
			if len(depth) > 0 {
				depth = depth[:len(depth)-1]
			}
		}
	}
	return false
}

// Errors returns every field with StatusError.
func (n *Node) Errors() []Field {
	var out []Field
	for _, f := range n.Fields {
		if f.Status == StatusError {
			out = append(out, f)
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
