// Package pattern parses domain pattern expressions into an arena-backed syntax tree.
package pattern

// NodeID indexes a node inside an Arena.
type NodeID int32

// Node is one of Literal, CharClass, Alternation, Group or Sequence.
// The set is closed; code walking an Arena switches over these types.
type Node interface {
	node()
}

// Repetition is an inclusive repeat range. Zero value is not valid; use Once.
type Repetition struct {
	Min int
	Max int
}

// Once is the repetition applied when none is written.
var Once = Repetition{Min: 1, Max: 1}

// Literal is a fixed run of letters, digits and hyphens.
type Literal struct {
	Offset int
	Text   string
}

// CharClass matches Repeat.Min..Repeat.Max characters from Set.
type CharClass struct {
	Offset int
	Set    CharSet
	Repeat Repetition
}

// Alternation expands to the union of its option sequences.
type Alternation struct {
	Offset  int
	Options []NodeID
}

// Group repeats its body sequence Repeat.Min..Repeat.Max times.
type Group struct {
	Offset int
	Body   NodeID
	Repeat Repetition
}

// Sequence concatenates its elements.
type Sequence struct {
	Offset   int
	Elements []Element
}

// VarRef records one @name reference in the written text. References are
// replaced by the variable's text before parsing, so they never appear as
// nodes in an Arena.
type VarRef struct {
	Offset int
	Name   string
}

// Element is a primary node with an optional flag. An optional element also
// expands to the empty string.
type Element struct {
	Primary  NodeID
	Optional bool
}

func (Literal) node()     {}
func (CharClass) node()   {}
func (Alternation) node() {}
func (Group) node()       {}
func (Sequence) node()    {}

// Arena owns the nodes of one parse. Children always have lower IDs than their
// parent, so a forward pass over the arena visits every node after its children.
type Arena struct {
	nodes    []Node
	nullable []bool
}

// Len returns the number of nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node returns the node with the given ID.
func (a *Arena) Node(id NodeID) Node {
	return a.nodes[id]
}

// Nullable reports whether the node can expand to the empty string.
func (a *Arena) Nullable(id NodeID) bool {
	return a.nullable[id]
}

func (a *Arena) add(n Node, nullable bool) NodeID {
	a.nodes = append(a.nodes, n)
	a.nullable = append(a.nullable, nullable)

	return NodeID(len(a.nodes) - 1)
}

func (a *Arena) addLiteral(n Literal) NodeID {
	return a.add(n, n.Text == "")
}

func (a *Arena) addCharClass(n CharClass) NodeID {
	return a.add(n, n.Repeat.Min == 0)
}

func (a *Arena) addAlternation(n Alternation) NodeID {
	nullable := false

	for _, opt := range n.Options {
		if a.nullable[opt] {
			nullable = true
			break
		}
	}

	return a.add(n, nullable)
}

func (a *Arena) addGroup(n Group) NodeID {
	return a.add(n, n.Repeat.Min == 0 || a.nullable[n.Body])
}

func (a *Arena) addSequence(n Sequence) NodeID {
	nullable := true

	for _, el := range n.Elements {
		if !el.Optional && !a.nullable[el.Primary] {
			nullable = false
			break
		}
	}

	return a.add(n, nullable)
}

// Label is one dot-separated part of a domain expression.
type Label struct {
	Offset int
	Body   NodeID
}

// Domain is one parsed expression.
type Domain struct {
	Source string
	Line   int
	Labels []Label
	Refs   []VarRef
	Arena  *Arena
	Env    *Env
}

// VariableDef binds a name to an element sequence. Source is the value as
// written; Text is the value with earlier variables substituted, which is what
// a reference expands to.
type VariableDef struct {
	Name   string
	Line   int
	Source string
	Text   string
	Refs   []VarRef
	Body   NodeID
}

// Document holds the variables and expressions of a multi-line input. Its
// variables and domains share one Arena.
type Document struct {
	Arena     *Arena
	Env       *Env
	Variables []VariableDef
	Domains   []*Domain
}

// Line is one prepared statement with its 1-based source line number.
type Line struct {
	Number int
	Text   string
}
