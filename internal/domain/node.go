package domain

// Kind tells which outline a node belongs to.
type Kind int

const (
	KindAction Kind = iota
	KindResult
)

// Tag returns the document tag of a leaf of this kind.
func (k Kind) Tag() string {
	if k == KindResult {
		return "result"
	}
	return "action"
}

// BranchTag returns the document tag of a branch of this kind.
func (k Kind) BranchTag() string {
	return k.Tag() + "s"
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return k.Tag()
}

// DocumentEncoder receives the fragments of a serialized tree.
// Implementations build the concrete document.
type DocumentEncoder interface {
	OpenBranch(kind Kind, id string)
	CloseBranch()
	Leaf(kind Kind, id, status, text string)
}

// Node is an element of an action or result outline: a *Leaf or a *Branch.
//
// go-sumtype:decl Node
type Node interface {
	ID() string
	Kind() Kind
	Parent() *Branch
	// Find searches depth first and returns the first leaf with the identity.
	Find(id string) (*Leaf, bool)
	// DetailedLog returns the events of the subtree, in child order.
	DetailedLog() []LogRecord
	Encode(enc DocumentEncoder)
	AsLeaf() (*Leaf, bool)
	AsBranch() (*Branch, bool)

	setParent(p *Branch)
}

// Leaf is a titled action item or an evidenced result item.
type Leaf struct {
	clock  Clock
	sink   StatusSink // nil for result items
	parent *Branch
	id     string
	text   string
	log    EventLog
	kind   Kind
}

// NewLeaf creates a leaf with a known identity.
// The sink is only kept for action leaves.
func NewLeaf(kind Kind, id, text string, clock Clock, sink StatusSink) *Leaf {
	if clock == nil {
		clock = RealClock{}
	}
	if kind != KindAction {
		sink = nil
	}
	return &Leaf{
		kind:  kind,
		id:    id,
		text:  text,
		clock: clock,
		sink:  sink,
	}
}

func (l *Leaf) ID() string                { return l.id }
func (l *Leaf) Kind() Kind                { return l.kind }
func (l *Leaf) Parent() *Branch           { return l.parent }
func (l *Leaf) Text() string              { return l.text }
func (l *Leaf) String() string            { return l.text }
func (l *Leaf) AsLeaf() (*Leaf, bool)     { return l, true }
func (l *Leaf) AsBranch() (*Branch, bool) { return nil, false }
func (l *Leaf) setParent(p *Branch)       { l.parent = p }

// Log returns the raw event log.
func (l *Leaf) Log() *EventLog {
	return &l.log
}

// Status returns the most recent event.
func (l *Leaf) Status() (EventEntry, bool) {
	return l.log.Last()
}

// Started records a started event.
func (l *Leaf) Started() EventEntry {
	return l.logit(EventStarted)
}

// Done records a completed event.
func (l *Leaf) Done() EventEntry {
	return l.logit(EventCompleted)
}

// Completed is an alias of Done.
func (l *Leaf) Completed() EventEntry {
	return l.Done()
}

// Stopped records a stopped event.
func (l *Leaf) Stopped() EventEntry {
	return l.logit(EventStopped)
}

// Record appends an event with the given label at the current instant.
func (l *Leaf) Record(label EventLabel) EventEntry {
	return l.logit(label)
}

// Replay appends a historical entry and propagates it like a live one.
func (l *Leaf) Replay(e EventEntry) {
	l.append(e)
}

func (l *Leaf) logit(label EventLabel) EventEntry {
	e := EventEntry{Label: label, Time: l.clock.Now()}
	l.append(e)
	return e
}

func (l *Leaf) append(e EventEntry) {
	l.log.Append(e)
	if l.sink != nil {
		l.sink.Notify(StatusEvent{Label: e.Label, Time: e.Time, Title: l.text})
	}
}

// Find matches only the leaf itself.
func (l *Leaf) Find(id string) (*Leaf, bool) {
	if id != "" && l.id == id {
		return l, true
	}
	return nil, false
}

// DetailedLog returns the leaf's entries tagged with its identity and title.
func (l *Leaf) DetailedLog() []LogRecord {
	return l.log.records(l.id, l.text)
}

// Encode emits the leaf fragment.
func (l *Leaf) Encode(enc DocumentEncoder) {
	status := ""
	if e, ok := l.Status(); ok {
		status = e.String()
	}
	enc.Leaf(l.kind, l.id, status, l.text)
}

// Branch is an ordered sequence of leaves and nested branches.
type Branch struct {
	parent   *Branch
	id       string
	children []Node
	kind     Kind
}

// NewBranch creates a branch with a known identity and adopts the children.
// Top-level trees use an empty identity.
func NewBranch(kind Kind, id string, children ...Node) *Branch {
	b := &Branch{kind: kind, id: id}
	for _, c := range children {
		b.Add(c)
	}
	return b
}

func (b *Branch) ID() string                { return b.id }
func (b *Branch) Kind() Kind                { return b.kind }
func (b *Branch) Parent() *Branch           { return b.parent }
func (b *Branch) AsLeaf() (*Leaf, bool)     { return nil, false }
func (b *Branch) AsBranch() (*Branch, bool) { return b, true }
func (b *Branch) setParent(p *Branch)       { b.parent = p }

// Add appends a child and sets its parent reference.
func (b *Branch) Add(child Node) {
	child.setParent(b)
	b.children = append(b.children, child)
}

// Children returns the direct children.
func (b *Branch) Children() []Node {
	return b.children
}

// Len returns the number of direct children.
func (b *Branch) Len() int {
	return len(b.children)
}

// At returns the i-th child (0-based).
func (b *Branch) At(i int) (Node, bool) {
	if i < 0 || i >= len(b.children) {
		return nil, false
	}
	return b.children[i], true
}

// AtPath follows 0-based child indices from this branch.
func (b *Branch) AtPath(path []int) (Node, bool) {
	var n Node = b
	for _, i := range path {
		br, ok := n.AsBranch()
		if !ok {
			return nil, false
		}
		if n, ok = br.At(i); !ok {
			return nil, false
		}
	}
	return n, true
}

// Find asks children in order and returns the first match.
func (b *Branch) Find(id string) (*Leaf, bool) {
	for _, c := range b.children {
		if l, ok := c.Find(id); ok {
			return l, true
		}
	}
	return nil, false
}

// DetailedLog concatenates the children's detailed logs in child order.
// Callers sort by time when they need chronology.
func (b *Branch) DetailedLog() []LogRecord {
	var out []LogRecord
	for _, c := range b.children {
		out = append(out, c.DetailedLog()...)
	}
	return out
}

// Encode emits the branch fragment. The top-level results tree with a
// single child emits only that child's fragment.
func (b *Branch) Encode(enc DocumentEncoder) {
	if b.kind == KindResult && b.parent == nil && len(b.children) == 1 {
		b.children[0].Encode(enc)
		return
	}
	enc.OpenBranch(b.kind, b.id)
	for _, c := range b.children {
		c.Encode(enc)
	}
	enc.CloseBranch()
}

// Walk visits every node below the branch depth first. The path holds
// 0-based child indices from this branch.
func (b *Branch) Walk(fn func(path []int, n Node)) {
	b.walk(nil, fn)
}

func (b *Branch) walk(prefix []int, fn func(path []int, n Node)) {
	for i, c := range b.children {
		path := append(append([]int(nil), prefix...), i)
		fn(path, c)
		if br, ok := c.AsBranch(); ok {
			br.walk(path, fn)
		}
	}
}

// Leaves returns all leaves depth first.
func (b *Branch) Leaves() []*Leaf {
	var out []*Leaf
	b.Walk(func(_ []int, n Node) {
		if l, ok := n.AsLeaf(); ok {
			out = append(out, l)
		}
	})
	return out
}

// Outline converts the branch back into the nested text sequence it was
// built from.
func (b *Branch) Outline() Outline {
	out := make(Outline, 0, len(b.children))
	for _, c := range b.children {
		if br, ok := c.AsBranch(); ok {
			out = append(out, ListItem(br.Outline()...))
			continue
		}
		l, _ := c.AsLeaf()
		out = append(out, TextItem(l.text))
	}
	return out
}

// TreeBuilder turns outlines into trees with fresh identities.
type TreeBuilder struct {
	IDs   IDGenerator
	Clock Clock
	Sink  StatusSink // attached to action leaves
}

// Build creates a top-level tree isomorphic to the outline.
func (tb TreeBuilder) Build(kind Kind, outline Outline) *Branch {
	root := NewBranch(kind, "")
	tb.fill(root, outline)
	return root
}

func (tb TreeBuilder) fill(b *Branch, outline Outline) {
	for _, item := range outline {
		if item.IsList() {
			child := NewBranch(b.kind, tb.IDs.NewID())
			tb.fill(child, item.Items)
			b.Add(child)
			continue
		}
		b.Add(NewLeaf(b.kind, tb.IDs.NewID(), item.Text, tb.Clock, tb.Sink))
	}
}
