// Package xmldoc persists task records as XML documents.
package xmldoc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/runoshun/star/internal/domain"
)

// Element and attribute names of the persisted document.
const (
	tagRoot      = "star"
	tagSituation = "situation"
	tagTask      = "task"
	tagLog       = "log"
	tagLogEntry  = "li"

	attrID        = "id"
	attrStatus    = "status"
	attrTimestamp = "timestamp"

	indentSpaces = 2
)

// Ensure Codec implements domain.RecordCodec.
var _ domain.RecordCodec = (*Codec)(nil)

// Codec converts task records to and from XML.
type Codec struct {
	Clock  domain.Clock  // clock of reloaded records
	Logger domain.Logger // receives dropped log entries
}

// New creates a Codec.
func New(clock domain.Clock, logger domain.Logger) *Codec {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Codec{Clock: clock, Logger: logger}
}

// Marshal renders rec as an indented XML document.
func (c *Codec) Marshal(rec *domain.TaskRecord) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(tagRoot)
	root.CreateAttr(attrID, rec.ID())
	root.CreateElement(tagSituation).SetText(rec.Situation)
	root.CreateElement(tagTask).SetText(rec.Task)

	rec.Encode(&encoder{stack: []*etree.Element{root}})

	logEl := root.CreateElement(tagLog)
	for _, r := range rec.Timeline() {
		li := logEl.CreateElement(tagLogEntry)
		li.CreateAttr(attrID, r.ID)
		li.CreateAttr(attrTimestamp, domain.FormatTimestamp(r.Time))
		li.SetText(logText(r))
	}

	doc.Indent(indentSpaces)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return data, nil
}

// Unmarshal rebuilds a record from a document written by Marshal.
// Log entries are replayed oldest first. Entries whose identity no
// longer exists in the record are dropped.
func (c *Codec) Unmarshal(data []byte) (*domain.TaskRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, domain.Malformedf(nil, "%v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != tagRoot {
		return nil, domain.Malformedf([]string{tagRoot}, "missing root element")
	}
	path := []string{tagRoot}
	idAttr := root.SelectAttr(attrID)
	if idAttr == nil {
		return nil, domain.Malformedf(path, "missing %s attribute", attrID)
	}

	situation, err := requireChild(root, path, tagSituation)
	if err != nil {
		return nil, err
	}
	task, err := requireChild(root, path, tagTask)
	if err != nil {
		return nil, err
	}
	actionsEl, err := requireChild(root, path, domain.KindAction.BranchTag())
	if err != nil {
		return nil, err
	}
	logEl, err := requireChild(root, path, tagLog)
	if err != nil {
		return nil, err
	}

	rec := domain.NewTaskRecord(idAttr.Value, c.Clock)
	rec.Situation = situation.Text()
	rec.Task = task.Text()

	actions, err := decodeBranch(actionsEl, domain.KindAction, "", append(path, actionsEl.Tag), rec)
	if err != nil {
		return nil, err
	}
	results, err := c.decodeResults(root, path, rec)
	if err != nil {
		return nil, err
	}
	rec.SetTrees(actions, results)

	if err := c.replay(rec, logEl, append(path, tagLog)); err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeResults accepts the top-level results branch or the lone fragment
// written for a results tree with a single child.
func (c *Codec) decodeResults(root *etree.Element, path []string, rec *domain.TaskRecord) (*domain.Branch, error) {
	kind := domain.KindResult
	var el *etree.Element
	for _, child := range root.ChildElements() {
		if child.Tag == kind.BranchTag() || child.Tag == kind.Tag() {
			el = child
			break
		}
	}
	if el == nil {
		return nil, domain.Malformedf(path, "missing %s element", kind.BranchTag())
	}

	childPath := append(append([]string(nil), path...), el.Tag)
	if el.Tag == kind.BranchTag() && el.SelectAttrValue(attrID, "") == "" {
		return decodeBranch(el, kind, "", childPath, rec)
	}
	node, err := decodeNode(el, kind, childPath, rec)
	if err != nil {
		return nil, err
	}
	return domain.NewBranch(kind, "", node), nil
}

func decodeBranch(el *etree.Element, kind domain.Kind, id string, path []string, rec *domain.TaskRecord) (*domain.Branch, error) {
	b := domain.NewBranch(kind, id)
	for _, child := range el.ChildElements() {
		childPath := append(append([]string(nil), path...), child.Tag)
		node, err := decodeNode(child, kind, childPath, rec)
		if err != nil {
			return nil, err
		}
		b.Add(node)
	}
	return b, nil
}

func decodeNode(el *etree.Element, kind domain.Kind, path []string, rec *domain.TaskRecord) (domain.Node, error) {
	id := el.SelectAttrValue(attrID, "")
	if id == "" {
		return nil, domain.Malformedf(path, "missing %s attribute", attrID)
	}
	switch el.Tag {
	case kind.Tag():
		return domain.NewLeaf(kind, id, el.Text(), rec.Clock(), rec), nil
	case kind.BranchTag():
		return decodeBranch(el, kind, id, path, rec)
	default:
		return nil, domain.Malformedf(path, "unexpected element in %s tree", kind)
	}
}

func (c *Codec) replay(rec *domain.TaskRecord, logEl *etree.Element, path []string) error {
	entries := logEl.SelectElements(tagLogEntry)
	for i := len(entries) - 1; i >= 0; i-- {
		li := entries[i]
		liPath := append(append([]string(nil), path...), fmt.Sprintf("%s[%d]", tagLogEntry, i+1))

		ts, err := domain.ParseTimestamp(li.SelectAttrValue(attrTimestamp, ""))
		if err != nil {
			return domain.Malformedf(liPath, "bad %s: %v", attrTimestamp, err)
		}
		label, err := parseLogLabel(li.Text())
		if err != nil {
			return domain.Malformedf(liPath, "%v", err)
		}

		id := li.SelectAttrValue(attrID, "")
		target, ok := rec.Resolve(id)
		if !ok {
			c.Logger.Debug(rec.ID(), "reload", fmt.Sprintf("dropped log entry for unknown id %q", id))
			continue
		}
		target.Replay(domain.EventEntry{Label: label, Time: ts})
	}
	return nil
}

// logText renders "[label] title", leaving out an empty title.
func logText(r domain.LogRecord) string {
	if r.Title == "" {
		return r.Label.Bracketed()
	}
	return r.Label.Bracketed() + " " + r.Title
}

// parseLogLabel extracts the label from "[label] title".
func parseLogLabel(text string) (domain.EventLabel, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		return "", fmt.Errorf("log entry %q has no bracketed label", text)
	}
	inner, _, ok := strings.Cut(text[1:], "]")
	if !ok {
		return "", fmt.Errorf("log entry %q has no bracketed label", text)
	}
	return domain.ParseEventLabel(inner)
}

func requireChild(el *etree.Element, path []string, tag string) (*etree.Element, error) {
	child := el.SelectElement(tag)
	if child == nil {
		return nil, domain.Malformedf(path, "missing %s element", tag)
	}
	return child, nil
}

// encoder builds tree fragments under the element on top of its stack.
type encoder struct {
	stack []*etree.Element
}

func (e *encoder) top() *etree.Element {
	return e.stack[len(e.stack)-1]
}

func (e *encoder) OpenBranch(kind domain.Kind, id string) {
	el := e.top().CreateElement(kind.BranchTag())
	if id != "" {
		el.CreateAttr(attrID, id)
	}
	e.stack = append(e.stack, el)
}

func (e *encoder) CloseBranch() {
	e.stack = e.stack[:len(e.stack)-1]
}

func (e *encoder) Leaf(kind domain.Kind, id, status, text string) {
	el := e.top().CreateElement(kind.Tag())
	el.CreateAttr(attrID, id)
	if status != "" {
		el.CreateAttr(attrStatus, status)
	}
	el.SetText(text)
}
