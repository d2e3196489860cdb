package domain

// TaskRecord is the root of a STAR record. It owns the situation and task
// text, one actions tree, one results tree, its own event log and the
// cached current status.
// Fields are ordered to minimize memory padding.
type TaskRecord struct {
	clock     Clock
	actions   *Branch
	results   *Branch
	status    StatusEvent
	id        string
	Situation string
	Task      string
	log       EventLog
	seq       uint64
	hasStatus bool
}

// Ensure TaskRecord receives action status events.
var _ StatusSink = (*TaskRecord)(nil)

// NewTaskRecord creates an empty record with the given identity.
func NewTaskRecord(id string, clock Clock) *TaskRecord {
	if clock == nil {
		clock = RealClock{}
	}
	r := &TaskRecord{
		id:      id,
		clock:   clock,
		actions: NewBranch(KindAction, ""),
		results: NewBranch(KindResult, ""),
	}
	r.log.shareCounter(&r.seq)
	return r
}

// ID returns the record identity.
func (r *TaskRecord) ID() string { return r.id }

// Clock returns the clock used for new events.
func (r *TaskRecord) Clock() Clock { return r.clock }

// Actions returns the actions tree.
func (r *TaskRecord) Actions() *Branch { return r.actions }

// Results returns the results tree.
func (r *TaskRecord) Results() *Branch { return r.results }

// SetTrees installs the actions and results trees. Action leaves should
// already use r as their status sink. Leaf logs share the record's
// sequence counter from here on.
func (r *TaskRecord) SetTrees(actions, results *Branch) {
	if actions != nil {
		r.actions = actions
	}
	if results != nil {
		r.results = results
	}
	for _, tree := range []*Branch{r.actions, r.results} {
		for _, l := range tree.Leaves() {
			l.log.shareCounter(&r.seq)
		}
	}
}

// Builder returns a TreeBuilder that wires r as the sink of action leaves.
func (r *TaskRecord) Builder(ids IDGenerator) TreeBuilder {
	return TreeBuilder{IDs: ids, Clock: r.clock, Sink: r}
}

// Notify overwrites the status cache with a propagated event.
func (r *TaskRecord) Notify(ev StatusEvent) {
	r.status = ev
	r.hasStatus = true
}

// Status returns the latest propagated event.
func (r *TaskRecord) Status() (StatusEvent, bool) {
	return r.status, r.hasStatus
}

// Log returns the record's own event log.
func (r *TaskRecord) Log() *EventLog {
	return &r.log
}

// Started records a started event on the record itself.
func (r *TaskRecord) Started() EventEntry {
	return r.Record(EventStarted)
}

// Done records a completed event on the record itself.
func (r *TaskRecord) Done() EventEntry {
	return r.Record(EventCompleted)
}

// Completed is an alias of Done.
func (r *TaskRecord) Completed() EventEntry {
	return r.Done()
}

// Stopped records a stopped event on the record itself.
func (r *TaskRecord) Stopped() EventEntry {
	return r.Record(EventStopped)
}

// Record appends an event with the given label at the current instant.
func (r *TaskRecord) Record(label EventLabel) EventEntry {
	e := EventEntry{Label: label, Time: r.clock.Now()}
	r.Replay(e)
	return e
}

// Replay appends a historical entry to the record's own log.
func (r *TaskRecord) Replay(e EventEntry) {
	r.log.Append(e)
	r.Notify(StatusEvent{Label: e.Label, Time: e.Time})
}

// DetailedLog returns the record's own entries tagged with its identity.
func (r *TaskRecord) DetailedLog() []LogRecord {
	return r.log.records(r.id, "")
}

// Timeline merges the record's own log with the actions tree's detailed
// log, newest first. This is the log that is persisted.
func (r *TaskRecord) Timeline() []LogRecord {
	merged := append(r.DetailedLog(), r.actions.DetailedLog()...)
	return SortLogNewestFirst(merged)
}

// EventTarget is anything a persisted log entry can be replayed onto.
type EventTarget interface {
	Replay(e EventEntry)
}

// Resolve maps an identity to the record itself or to a leaf of either tree.
func (r *TaskRecord) Resolve(id string) (EventTarget, bool) {
	if id == "" {
		return nil, false
	}
	if id == r.id {
		return r, true
	}
	if l, ok := r.actions.Find(id); ok {
		return l, true
	}
	if l, ok := r.results.Find(id); ok {
		return l, true
	}
	return nil, false
}

// Find looks an identity up in the actions tree, then the results tree.
func (r *TaskRecord) Find(id string) (*Leaf, bool) {
	if l, ok := r.actions.Find(id); ok {
		return l, true
	}
	return r.results.Find(id)
}

// Encode emits the actions and results fragments.
func (r *TaskRecord) Encode(enc DocumentEncoder) {
	r.actions.Encode(enc)
	r.results.Encode(enc)
}
