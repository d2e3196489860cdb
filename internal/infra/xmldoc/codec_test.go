package xmldoc_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/infra/narrative"
	"github.com/runoshun/star/internal/infra/outline"
	"github.com/runoshun/star/internal/infra/xmldoc"
	"github.com/runoshun/star/internal/testutil"
)

var t0 = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: t0, Step: time.Second}
}

// nestedRecord builds:
//
//	actions: "Add monitoring", ["Draft runbook", "Review runbook"]
//	results: "Fewer incidents"
func nestedRecord(t *testing.T, clock domain.Clock) *domain.TaskRecord {
	t.Helper()
	rec := domain.NewTaskRecord("rec-1", clock)
	rec.Situation = "Server outages increased."
	rec.Task = "Reduce downtime."
	b := rec.Builder(&testutil.MockIDGenerator{})
	rec.SetTrees(
		b.Build(domain.KindAction, domain.OutlineOf("Add monitoring", []any{"Draft runbook", "Review runbook"})),
		b.Build(domain.KindResult, domain.OutlineOf("Fewer incidents")),
	)
	return rec
}

func leafAt(t *testing.T, b *domain.Branch, path ...int) *domain.Leaf {
	t.Helper()
	n, ok := b.AtPath(path)
	require.True(t, ok, "no node at %v", path)
	l, ok := n.AsLeaf()
	require.True(t, ok, "node at %v is not a leaf", path)
	return l
}

func TestCodec_Marshal_Golden(t *testing.T) {
	clock := newClock()
	rec := nestedRecord(t, clock)
	rec.Started()
	first := leafAt(t, rec.Actions(), 0)
	first.Started()
	first.Done()
	leafAt(t, rec.Actions(), 1, 0).Started()

	data, err := xmldoc.New(clock, nil).Marshal(rec)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "nested_record", data)
}

func TestCodec_RoundTrip(t *testing.T) {
	clock := newClock()
	rec := nestedRecord(t, clock)
	rec.Started()
	first := leafAt(t, rec.Actions(), 0)
	first.Started()
	leafAt(t, rec.Actions(), 1, 1).Stopped()
	first.Done()

	codec := xmldoc.New(clock, nil)
	data, err := codec.Marshal(rec)
	require.NoError(t, err)

	got, err := codec.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, rec.ID(), got.ID())
	assert.Equal(t, rec.Situation, got.Situation)
	assert.Equal(t, rec.Task, got.Task)
	assert.Equal(t, rec.Actions().Outline(), got.Actions().Outline())
	assert.Equal(t, rec.Results().Outline(), got.Results().Outline())
	assert.Equal(t, nodeIDs(rec.Actions()), nodeIDs(got.Actions()))
	assert.Equal(t, nodeIDs(rec.Results()), nodeIDs(got.Results()))

	assert.Equal(t, rec.Log().Entries(), got.Log().Entries())
	for _, l := range rec.Actions().Leaves() {
		reloaded, ok := got.Find(l.ID())
		require.True(t, ok, l.ID())
		assert.Equal(t, l.Log().Entries(), reloaded.Log().Entries(), l.Text())
	}

	wantStatus, _ := rec.Status()
	gotStatus, ok := got.Status()
	require.True(t, ok)
	assert.Equal(t, wantStatus, gotStatus)

	again, err := codec.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestCodec_RoundTrip_NestedShape(t *testing.T) {
	rec := domain.NewTaskRecord("rec-1", nil)
	b := rec.Builder(&testutil.MockIDGenerator{})
	shape := domain.OutlineOf("A", []any{"B", "C"}, "D")
	rec.SetTrees(b.Build(domain.KindAction, shape), b.Build(domain.KindResult, shape))

	codec := xmldoc.New(nil, nil)
	data, err := codec.Marshal(rec)
	require.NoError(t, err)
	got, err := codec.Unmarshal(data)
	require.NoError(t, err)

	require.Equal(t, 3, got.Actions().Len())
	second, _ := got.Actions().At(1)
	branch, ok := second.AsBranch()
	require.True(t, ok)
	assert.Equal(t, 2, branch.Len())
	assert.Equal(t, shape, got.Actions().Outline())
	assert.Equal(t, shape, got.Results().Outline())
}

func TestCodec_Results(t *testing.T) {
	tests := []struct {
		name    string
		outline domain.Outline
		wrapped bool
	}{
		{"empty", domain.Outline{}, true},
		{"single leaf", domain.OutlineOf("R"), false},
		{"single branch", domain.OutlineOf([]any{"R1", "R2"}), false},
		{"two leaves", domain.OutlineOf("R1", "R2"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.NewTaskRecord("rec-1", nil)
			b := rec.Builder(&testutil.MockIDGenerator{})
			rec.SetTrees(nil, b.Build(domain.KindResult, tt.outline))

			codec := xmldoc.New(nil, nil)
			data, err := codec.Marshal(rec)
			require.NoError(t, err)

			doc := etree.NewDocument()
			require.NoError(t, doc.ReadFromBytes(data))
			top := doc.FindElement("/star/results")
			if tt.wrapped {
				require.NotNil(t, top)
				assert.Empty(t, top.SelectAttrValue("id", ""))
			} else {
				assert.True(t, top == nil || top.SelectAttrValue("id", "") != "")
			}

			got, err := codec.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, tt.outline, got.Results().Outline())
			assert.Equal(t, nodeIDs(rec.Results()), nodeIDs(got.Results()))
		})
	}
}

func TestCodec_Marshal_LogSortedNewestFirst(t *testing.T) {
	clock := newClock()
	rec := nestedRecord(t, clock)
	a := leafAt(t, rec.Actions(), 0)
	c := leafAt(t, rec.Actions(), 1, 1)
	c.Started()
	a.Started()
	rec.Stopped()
	a.Done()
	c.Done()

	data, err := xmldoc.New(clock, nil).Marshal(rec)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	items := doc.FindElements("/star/log/li")
	require.Len(t, items, 5)

	var prev time.Time
	for i, li := range items {
		ts, err := domain.ParseTimestamp(li.SelectAttrValue("timestamp", ""))
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, ts.After(prev), "entry %d is newer than entry %d", i, i-1)
		}
		prev = ts
	}
	assert.Equal(t, "[completed] Review runbook", items[0].Text())
	assert.Equal(t, "[stopped]", items[2].Text())
}

func TestCodec_EqualTimestampsKeepAppendOrder(t *testing.T) {
	clock := &testutil.MockClock{NowTime: t0}
	rec := nestedRecord(t, clock)
	a := leafAt(t, rec.Actions(), 0)
	a.Started()
	a.Stopped()
	a.Done()

	codec := xmldoc.New(clock, nil)
	data, err := codec.Marshal(rec)
	require.NoError(t, err)
	got, err := codec.Unmarshal(data)
	require.NoError(t, err)

	reloaded, ok := got.Find(a.ID())
	require.True(t, ok)
	assert.Equal(t, a.Log().Entries(), reloaded.Log().Entries())
	status, _ := got.Status()
	assert.Equal(t, domain.EventCompleted, status.Label)
}

func TestCodec_EqualTimestampsAcrossLeaves(t *testing.T) {
	clock := &testutil.MockClock{NowTime: t0}
	rec := nestedRecord(t, clock)
	first := leafAt(t, rec.Actions(), 0)
	nested := leafAt(t, rec.Actions(), 1, 0)

	nested.Started()
	first.Started()
	before, _ := rec.Status()
	require.Equal(t, "Add monitoring", before.Title)

	codec := xmldoc.New(clock, nil)
	data, err := codec.Marshal(rec)
	require.NoError(t, err)
	got, err := codec.Unmarshal(data)
	require.NoError(t, err)

	after, ok := got.Status()
	require.True(t, ok)
	assert.Equal(t, before, after)

	again, err := codec.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestCodec_Unmarshal_DropsUnknownIdentities(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<star id="rec-1">
  <situation>S</situation>
  <task>T</task>
  <actions>
    <action id="a-1">Kept</action>
  </actions>
  <results/>
  <log>
    <li id="gone" timestamp="2024-01-02T03:04:07Z">[completed] Removed item</li>
    <li id="a-1" timestamp="2024-01-02T03:04:06Z">[started] Kept</li>
  </log>
</star>
`
	logger := &testutil.MockLogger{}
	got, err := xmldoc.New(nil, logger).Unmarshal([]byte(input))
	require.NoError(t, err)

	leaf, ok := got.Find("a-1")
	require.True(t, ok)
	assert.Equal(t, 1, leaf.Log().Len())

	status, ok := got.Status()
	require.True(t, ok)
	assert.Equal(t, domain.EventStarted, status.Label)
	assert.Equal(t, "Kept", status.Title)

	dropped := logger.ByCategory("reload")
	require.Len(t, dropped, 1)
	assert.Contains(t, dropped[0].Msg, `"gone"`)
}

func TestCodec_Unmarshal_Malformed(t *testing.T) {
	const body = `<situation>S</situation><task>T</task><actions/><results/><log/>`
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not xml", "<star", ""},
		{"wrong root", `<record id="r">` + body + `</record>`, "missing root element"},
		{"missing id", `<star>` + body + `</star>`, "missing id attribute"},
		{"missing situation", `<star id="r"><task>T</task><actions/><results/><log/></star>`, "missing situation element"},
		{"missing task", `<star id="r"><situation>S</situation><actions/><results/><log/></star>`, "missing task element"},
		{"missing actions", `<star id="r"><situation>S</situation><task>T</task><results/><log/></star>`, "missing actions element"},
		{"missing results", `<star id="r"><situation>S</situation><task>T</task><actions/><log/></star>`, "missing results element"},
		{"missing log", `<star id="r"><situation>S</situation><task>T</task><actions/><results/></star>`, "missing log element"},
		{"leaf without id", `<star id="r"><situation>S</situation><task>T</task><actions><action>x</action></actions><results/><log/></star>`, "missing id attribute"},
		{"foreign element", `<star id="r"><situation>S</situation><task>T</task><actions><result id="x">x</result></actions><results/><log/></star>`, "unexpected element"},
		{"bad timestamp", `<star id="r">` + strings.Replace(body, "<log/>", `<log><li id="r" timestamp="yesterday">[started]</li></log>`, 1) + `</star>`, "bad timestamp"},
		{"bad label", `<star id="r">` + strings.Replace(body, "<log/>", `<log><li id="r" timestamp="2024-01-02T03:04:05Z">[paused]</li></log>`, 1) + `</star>`, "invalid event label"},
		{"no label", `<star id="r">` + strings.Replace(body, "<log/>", `<log><li id="r" timestamp="2024-01-02T03:04:05Z">started</li></log>`, 1) + `</star>`, "no bracketed label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := xmldoc.New(nil, nil).Unmarshal([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedDocument)
			var docErr *domain.DocumentError
			assert.ErrorAs(t, err, &docErr)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestCodec_ImportedScenario(t *testing.T) {
	source := `# Situation
Server outages increased.
# Task
Reduce downtime.
# Action
* Add monitoring
* Create runbook
# Result
* Fewer incidents
`
	clock := newClock()
	parser := outline.New()
	im := &domain.Importer{
		Loader:     &testutil.MockSourceLoader{Texts: map[string]string{"star.md": source}},
		Splitter:   narrative.NewSplitter(),
		Parser:     parser,
		Projection: narrative.NewProjection(parser),
		IDs:        &testutil.MockIDGenerator{},
		Clock:      clock,
	}
	rec, _, err := im.Import(context.Background(), "star.md")
	require.NoError(t, err)

	assert.Equal(t, "Server outages increased.", rec.Situation)
	assert.Equal(t, "Reduce downtime.", rec.Task)
	assert.Len(t, rec.Actions().Leaves(), 2)
	assert.Len(t, rec.Results().Leaves(), 1)

	first := leafAt(t, rec.Actions(), 0)
	started := first.Started()
	first.Done()

	status, ok := rec.Status()
	require.True(t, ok)
	assert.Equal(t, domain.EventCompleted, status.Label)
	assert.Equal(t, "Add monitoring", status.Title)
	assert.False(t, status.Time.Before(started.Time))

	data, err := xmldoc.New(clock, nil).Marshal(rec)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	li := doc.FindElement("/star/log/li")
	require.NotNil(t, li)
	assert.Equal(t, "[completed] Add monitoring", li.Text())
}

func nodeIDs(b *domain.Branch) []string {
	var ids []string
	b.Walk(func(_ []int, n domain.Node) {
		ids = append(ids, n.ID())
	})
	return ids
}
