package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/infra/narrative"
	"github.com/runoshun/star/internal/infra/outline"
	"github.com/runoshun/star/internal/infra/xmldoc"
	"github.com/runoshun/star/internal/testutil"
	"github.com/runoshun/star/internal/usecase"
)

const scenario = `# Situation
Server outages increased.
# Task
Reduce downtime.
# Action
* Add monitoring
* Create runbook
# Result
* Fewer incidents
`

type fixture struct {
	clock    *testutil.MockClock
	loader   *testutil.MockSourceLoader
	repo     *testutil.MockRecordRepository
	logger   *testutil.MockLogger
	importer *domain.Importer
}

func newFixture() *fixture {
	clock := &testutil.MockClock{NowTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Step: time.Second}
	loader := &testutil.MockSourceLoader{Texts: map[string]string{"star.md": scenario}}
	parser := outline.New()
	return &fixture{
		clock:  clock,
		loader: loader,
		repo:   testutil.NewMockRecordRepository(),
		logger: &testutil.MockLogger{},
		importer: &domain.Importer{
			Loader:     loader,
			Splitter:   narrative.NewSplitter(),
			Parser:     parser,
			Projection: narrative.NewProjection(parser),
			IDs:        &testutil.MockIDGenerator{},
			Clock:      clock,
		},
	}
}

func (f *fixture) importScenario(t *testing.T) *domain.TaskRecord {
	t.Helper()
	out, err := usecase.NewImportRecord(f.importer, f.repo, f.logger).Execute(context.Background(), usecase.ImportRecordInput{
		Source: "star.md",
		Path:   "star.xml",
	})
	require.NoError(t, err)
	return out.Record
}

func TestImportRecord_Execute(t *testing.T) {
	f := newFixture()

	out, err := usecase.NewImportRecord(f.importer, f.repo, f.logger).Execute(context.Background(), usecase.ImportRecordInput{
		Source: "star.md",
		Path:   "star.xml",
	})

	require.NoError(t, err)
	assert.Equal(t, "Server outages increased.", out.Record.Situation)
	assert.Equal(t, "Reduce downtime.", out.Record.Task)
	assert.Len(t, out.Record.Actions().Leaves(), 2)
	assert.Len(t, out.Record.Results().Leaves(), 1)
	assert.Equal(t, "star.md", out.Source.Locator)
	assert.Same(t, out.Record, f.repo.Records["star.xml"])
	assert.Equal(t, 1, f.repo.Creates)
	assert.Zero(t, f.repo.Saves)
	assert.Len(t, f.logger.ByCategory("import"), 1)
}

func TestImportRecord_Execute_RefusesOverwrite(t *testing.T) {
	f := newFixture()
	first := f.importScenario(t)

	uc := usecase.NewImportRecord(f.importer, f.repo, f.logger)
	_, err := uc.Execute(context.Background(), usecase.ImportRecordInput{Source: "star.md", Path: "star.xml"})
	assert.ErrorIs(t, err, domain.ErrRecordExists)
	assert.Same(t, first, f.repo.Records["star.xml"])

	out, err := uc.Execute(context.Background(), usecase.ImportRecordInput{Source: "star.md", Path: "star.xml", Force: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), out.Record.ID())
	assert.Equal(t, 1, f.repo.Saves)
}

func TestImportRecord_Execute_CreateRace(t *testing.T) {
	f := newFixture()
	racer := domain.NewTaskRecord("racer", nil)
	repo := &racingRepository{MockRecordRepository: f.repo, path: "star.xml", racer: racer}

	_, err := usecase.NewImportRecord(f.importer, repo, f.logger).Execute(context.Background(), usecase.ImportRecordInput{
		Source: "star.md",
		Path:   "star.xml",
	})

	assert.ErrorIs(t, err, domain.ErrRecordExists)
	assert.Same(t, racer, f.repo.Records["star.xml"])
	assert.Empty(t, f.logger.ByCategory("import"))
}

// racingRepository stores a competing record right after the existence
// check, before the importer writes its own.
type racingRepository struct {
	*testutil.MockRecordRepository
	racer *domain.TaskRecord
	path  string
}

func (r *racingRepository) Exists(path string) (bool, error) {
	exists, err := r.MockRecordRepository.Exists(path)
	r.Records[r.path] = r.racer
	return exists, err
}

func TestImportRecord_Execute_Errors(t *testing.T) {
	t.Run("unreadable source", func(t *testing.T) {
		f := newFixture()
		_, err := usecase.NewImportRecord(f.importer, f.repo, f.logger).Execute(context.Background(), usecase.ImportRecordInput{
			Source: "missing.md",
			Path:   "star.xml",
		})
		assert.ErrorIs(t, err, domain.ErrSourceUnreadable)
		assert.Empty(t, f.repo.Records)
	})

	t.Run("missing path", func(t *testing.T) {
		f := newFixture()
		_, err := usecase.NewImportRecord(f.importer, f.repo, f.logger).Execute(context.Background(), usecase.ImportRecordInput{
			Source: "star.md",
		})
		assert.Error(t, err)
	})

	t.Run("save error", func(t *testing.T) {
		f := newFixture()
		f.repo.SaveErr = errors.New("read-only")
		_, err := usecase.NewImportRecord(f.importer, f.repo, f.logger).Execute(context.Background(), usecase.ImportRecordInput{
			Source: "star.md",
			Path:   "star.xml",
		})
		assert.ErrorContains(t, err, "save record: read-only")
	})
}

func TestUpdateStatus_Execute_Scenario(t *testing.T) {
	f := newFixture()
	f.importScenario(t)
	uc := usecase.NewUpdateStatus(f.repo, f.logger)

	started, err := uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Ref: "1", Event: domain.EventStarted})
	require.NoError(t, err)
	assert.Equal(t, "Add monitoring", started.Title)

	done, err := uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Ref: "1", Event: domain.EventCompleted})
	require.NoError(t, err)

	status, ok := done.Record.Status()
	require.True(t, ok)
	assert.Equal(t, domain.EventCompleted, status.Label)
	assert.Equal(t, "Add monitoring", status.Title)
	assert.False(t, status.Time.Before(started.Entry.Time))

	exported, err := usecase.NewExportRecord(f.repo, xmldoc.New(f.clock, nil)).Execute(context.Background(), usecase.ExportRecordInput{Path: "star.xml"})
	require.NoError(t, err)
	assert.Contains(t, string(exported.Data), `">[completed] Add monitoring</li>`)

	assert.Len(t, f.logger.ByCategory("status"), 2)
}

func TestUpdateStatus_Execute_Refs(t *testing.T) {
	f := newFixture()
	rec := f.importScenario(t)
	uc := usecase.NewUpdateStatus(f.repo, f.logger)
	second := rec.Actions().Leaves()[1]
	result := rec.Results().Leaves()[0]

	out, err := uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Ref: second.ID(), Event: domain.EventStopped})
	require.NoError(t, err)
	assert.Equal(t, "Create runbook", out.Title)
	assert.Equal(t, 1, second.Log().Len())

	out, err = uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Event: domain.EventStarted})
	require.NoError(t, err)
	assert.Empty(t, out.Title)
	assert.Equal(t, 1, rec.Log().Len())

	_, err = uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Ref: result.ID(), Event: domain.EventStarted})
	assert.ErrorIs(t, err, domain.ErrResultStatus)
	assert.Equal(t, 0, result.Log().Len())

	_, err = uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Ref: "9", Event: domain.EventStarted})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "star.xml", Ref: "1", Event: "paused"})
	assert.ErrorIs(t, err, domain.ErrInvalidEventLabel)

	_, err = uc.Execute(context.Background(), usecase.UpdateStatusInput{Path: "other.xml", Event: domain.EventStarted})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestShowRecord_Execute(t *testing.T) {
	f := newFixture()
	f.importScenario(t)

	_, err := usecase.NewUpdateStatus(f.repo, f.logger).Execute(context.Background(), usecase.UpdateStatusInput{
		Path: "star.xml", Ref: "2", Event: domain.EventStarted,
	})
	require.NoError(t, err)

	out, err := usecase.NewShowRecord(f.repo).Execute(context.Background(), usecase.ShowRecordInput{Path: "star.xml"})
	require.NoError(t, err)

	require.True(t, out.HasStatus)
	assert.Equal(t, "Create runbook", out.Status.Title)
	require.Len(t, out.Actions, 2)
	assert.False(t, out.Actions[0].HasStatus)
	assert.True(t, out.Actions[1].HasStatus)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "Fewer incidents", out.Results[0].Text)
}

func TestShowLog_Execute(t *testing.T) {
	f := newFixture()
	f.importScenario(t)
	status := usecase.NewUpdateStatus(f.repo, f.logger)
	for _, in := range []usecase.UpdateStatusInput{
		{Path: "star.xml", Ref: "1", Event: domain.EventStarted},
		{Path: "star.xml", Ref: "1", Event: domain.EventCompleted},
		{Path: "star.xml", Ref: "2", Event: domain.EventStarted},
	} {
		_, err := status.Execute(context.Background(), in)
		require.NoError(t, err)
	}

	uc := usecase.NewShowLog(f.repo)

	out, err := uc.Execute(context.Background(), usecase.ShowLogInput{Path: "star.xml"})
	require.NoError(t, err)
	require.Len(t, out.Entries, 3)
	assert.Equal(t, "Create runbook", out.Entries[0].Title)
	assert.Equal(t, domain.EventCompleted, out.Entries[1].Label)

	out, err = uc.Execute(context.Background(), usecase.ShowLogInput{Path: "star.xml", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.Entries, 1)
	assert.Equal(t, 3, out.Total)
}

func TestRenderRecord_Execute(t *testing.T) {
	f := newFixture()
	f.importScenario(t)

	out, err := usecase.NewRenderRecord(f.repo, narrative.Renderer{}).Execute(context.Background(), usecase.RenderRecordInput{Path: "star.xml"})
	require.NoError(t, err)
	assert.Equal(t, "# Situation\nServer outages increased.\n\n# Task\nReduce downtime.\n\n# Action\n* Add monitoring\n* Create runbook\n\n# Result\n* Fewer incidents\n", out.Text)
}

func TestExportRecord_Execute_NotFound(t *testing.T) {
	f := newFixture()
	_, err := usecase.NewExportRecord(f.repo, xmldoc.New(nil, nil)).Execute(context.Background(), usecase.ExportRecordInput{Path: "star.xml"})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
