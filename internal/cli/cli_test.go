package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/star/internal/app"
	"github.com/runoshun/star/internal/testutil"
)

const testNarrative = `# Situation
Server outages increased.
# Task
Reduce downtime.
# Action
* Add monitoring
* Create runbook
  * Draft
  * Review
# Result
* Fewer incidents
`

const testDocPath = "/work/star.xml"

// testEnv bundles a container built on mocks.
type testEnv struct {
	c      *app.Container
	repo   *testutil.MockRecordRepository
	logger *testutil.MockLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := testutil.NewMockRecordRepository()
	logger := &testutil.MockLogger{}
	c := app.NewWithDeps(
		app.Config{WorkDir: "/work", DocPath: testDocPath},
		repo,
		&testutil.MockSourceLoader{Texts: map[string]string{"incident.md": testNarrative}},
		&testutil.MockIDGenerator{},
		&testutil.MockClock{NowTime: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), Step: time.Minute},
		logger,
	)
	c.ConfigLoader = testutil.NewMockConfigLoader()
	c.ConfigManager = testutil.NewMockConfigManager()
	return &testEnv{c: c, repo: repo, logger: logger}
}

// run executes the root command with args and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCommand(e.c, "test-version")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// imported returns an env whose default document holds the test narrative.
func imported(t *testing.T) *testEnv {
	t.Helper()
	e := newTestEnv(t)
	_, _, err := e.run(t, "import", "incident.md")
	require.NoError(t, err)
	return e
}
