// Package app provides the dependency injection container for the application.
package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/infra/config"
	"github.com/runoshun/star/internal/infra/filestore"
	"github.com/runoshun/star/internal/infra/ident"
	"github.com/runoshun/star/internal/infra/logging"
	"github.com/runoshun/star/internal/infra/narrative"
	"github.com/runoshun/star/internal/infra/outline"
	"github.com/runoshun/star/internal/infra/source"
	"github.com/runoshun/star/internal/infra/xmldoc"
	"github.com/runoshun/star/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	WorkDir  string // Working directory
	StateDir string // Path to .star directory
	RepoPath string // Repository for git: locators
	DocPath  string // Default record document
}

// newConfig derives paths from the working directory and loaded settings.
func newConfig(dir string, appConfig *domain.Config) Config {
	repo := appConfig.Source.Repo
	if repo == "" {
		repo = dir
	}
	doc := appConfig.Store.File
	if doc == "" {
		doc = domain.DefaultStoreFile
	}
	if !filepath.IsAbs(doc) {
		doc = filepath.Join(dir, doc)
	}
	return Config{
		WorkDir:  dir,
		StateDir: domain.LocalStarDir(dir),
		RepoPath: repo,
		DocPath:  doc,
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Records       domain.RecordRepository
	Codec         domain.RecordCodec
	Renderer      domain.RecordRenderer
	Sources       domain.SourceLoader
	IDs           domain.IDGenerator
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config

	// Configuration
	Config Config
}

// New creates a new Container rooted at the given working directory.
// Log files are only written when the .star directory already exists.
func New(dir string, stdin io.Reader) (*Container, error) {
	stateDir := domain.LocalStarDir(dir)
	configLoader := config.NewLoader(stateDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}
	cfg := newConfig(dir, appConfig)

	logDir := ""
	if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
		logDir = stateDir
	}
	logger := logging.New(logDir, logging.ParseLevel(appConfig.Log.Level))

	clock := domain.RealClock{}
	codec := xmldoc.New(clock, logger)

	return &Container{
		Records:       filestore.New(codec),
		Codec:         codec,
		Renderer:      narrative.Renderer{},
		Sources:       source.NewLoader(cfg.RepoPath, stdin),
		IDs:           ident.Generator{},
		Clock:         clock,
		Logger:        logger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(stateDir),
		AppConfig:     appConfig,
		Config:        cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, records domain.RecordRepository, sources domain.SourceLoader, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		Records:   records,
		Codec:     xmldoc.New(clock, logger),
		Renderer:  narrative.Renderer{},
		Sources:   sources,
		IDs:       ids,
		Clock:     clock,
		Logger:    logger,
		AppConfig: domain.NewDefaultConfig(),
		Config:    cfg,
	}
}

// Close releases open log files.
func (c *Container) Close() error {
	if closer, ok := c.Logger.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Importer returns a DocumentImporter wired to the container's ports.
func (c *Container) Importer() *domain.Importer {
	parser := outline.New()
	return &domain.Importer{
		Loader:     c.Sources,
		Splitter:   narrative.NewSplitter(),
		Parser:     parser,
		Projection: narrative.NewProjection(parser),
		IDs:        c.IDs,
		Clock:      c.Clock,
		Logger:     c.Logger,
	}
}

// UseCase factory methods

// ImportRecordUseCase returns a new ImportRecord use case.
func (c *Container) ImportRecordUseCase() *usecase.ImportRecord {
	return usecase.NewImportRecord(c.Importer(), c.Records, c.Logger)
}

// UpdateStatusUseCase returns a new UpdateStatus use case.
func (c *Container) UpdateStatusUseCase() *usecase.UpdateStatus {
	return usecase.NewUpdateStatus(c.Records, c.Logger)
}

// ShowRecordUseCase returns a new ShowRecord use case.
func (c *Container) ShowRecordUseCase() *usecase.ShowRecord {
	return usecase.NewShowRecord(c.Records)
}

// ShowLogUseCase returns a new ShowLog use case.
func (c *Container) ShowLogUseCase() *usecase.ShowLog {
	return usecase.NewShowLog(c.Records)
}

// ExportRecordUseCase returns a new ExportRecord use case.
func (c *Container) ExportRecordUseCase() *usecase.ExportRecord {
	return usecase.NewExportRecord(c.Records, c.Codec)
}

// RenderRecordUseCase returns a new RenderRecord use case.
func (c *Container) RenderRecordUseCase() *usecase.RenderRecord {
	return usecase.NewRenderRecord(c.Records, c.Renderer)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
