// Package source resolves import locators to text.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/star/internal/domain"
)

// Locator prefixes and source kinds.
const (
	gitPrefix  = "git:"
	filePrefix = "file://"
	stdinName  = "-"

	KindInline = "inline"
	KindFile   = "file"
	KindGit    = "git"
	KindStdin  = "stdin"
)

// Ensure Loader implements domain.SourceLoader.
var _ domain.SourceLoader = (*Loader)(nil)

// Loader reads inline text, files, stdin and files at a git revision.
//
// Locator forms:
//
//	"# Situation\n..."      text containing a newline is used as is
//	"git:<rev>:<path>"      file contents at a revision
//	"file://<path>", "<path>"
//	"-"                     standard input
type Loader struct {
	Stdin    io.Reader
	RepoPath string // repository for git: locators (default: working directory)
}

// NewLoader creates a Loader that resolves git: locators in repoPath.
func NewLoader(repoPath string, stdin io.Reader) *Loader {
	return &Loader{RepoPath: repoPath, Stdin: stdin}
}

// Read returns the text behind the locator.
func (l *Loader) Read(ctx context.Context, locator string) (string, domain.SourceMeta, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.SourceMeta{}, err
	}
	if strings.TrimSpace(locator) == "" {
		return "", domain.SourceMeta{}, domain.ErrEmptyLocator
	}

	meta := domain.SourceMeta{Locator: locator}
	switch {
	case strings.Contains(locator, "\n"):
		meta.Kind = KindInline
		return locator, meta, nil
	case locator == stdinName:
		meta.Kind = KindStdin
		return l.readStdin(meta)
	case strings.HasPrefix(locator, gitPrefix):
		meta.Kind = KindGit
		return l.readGit(strings.TrimPrefix(locator, gitPrefix), meta)
	default:
		meta.Kind = KindFile
		meta.Path = strings.TrimPrefix(locator, filePrefix)
		data, err := os.ReadFile(meta.Path)
		if err != nil {
			return "", meta, fmt.Errorf("read %s: %w", meta.Path, err)
		}
		return string(data), meta, nil
	}
}

func (l *Loader) readStdin(meta domain.SourceMeta) (string, domain.SourceMeta, error) {
	if l.Stdin == nil {
		return "", meta, errors.New("no standard input available")
	}
	data, err := io.ReadAll(l.Stdin)
	if err != nil {
		return "", meta, fmt.Errorf("read standard input: %w", err)
	}
	return string(data), meta, nil
}

func (l *Loader) readGit(spec string, meta domain.SourceMeta) (string, domain.SourceMeta, error) {
	rev, path, ok := strings.Cut(spec, ":")
	if !ok || rev == "" || path == "" {
		return "", meta, fmt.Errorf("git locator must be git:<rev>:<path>, got %q", meta.Locator)
	}
	meta.Path = filepath.ToSlash(path)

	repoPath := l.RepoPath
	if repoPath == "" {
		repoPath = "."
	}
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", meta, fmt.Errorf("%s: %w", repoPath, domain.ErrNoGitRepository)
		}
		return "", meta, fmt.Errorf("open git repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", meta, fmt.Errorf("resolve revision %s: %w", rev, err)
	}
	meta.Rev = hash.String()

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", meta, fmt.Errorf("get commit %s: %w", rev, err)
	}
	file, err := commit.File(meta.Path)
	if err != nil {
		return "", meta, fmt.Errorf("find %s at %s: %w", meta.Path, rev, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return "", meta, fmt.Errorf("read %s at %s: %w", meta.Path, rev, err)
	}
	return contents, meta, nil
}
