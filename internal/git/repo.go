// Package git keeps the brewguide journal under version control when the
// store lives inside a git work tree.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/alexander-akhmetov/brewguide/internal/debug"
)

// ErrOutsideRepo is returned when a path is not under the repository root.
var ErrOutsideRepo = errors.New("path is outside the repository")

// Repo is a git work tree that journal files are committed to.
type Repo struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing dir, walking up parent directories.
func Open(dir string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open git repo at %s: %w", dir, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the work tree root.
func (r *Repo) Root() string {
	return r.root
}

// AddAndCommit stages files and commits them with message. Paths may be
// absolute or relative to the work tree root. Nothing is committed when no
// change is staged.
func (r *Repo) AddAndCommit(files []string, message string) error {
	if len(files) == 0 {
		return nil
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}
	for _, file := range files {
		rel, err := r.relative(file)
		if err != nil {
			return fmt.Errorf("git add %s: %w", file, err)
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("git add %s: %w", rel, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}
	staged := false
	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		debug.Logf("git: nothing to commit for %q", message)
		return nil
	}

	if _, err := wt.Commit(message, &git.CommitOptions{Author: r.commitSignature()}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// relative converts path to a slash-separated path under the work tree root.
func (r *Repo) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	root := resolve(r.root)
	rel, err := filepath.Rel(root, resolve(path))
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRepo
	}
	return filepath.ToSlash(rel), nil
}

// resolve follows symlinks in the directory part of path, so temp dirs
// behind symlinks compare equal to the work tree root.
func resolve(path string) string {
	dir, base := filepath.Split(filepath.Clean(path))
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(real, base)
	}
	return filepath.Clean(path)
}

// commitSignature reads user.name and user.email from git config
// (including global config), falling back to defaults.
func (r *Repo) commitSignature() *object.Signature {
	name := "brewguide"
	email := "brewguide@localhost"

	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}

	return &object.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}
}

// IsInsideRepo checks if dir is inside a git repository, walking up parent
// directories to find a .git folder.
func IsInsideRepo(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	return err == nil
}

// Journal commits store writes to a Repo.
type Journal struct {
	repo *Repo
}

// NewJournal returns a Journal committing to repo.
func NewJournal(repo *Repo) *Journal {
	return &Journal{repo: repo}
}

// Commit stages path and commits it with message.
func (j *Journal) Commit(path, message string) error {
	return j.repo.AddAndCommit([]string{path}, message)
}
