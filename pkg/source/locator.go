package source

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RepoLocator finds source files inside the git worktree containing Dir.
// A recorded path matches a tracked file when the file's repository path is
// a suffix of it on a path boundary; the longest match wins.
type RepoLocator struct {
	Dir string
}

func (l RepoLocator) Locate(path string) (string, bool) {
	want := strings.ReplaceAll(path, `\`, "/")
	if want == "" {
		return "", false
	}

	repo, err := git.PlainOpenWithOptions(l.Dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", false
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", false
	}

	head, err := repo.Head()
	if err != nil {
		return "", false
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", false
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", false
	}

	best := ""
	err = tree.Files().ForEach(func(f *object.File) error {
		if len(f.Name) > len(best) && hasPathSuffix(want, f.Name) {
			best = f.Name
		}
		return nil
	})
	if err != nil {
		slog.Debug("source_repo_walk_error", "error", err)
		return "", false
	}
	if best == "" {
		return "", false
	}

	local := filepath.Join(wt.Filesystem.Root(), filepath.FromSlash(best))
	if _, err := os.Stat(local); err != nil {
		return "", false
	}
	return local, true
}

func hasPathSuffix(path, suffix string) bool {
	return path == suffix || strings.HasSuffix(path, "/"+suffix)
}
