// Package gitrepo is the VCS collaborator: it snapshots the staged changes of
// a repository into diff.FileDiff values and creates commits. A content read
// that fails for one file degrades that file to a nil diff instead of failing
// the whole snapshot.
package gitrepo

import (
	"fmt"
	"io"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/draftcommit/draftcommit/pkg/diff"
)

// Repository wraps an opened git repository and its worktree.
type Repository struct {
	repo *git.Repository
	wt   *git.Worktree
}

// Open finds the repository containing path, searching parent directories the
// way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &Repository{repo: repo, wt: wt}, nil
}

// StagedChanges snapshots the index against HEAD as an ordered list of file
// diffs, sorted by path.
func (r *Repository) StagedChanges() ([]diff.FileDiff, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	headTree := r.headTree()
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path, st := range status {
		if isStaged(st.Staging) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	diffs := make([]diff.FileDiff, 0, len(paths))
	for _, path := range paths {
		st := status[path]
		changeType, oldPath := mapStatus(path, st)

		var before, after *string
		if !changeType.IsAddition() {
			beforePath := path
			if oldPath != "" {
				beforePath = oldPath
			}
			before = r.treeContent(headTree, beforePath)
		}
		if !changeType.IsRemoval() {
			after = r.indexContent(idx, path)
		}
		diffs = append(diffs, diff.NewFileDiff(path, oldPath, changeType, before, after))
	}
	return diffs, nil
}

func isStaged(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
		return true
	default:
		return false
	}
}

// mapStatus distinguishes a rename within one directory from a move across
// directories; go-git reports both as Renamed with the old path in Extra.
func mapStatus(path string, st *git.FileStatus) (diff.ChangeType, string) {
	switch st.Staging {
	case git.Added:
		return diff.New, ""
	case git.Deleted:
		return diff.Deleted, ""
	case git.Renamed:
		oldPath := st.Extra
		if oldPath == "" || oldPath == path {
			return diff.Renamed, ""
		}
		if parentDir(oldPath) != parentDir(path) {
			return diff.Moved, oldPath
		}
		return diff.Renamed, oldPath
	default:
		return diff.Modified, ""
	}
}

func parentDir(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

// headTree returns the HEAD commit tree, or nil before the first commit.
func (r *Repository) headTree() *object.Tree {
	head, err := r.repo.Head()
	if err != nil {
		return nil
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil
	}
	return tree
}

// treeContent reads a file from the HEAD tree. Any failure, including binary
// decoding, yields nil so the snapshot continues without that side.
func (r *Repository) treeContent(tree *object.Tree, path string) *string {
	if tree == nil {
		return nil
	}
	file, err := tree.File(path)
	if err != nil {
		return nil
	}
	content, err := file.Contents()
	if err != nil {
		return nil
	}
	return &content
}

// indexContent reads the staged blob for a path from the index.
func (r *Repository) indexContent(idx *index.Index, path string) *string {
	entry, err := idx.Entry(path)
	if err != nil {
		return nil
	}
	return r.blobContent(entry.Hash)
}

func (r *Repository) blobContent(hash plumbing.Hash) *string {
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return nil
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	content := string(data)
	return &content
}

// Commit records the staged changes with the given message. Author identity
// comes from the repository's git configuration.
func (r *Repository) Commit(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return fmt.Errorf("commit message cannot be empty")
	}
	_, err := r.wt.Commit(msg, &git.CommitOptions{})
	if err != nil {
		return fmt.Errorf("creating commit: %w", err)
	}
	return nil
}
