package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftcommit/draftcommit/pkg/diff"
)

func initRepo(t *testing.T) (string, *Repository) {
	t.Helper()
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)
	return dir, repo
}

func writeAndStage(t *testing.T, dir string, r *Repository, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	_, err := r.wt.Add(name)
	require.NoError(t, err)
}

func commitAll(t *testing.T, r *Repository, msg string) {
	t.Helper()
	_, err := r.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestOpenNonRepository(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "not-a-repo"))
	assert.Error(t, err)
}

func TestStagedChangesEmptyRepository(t *testing.T) {
	_, repo := initRepo(t)
	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestStagedChangesNewFileBeforeFirstCommit(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndStage(t, dir, repo, "hello.go", "package main\n\nfunc main() {}\n")

	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	fd := diffs[0]
	assert.Equal(t, "hello.go", fd.Path)
	assert.Equal(t, diff.New, fd.Type)
	assert.Equal(t, "go", fd.Extension)
	assert.Equal(t, 4, fd.LinesAdded, "three lines of code plus the trailing newline's empty line")
	assert.Zero(t, fd.LinesDeleted)
	assert.Contains(t, fd.Diff, "+package main")
}

func TestStagedChangesModifiedFile(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndStage(t, dir, repo, "app.go", "package app\n\nvar old = 1\n")
	commitAll(t, repo, "initial")

	writeAndStage(t, dir, repo, "app.go", "package app\n\nvar renamed = 2\n")

	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	fd := diffs[0]
	assert.Equal(t, diff.Modified, fd.Type)
	assert.Equal(t, 1, fd.LinesAdded)
	assert.Equal(t, 1, fd.LinesDeleted)
	assert.Contains(t, fd.Diff, "-var old = 1")
	assert.Contains(t, fd.Diff, "+var renamed = 2")
}

func TestStagedChangesDeletedFile(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndStage(t, dir, repo, "gone.go", "package gone\n")
	commitAll(t, repo, "initial")

	_, err := repo.wt.Remove("gone.go")
	require.NoError(t, err)

	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	fd := diffs[0]
	assert.Equal(t, diff.Deleted, fd.Type)
	assert.Equal(t, 2, fd.LinesDeleted)
	assert.Contains(t, fd.Diff, "-package gone")
}

func TestStagedChangesIgnoresUnstagedFiles(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndStage(t, dir, repo, "staged.go", "package a\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.go"), []byte("package b\n"), 0o644))

	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, "staged.go", diffs[0].Path)
}

func TestStagedChangesBinaryFile(t *testing.T) {
	dir, repo := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x47, 0x49, 0x46, 0x00, 0x01}, 0o644))
	_, err := repo.wt.Add("blob.bin")
	require.NoError(t, err)

	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.True(t, diffs[0].Binary)
	assert.Empty(t, diffs[0].Diff)
}

func TestStagedChangesSortedByPath(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndStage(t, dir, repo, "zeta.go", "package z\n")
	writeAndStage(t, dir, repo, "alpha.go", "package a\n")

	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.Equal(t, "alpha.go", diffs[0].Path)
	assert.Equal(t, "zeta.go", diffs[1].Path)
}

func TestMapStatus(t *testing.T) {
	ct, old := mapStatus("a.go", &git.FileStatus{Staging: git.Added})
	assert.Equal(t, diff.New, ct)
	assert.Empty(t, old)

	ct, _ = mapStatus("a.go", &git.FileStatus{Staging: git.Deleted})
	assert.Equal(t, diff.Deleted, ct)

	ct, _ = mapStatus("a.go", &git.FileStatus{Staging: git.Modified})
	assert.Equal(t, diff.Modified, ct)

	// Rename within one directory.
	ct, old = mapStatus("pkg/new.go", &git.FileStatus{Staging: git.Renamed, Extra: "pkg/old.go"})
	assert.Equal(t, diff.Renamed, ct)
	assert.Equal(t, "pkg/old.go", old)

	// Relocation across directories.
	ct, old = mapStatus("pkg/b/file.go", &git.FileStatus{Staging: git.Renamed, Extra: "pkg/a/file.go"})
	assert.Equal(t, diff.Moved, ct)
	assert.Equal(t, "pkg/a/file.go", old)

	// A rename without a recorded old path degrades gracefully.
	ct, old = mapStatus("file.go", &git.FileStatus{Staging: git.Renamed})
	assert.Equal(t, diff.Renamed, ct)
	assert.Empty(t, old)
}

func TestCommitRejectsBlankMessage(t *testing.T) {
	_, repo := initRepo(t)
	assert.Error(t, repo.Commit(""))
	assert.Error(t, repo.Commit("   \n"))
}

func TestCommitRecordsStagedChanges(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndStage(t, dir, repo, "first.go", "package first\n")
	commitAll(t, repo, "feat: add first.go")

	head, err := repo.repo.Head()
	require.NoError(t, err)
	commit, err := repo.repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "feat: add first.go", commit.Message)

	// After committing, nothing is staged.
	diffs, err := repo.StagedChanges()
	require.NoError(t, err)
	assert.Empty(t, diffs)
}
