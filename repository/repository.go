// Package repository locates the project whose bundles are managed.
package repository

import (
	"os"
	"path/filepath"

	"github.com/jiangxin/goconfig"
	log "github.com/sirupsen/logrus"
)

// Repository holds repository and error.
type Repository struct {
	repository *goconfig.Repository
	error      error
}

var theRepository Repository

// Open will try to find repository in dir.
func (v *Repository) Open(dir string) error {
	v.repository, v.error = goconfig.FindRepository(dir)
	return v.error
}

// OpenRepository will try to find repository in dir. Running outside a git
// worktree is not an error, see Opened.
func OpenRepository(dir string) {
	if err := theRepository.Open(dir); err != nil {
		log.Debugf("not in a git worktree: %s", err)
	}
}

// Opened returns true if a repository was successfully opened.
func Opened() bool {
	return theRepository.error == nil && theRepository.repository != nil
}

// WorkDirOrCwd returns the root dir of the worktree when a repository is
// opened, otherwise the current working directory.
func WorkDirOrCwd() string {
	if Opened() {
		return theRepository.repository.WorkDir()
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ProjectRoot returns the directory to scan for bundles: root when given,
// otherwise WorkDirOrCwd.
func ProjectRoot(root string) string {
	if root == "" {
		return WorkDirOrCwd()
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}
