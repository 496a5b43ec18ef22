//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Board runs the built binary against the task store in the working tree.
type Board mg.Namespace

// Sync moves task files to the column named by their status.
func (Board) Sync() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "sync")
}

// Publish syncs, then regenerates the private and public dashboards.
func (Board) Publish() error {
	mg.SerialDeps(Board.Sync)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "dashboard")
}
