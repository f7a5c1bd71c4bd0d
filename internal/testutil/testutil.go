// Package testutil provides test helpers for msgsearch tests.
//
//   - assert.go: assertion helpers (MustNoErr, AssertStrings, ...)
//   - store_helpers.go: temporary indexes (NewTestStore, NewTestIndex)
//   - builders.go: message record builders
//   - fs_helpers.go: file writing for config tests
package testutil
