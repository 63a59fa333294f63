// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package workbook

// txn stages the document changes of one operation. Every change registers
// its undo; rollback runs them newest first. Changes to the Go-side state
// (names, indices, the sibling list) are deferred to commit, so an
// operation that fails leaves both the documents and the entities as they were.
type txn struct {
	undos   []func()
	commits []func()
}

func (tx *txn) stage(undo func()) { tx.undos = append(tx.undos, undo) }

func (tx *txn) onCommit(f func()) { tx.commits = append(tx.commits, f) }

func (tx *txn) rollback() {
	for i := len(tx.undos) - 1; i >= 0; i-- {
		tx.undos[i]()
	}
	tx.undos, tx.commits = nil, nil
}

func (tx *txn) commit() {
	for _, f := range tx.commits {
		f()
	}
	tx.undos, tx.commits = nil, nil
}

// atomically runs f in a new txn, committing on success and rolling back on
// error or panic.
func atomically(f func(tx *txn) error) (err error) {
	var tx txn
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()
	if err = f(&tx); err != nil {
		tx.rollback()
		return err
	}
	tx.commit()
	return nil
}
