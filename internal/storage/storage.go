// Package storage holds the Persistent Store backends the cart writes its
// serialized state to.
package storage

import "errors"

var ErrEmptyKey = errors.New("key is empty")
