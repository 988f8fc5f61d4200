package kv

import (
	"context"
	"errors"
)

// File is not supported on Windows; atomic replace relies on POSIX rename.
type File struct{}

// OpenFile always fails on Windows.
func OpenFile(string) (*File, error) {
	return nil, storeErr("file", "open", "", errors.New("file backend is not supported on windows"))
}

// Get implements Store.
func (*File) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Set implements Store.
func (*File) Set(context.Context, string, string) error { return nil }

// Delete implements Store.
func (*File) Delete(context.Context, string) error { return nil }

// Close implements Store.
func (*File) Close() error { return nil }
