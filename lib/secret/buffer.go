// Copyright 2026 The Skiff Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds sensitive data in memory that is locked against
// swapping, excluded from core dumps, and zeroed on close. The backing
// memory is allocated with mmap outside the Go heap, so the garbage
// collector never copies or relocates it.
//
// A Buffer must not be copied after creation. After Close, any access
// to its contents panics. Close is idempotent.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	closed bool
}

// New allocates a zero-filled secret buffer of the given size. The
// region is mlocked (never swapped) and marked MADV_DONTDUMP (never
// written to core dumps). The caller must Close the buffer when the
// secret is no longer needed.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}

	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}

	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(region)
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP): %w", err)
	}

	return &Buffer{region: region}, nil
}

// FromBytes copies source into a new protected buffer and zeroes the
// source in place, so the caller's slice no longer holds the secret.
func FromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}
	copy(buffer.region, source)
	Zero(source)
	return buffer, nil
}

// Bytes returns the secret data. The slice points directly into the
// protected region — do not retain it beyond the Buffer's lifetime.
// Panics if the buffer has been closed.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.region
}

// String returns the secret data as a string. The string is a heap
// copy, so use it only at API boundaries that demand one; prefer
// Bytes. Panics if the buffer has been closed.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}
	return string(b.region)
}

// Len returns the size of the secret data. Panics if the buffer has
// been closed.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}
	return len(b.region)
}

// Equal reports whether the buffer's contents equal other, comparing
// in constant time. Panics if the buffer has been closed.
func (b *Buffer) Equal(other []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}
	return subtle.ConstantTimeCompare(b.region, other) == 1
}

// Close zeroes the contents, unlocks and unmaps the region. After
// Close, any access to the buffer's contents panics. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.region)

	var firstError error
	if err := unix.Munlock(b.region); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(b.region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	b.region = nil
	return firstError
}

// Zero overwrites data with zero bytes. Use it on transient heap
// slices that held secret material before letting them go to the
// garbage collector.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
