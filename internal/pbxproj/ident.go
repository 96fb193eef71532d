package pbxproj

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	idLength  = 24
	hexDigits = "0123456789ABCDEF"

	// DefaultMaxAttempts bounds the regenerate-on-collision loop of IDAllocator.
	DefaultMaxAttempts = 64
)

// IDSource produces candidate identifiers. It does not guarantee uniqueness.
type IDSource interface {
	Next() (ID, error)
}

// RandomIDSource draws each of the 24 characters independently and
// uniformly from 0-9A-F.
type RandomIDSource struct {
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
}

// Next implements IDSource.
func (s RandomIDSource) Next() (ID, error) {
	r := s.Rand
	if r == nil {
		r = rand.Reader
	}
	var buf [idLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	for i, b := range buf {
		// 16 divides 256, so the low nibble is uniform.
		buf[i] = hexDigits[b&0x0F]
	}
	return ID(buf[:]), nil
}

// IDAllocator hands out identifiers that collide neither with the manifest
// nor with anything it allocated before.
type IDAllocator struct {
	source      IDSource
	reserved    map[ID]bool
	maxAttempts int
	collisions  int
}

// NewIDAllocator reserves every identifier already present in doc.
// A nil source means RandomIDSource.
func NewIDAllocator(doc *Document, source IDSource) *IDAllocator {
	if source == nil {
		source = RandomIDSource{}
	}
	a := &IDAllocator{
		source:      source,
		reserved:    make(map[ID]bool),
		maxAttempts: DefaultMaxAttempts,
	}
	if doc != nil {
		for _, id := range doc.IDs() {
			a.reserved[id] = true
		}
	}
	return a
}

// SetMaxAttempts changes the collision retry bound. Values below 1 are ignored.
func (a *IDAllocator) SetMaxAttempts(n int) {
	if n >= 1 {
		a.maxAttempts = n
	}
}

// Allocate returns a fresh identifier and reserves it.
func (a *IDAllocator) Allocate() (ID, error) {
	for range a.maxAttempts {
		id, err := a.source.Next()
		if err != nil {
			return "", err
		}
		if !IsID(string(id)) {
			return "", fmt.Errorf("identifier source produced malformed id %q", id)
		}
		if a.reserved[id] {
			a.collisions++
			continue
		}
		a.reserved[id] = true
		return id, nil
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIdentifierExhausted, a.maxAttempts)
}

// Collisions returns how many candidates were rejected as duplicates.
func (a *IDAllocator) Collisions() int {
	return a.collisions
}

// Reserved reports whether id is taken.
func (a *IDAllocator) Reserved(id ID) bool {
	return a.reserved[id]
}
