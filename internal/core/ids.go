package core

import "github.com/google/uuid"

// IDSource hands out identifiers that are unique for the life of the process.
type IDSource interface {
	NewID() string
}

// IDSourceFunc adapts a plain function to IDSource.
type IDSourceFunc func() string

func (f IDSourceFunc) NewID() string { return f() }

// UUIDSource generates random (version 4) UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewID() string { return uuid.NewString() }
