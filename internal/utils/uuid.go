package utils

import "github.com/google/uuid"

// UUIDGenerator produces random (version 4) UUID strings. They carry 122 bits
// from crypto/rand and are used as session ids, reset tokens and trace ids.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
