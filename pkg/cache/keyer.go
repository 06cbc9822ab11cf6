package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// sourceHashLen is the number of hex digits of the source hash kept in
// rollup keys.
const sourceHashLen = 12

// Keyer builds cache keys.
type Keyer interface {
	// RollupKey identifies the rollup file for an origin station as served
	// by one source.
	RollupKey(source, from string) string

	// SessionKey identifies a stored explorer session.
	SessionKey(id string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RollupKey returns "rollup:<source hash>:<from>". The source is hashed
// so that long URLs and paths stay short, and the station stays readable
// when browsing Redis.
func (DefaultKeyer) RollupKey(source, from string) string {
	return "rollup:" + Hash([]byte(source))[:sourceHashLen] + ":" + from
}

// SessionKey returns "session:<id>".
func (DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
