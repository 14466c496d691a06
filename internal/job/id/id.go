// Package id provides unique identifier generation for protection jobs.
// The identifier also keys the job's workspace directory, so it must be
// collision-resistant across restarts.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generate creates a new unique job ID.
// Format: pj-<timestamp>-<random>
// Example: pj-1701432000-a1b2c3d4e5f6
func Generate() string {
	timestamp := time.Now().Unix()
	random := make([]byte, 6)
	if _, err := rand.Read(random); err != nil {
		// Fallback to timestamp only if crypto/rand fails
		return fmt.Sprintf("pj-%d", timestamp)
	}
	return fmt.Sprintf("pj-%d-%s", timestamp, hex.EncodeToString(random))
}
