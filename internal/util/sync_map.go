// Only build for Go 1.9+ where sync.Map is available.
//+build go1.9

package util

import "sync"

// SyncMap is an alias for sync.Map, available in Go 1.9+.
type SyncMap = sync.Map
