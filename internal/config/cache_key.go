package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestPayloadKey returns the cache key for a live test's payload, keyed by
// access code. The entry's TTL matches the remaining life of the test.
func (r *CacheKeyStruct) TestPayloadKey(code string) string {
	return fmt.Sprintf("test:%s:payload", code)
}

// TestMonitorChannel returns the Redis PubSub channel carrying submission
// events for a test's live monitor.
func (r *CacheKeyStruct) TestMonitorChannel(testID string) string {
	return fmt.Sprintf("test:%s:monitor", testID)
}

var CacheKey = NewCacheKeyStruct()
