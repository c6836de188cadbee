package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestPaperKey returns the cache key for a test's student-facing paper
// (questions without correct options).
func (r *CacheKeyStruct) TestPaperKey(testID string) string {
	return fmt.Sprintf("test:%s:paper", testID)
}

// TestMonitorChannel returns the Redis PubSub channel name carrying attempt
// lifecycle events for the trainer live monitor.
func (r *CacheKeyStruct) TestMonitorChannel(testID string) string {
	return fmt.Sprintf("test:%s:monitor", testID)
}

// AnalyticsSummaryKey returns the cache key for the global analytics summary
// snapshot written by the snapshot worker.
func (r *CacheKeyStruct) AnalyticsSummaryKey() string {
	return "analytics:summary"
}

var CacheKey = NewCacheKeyStruct()
