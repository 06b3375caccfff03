package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestPayloadKey returns the cache key for a test's student-facing payload
// (questions without correct answers).
func (r *CacheKeyStruct) TestPayloadKey(testID string) string {
	return fmt.Sprintf("test:%s:payload", testID)
}

// TestAnswerKey returns the cache key for a test's answer key hash.
func (r *CacheKeyStruct) TestAnswerKey(testID string) string {
	return fmt.Sprintf("test:%s:key", testID)
}

// SubjectNotifyChannel returns the Redis PubSub channel carrying live
// submission notifications for one subject.
func (r *CacheKeyStruct) SubjectNotifyChannel(subject string) string {
	return fmt.Sprintf("subject:%s:notify", subject)
}

var CacheKey = NewCacheKeyStruct()
