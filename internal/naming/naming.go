// Package naming derives transcription job names and transcript object keys.
//
// Job names are a sanitized, truncated prefix of the object key. Two keys that share
// that prefix map to the same job name and the second start request is rejected by the
// service as a duplicate; the default limit of 10 keeps that risk high. Raise
// JOB_NAME_MAX_LEN (up to MaxJobNameLen) when bucket layouts make collisions likely.
package naming

import (
	"fmt"
	"strings"

	"cloudlab-go/internal/types"
)

const (
	// DefaultJobNameLen matches the historical lab deployment.
	DefaultJobNameLen = 10
	// MaxJobNameLen is the service's limit on TranscriptionJobName.
	MaxJobNameLen = 200

	OutputSuffix = "_Output.txt"
)

// JobName removes path separators and characters the service rejects, then
// truncates to maxLen. It is a pure function of (key, maxLen).
func JobName(key string, maxLen int) (string, error) {
	if maxLen <= 0 || maxLen > MaxJobNameLen {
		maxLen = MaxJobNameLen
	}
	var b strings.Builder
	for _, r := range key {
		if !allowed(r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == maxLen {
			break
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidKey, key)
	}
	return b.String(), nil
}

// allowed matches the service's ^[0-9a-zA-Z._-]+ name pattern.
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}

// OutputKey is the object key the transcript text is written under.
func OutputKey(jobName string) string {
	return jobName + OutputSuffix
}

// MediaURI is the location handed to the service for an uploaded object.
func MediaURI(ref types.ObjectRef) string {
	return "s3://" + ref.Bucket + "/" + strings.TrimPrefix(ref.Key, "/")
}
