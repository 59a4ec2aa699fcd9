// Package pipeline holds the two event handlers of the transcription flow. Ingest starts
// one job per uploaded object; Complete turns a finished job into a text object. They
// never call each other and keep no state between invocations.
package pipeline

import (
	"context"

	"cloudlab-go/internal/types"
)

// Transcriber starts and reads transcription jobs.
type Transcriber interface {
	Start(ctx context.Context, req types.StartRequest) (*types.Job, error)
	Get(ctx context.Context, name string) (*types.Job, error)
}

// TranscriptFetcher downloads a finished job's result document.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, uri string) (*types.TranscriptDocument, error)
}

// ObjectWriter stores the extracted transcript text.
type ObjectWriter interface {
	PutText(ctx context.Context, bucket, key, body string) (string, error)
}

// JobSettings are the fixed request fields sent with every start request.
type JobSettings struct {
	LanguageCode  string
	MediaFormat   string
	JobNameMaxLen int
}
