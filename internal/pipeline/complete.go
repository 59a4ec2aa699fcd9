package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/naming"
	"cloudlab-go/internal/types"
)

// JobStateDetail is the detail of a "Transcribe Job State Change" event.
type JobStateDetail struct {
	TranscriptionJobName   string `json:"TranscriptionJobName"`
	TranscriptionJobStatus string `json:"TranscriptionJobStatus,omitempty"`
}

// Artifact describes the object written for a finished job.
type Artifact struct {
	JobName string `json:"job_name"`
	URI     string `json:"uri"`
	Bytes   int    `json:"bytes"`
}

// Complete writes the first transcript alternative of a finished job to the target bucket.
type Complete struct {
	transcriber Transcriber
	fetcher     TranscriptFetcher
	writer      ObjectWriter
	bucket      string
	log         *logger.Logger
}

func NewComplete(t Transcriber, f TranscriptFetcher, w ObjectWriter, bucket string, log *logger.Logger) *Complete {
	return &Complete{transcriber: t, fetcher: f, writer: w, bucket: bucket, log: log}
}

// Handle decodes the event detail and runs Finish.
func (c *Complete) Handle(ctx context.Context, ev events.CloudWatchEvent) error {
	detail, err := DecodeDetail(ev)
	if err != nil {
		return err
	}
	_, err = c.Finish(ctx, detail.TranscriptionJobName)
	return err
}

// DecodeDetail reads the job-state-change detail. An empty detail decodes to the zero value.
func DecodeDetail(ev events.CloudWatchEvent) (JobStateDetail, error) {
	var detail JobStateDetail
	if len(ev.Detail) == 0 {
		return detail, nil
	}
	if err := json.Unmarshal(ev.Detail, &detail); err != nil {
		return detail, fmt.Errorf("decode event detail: %w", err)
	}
	return detail, nil
}

// Finish requires the job to be COMPLETED, then fetches, extracts and stores its transcript.
func (c *Complete) Finish(ctx context.Context, jobName string) (*Artifact, error) {
	jobName = strings.TrimSpace(jobName)
	if jobName == "" {
		return nil, types.ErrMissingJobName
	}
	log := c.log.WithLambda(ctx).WithField("job_name", jobName)

	job, err := c.transcriber.Get(ctx, jobName)
	if err != nil {
		return nil, err
	}
	if job.Status != types.JobCompleted {
		log.WithFields(logrus.Fields{
			"status":         job.Status,
			"failure_reason": job.FailureReason,
		}).Warn("job not completed")
		if job.FailureReason != "" {
			return nil, fmt.Errorf("%w: %s is %s: %s", types.ErrJobNotCompleted, jobName, job.Status, job.FailureReason)
		}
		return nil, fmt.Errorf("%w: %s is %s", types.ErrJobNotCompleted, jobName, job.Status)
	}
	if job.TranscriptURI == "" {
		return nil, fmt.Errorf("%w: %s has no transcript location", types.ErrNoTranscript, jobName)
	}
	log.WithField("transcript_uri", job.TranscriptURI).Info("fetching transcript")

	doc, err := c.fetcher.Fetch(ctx, job.TranscriptURI)
	if err != nil {
		return nil, err
	}
	text, err := doc.Text()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", jobName, err)
	}

	uri, err := c.writer.PutText(ctx, c.bucket, naming.OutputKey(jobName), text)
	if err != nil {
		return nil, err
	}
	log.WithField("uri", uri).WithField("bytes", len(text)).Info("transcript stored")
	return &Artifact{JobName: jobName, URI: uri, Bytes: len(text)}, nil
}
