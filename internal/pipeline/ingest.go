package pipeline

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/naming"
	"cloudlab-go/internal/types"
)

// Ingest starts a transcription job for each object in an S3 notification.
type Ingest struct {
	transcriber Transcriber
	settings    JobSettings
	log         *logger.Logger
}

func NewIngest(t Transcriber, settings JobSettings, log *logger.Logger) *Ingest {
	return &Ingest{transcriber: t, settings: settings, log: log}
}

// Handle processes records in order and stops at the first failure; records after
// it are not attempted.
func (in *Ingest) Handle(ctx context.Context, ev events.S3Event) error {
	_, err := in.StartAll(ctx, ObjectRefs(ev))
	return err
}

// ObjectRefs lists the objects named by a notification, in record order. Keys arrive
// form-encoded; the decoded form is preferred.
func ObjectRefs(ev events.S3Event) []types.ObjectRef {
	refs := make([]types.ObjectRef, 0, len(ev.Records))
	for _, rec := range ev.Records {
		key := rec.S3.Object.URLDecodedKey
		if key == "" {
			key = rec.S3.Object.Key
		}
		refs = append(refs, types.ObjectRef{Bucket: rec.S3.Bucket.Name, Key: key})
	}
	return refs
}

// StartAll starts one job per object and returns the jobs started before any failure.
func (in *Ingest) StartAll(ctx context.Context, refs []types.ObjectRef) ([]*types.Job, error) {
	log := in.log.WithLambda(ctx).WithField("records", len(refs))
	log.Info("ingest invoked")

	jobs := make([]*types.Job, 0, len(refs))
	for i, ref := range refs {
		job, err := in.Start(ctx, ref)
		if err != nil {
			log.WithFields(logrus.Fields{
				"record": i,
				"bucket": ref.Bucket,
				"key":    ref.Key,
				"error":  err.Error(),
			}).Error("start transcription failed; remaining records skipped")
			return jobs, fmt.Errorf("record %d (s3://%s/%s): %w", i, ref.Bucket, ref.Key, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Start derives the job name for one object and submits the job.
func (in *Ingest) Start(ctx context.Context, ref types.ObjectRef) (*types.Job, error) {
	name, err := naming.JobName(ref.Key, in.settings.JobNameMaxLen)
	if err != nil {
		return nil, err
	}
	return in.transcriber.Start(ctx, types.StartRequest{
		JobName:      name,
		LanguageCode: in.settings.LanguageCode,
		MediaFormat:  in.settings.MediaFormat,
		MediaURI:     naming.MediaURI(ref),
	})
}
