package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/aws/aws-sdk-go/service/transcribeservice/transcribeserviceiface"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/types"
)

const defaultHTTPTimeout = 12 * time.Second

// Client starts and inspects transcription jobs and downloads their results.
type Client struct {
	api          transcribeserviceiface.TranscribeServiceAPI
	httpClient   *http.Client
	log          *logger.Logger
	pollInterval time.Duration
}

// New returns a Client. A nil httpClient gets a 12s-timeout default.
func New(api transcribeserviceiface.TranscribeServiceAPI, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		api:          api,
		httpClient:   httpClient,
		log:          log,
		pollInterval: 2 * time.Second,
	}
}

// Start submits one job. A duplicate name is reported as types.ErrJobExists.
func (c *Client) Start(ctx context.Context, req types.StartRequest) (*types.Job, error) {
	out, err := c.api.StartTranscriptionJobWithContext(ctx, &transcribeservice.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.JobName),
		LanguageCode:         aws.String(req.LanguageCode),
		MediaFormat:          aws.String(req.MediaFormat),
		Media: &transcribeservice.Media{
			MediaFileUri: aws.String(req.MediaURI),
		},
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == transcribeservice.ErrCodeConflictException {
			return nil, fmt.Errorf("start %s: %w: %s", req.JobName, types.ErrJobExists, aerr.Message())
		}
		return nil, fmt.Errorf("start %s: %w", req.JobName, err)
	}
	job := jobFromAPI(out.TranscriptionJob)
	if job.Name == "" {
		job.Name = req.JobName
	}
	c.log.WithFields(logrus.Fields{
		"job_name":  job.Name,
		"status":    job.Status,
		"media_uri": req.MediaURI,
	}).Info("transcription job started")
	return job, nil
}

// Get reads the current job metadata.
func (c *Client) Get(ctx context.Context, name string) (*types.Job, error) {
	out, err := c.api.GetTranscriptionJobWithContext(ctx, &transcribeservice.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	if out.TranscriptionJob == nil {
		return nil, fmt.Errorf("get %s: empty response", name)
	}
	return jobFromAPI(out.TranscriptionJob), nil
}

// Wait polls until the job is COMPLETED or FAILED. It is meant for local runs where no
// job-state-change event is delivered; the event handlers never call it.
func (c *Client) Wait(ctx context.Context, name string, maxElapsed time.Duration) (*types.Job, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.pollInterval
	bo.MaxInterval = 15 * c.pollInterval
	bo.MaxElapsedTime = maxElapsed

	log := c.log.WithField("job_name", name)
	var job *types.Job
	op := func() error {
		j, err := c.Get(ctx, name)
		if err != nil {
			return backoff.Permanent(err)
		}
		job = j
		if !j.Status.Terminal() {
			log.WithField("status", j.Status).Debug("polling transcription")
			return fmt.Errorf("job %s still %s", name, j.Status)
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return job, fmt.Errorf("wait for %s: %w", name, err)
	}
	log.WithField("status", job.Status).Info("transcription reached terminal state")
	return job, nil
}

func jobFromAPI(j *transcribeservice.TranscriptionJob) *types.Job {
	if j == nil {
		return &types.Job{}
	}
	job := &types.Job{
		Name:          aws.StringValue(j.TranscriptionJobName),
		Status:        types.JobStatus(aws.StringValue(j.TranscriptionJobStatus)),
		LanguageCode:  aws.StringValue(j.LanguageCode),
		MediaFormat:   aws.StringValue(j.MediaFormat),
		FailureReason: aws.StringValue(j.FailureReason),
		CreatedAt:     j.CreationTime,
		CompletedAt:   j.CompletionTime,
	}
	if j.Media != nil {
		job.MediaURI = aws.StringValue(j.Media.MediaFileUri)
	}
	if j.Transcript != nil {
		job.TranscriptURI = aws.StringValue(j.Transcript.TranscriptFileUri)
	}
	return job
}
