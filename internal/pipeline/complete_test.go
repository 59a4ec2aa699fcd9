package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudlab-go/internal/types"
)

const transcriptURI = "https://s3.amazonaws.com/aws-transcribe-us-east-1-prod/abc123/asrOutput.json"

func docFrom(t *testing.T, raw string) *types.TranscriptDocument {
	t.Helper()
	var doc types.TranscriptDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func stateChange(t *testing.T, detail string) events.CloudWatchEvent {
	t.Helper()
	return events.CloudWatchEvent{
		Source:     "aws.transcribe",
		DetailType: "Transcribe Job State Change",
		Detail:     json.RawMessage(detail),
	}
}

type completeDeps struct {
	tr *TranscriberMock
	f  *FetcherMock
	w  *WriterMock
	c  *Complete
}

func newCompleteDeps() completeDeps {
	d := completeDeps{tr: new(TranscriberMock), f: new(FetcherMock), w: new(WriterMock)}
	d.c = NewComplete(d.tr, d.f, d.w, "aiservicelab3", quietLogger())
	return d
}

func TestComplete_WritesFirstAlternative(t *testing.T) {
	d := newCompleteDeps()

	d.tr.On("Get", mock.Anything, "abc123").
		Return(&types.Job{Name: "abc123", Status: types.JobCompleted, TranscriptURI: transcriptURI}, nil).Once()
	d.f.On("Fetch", mock.Anything, transcriptURI).
		Return(docFrom(t, `{"results":{"transcripts":[{"transcript":"hello world"}]}}`), nil).Once()
	d.w.On("PutText", mock.Anything, "aiservicelab3", "abc123_Output.txt", "hello world").
		Return("s3://aiservicelab3/abc123_Output.txt", nil).Once()

	err := d.c.Handle(context.Background(), stateChange(t, `{"TranscriptionJobName":"abc123","TranscriptionJobStatus":"COMPLETED"}`))
	require.NoError(t, err)

	d.tr.AssertExpectations(t)
	d.f.AssertExpectations(t)
	d.w.AssertExpectations(t)
	d.w.AssertNumberOfCalls(t, "PutText", 1)
}

func TestComplete_FinishReturnsArtifact(t *testing.T) {
	d := newCompleteDeps()

	d.tr.On("Get", mock.Anything, "abc123").
		Return(&types.Job{Name: "abc123", Status: types.JobCompleted, TranscriptURI: transcriptURI}, nil).Once()
	d.f.On("Fetch", mock.Anything, transcriptURI).
		Return(docFrom(t, `{"results":{"transcripts":[{"transcript":"first"},{"transcript":"second"}]}}`), nil).Once()
	d.w.On("PutText", mock.Anything, "aiservicelab3", "abc123_Output.txt", "first").
		Return("s3://aiservicelab3/abc123_Output.txt", nil).Once()

	art, err := d.c.Finish(context.Background(), " abc123 ")
	require.NoError(t, err)
	assert.Equal(t, &Artifact{JobName: "abc123", URI: "s3://aiservicelab3/abc123_Output.txt", Bytes: 5}, art)
}

func TestComplete_MissingJobName(t *testing.T) {
	for name, detail := range map[string]string{
		"empty detail": ``,
		"no name":      `{"TranscriptionJobStatus":"COMPLETED"}`,
		"blank name":   `{"TranscriptionJobName":"  "}`,
	} {
		t.Run(name, func(t *testing.T) {
			d := newCompleteDeps()
			err := d.c.Handle(context.Background(), stateChange(t, detail))
			require.ErrorIs(t, err, types.ErrMissingJobName)
			d.tr.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestComplete_MalformedDetail(t *testing.T) {
	d := newCompleteDeps()
	err := d.c.Handle(context.Background(), stateChange(t, `["abc123"]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode event detail")
}

func TestComplete_RequiresCompletedStatus(t *testing.T) {
	cases := []struct {
		name   string
		job    *types.Job
		reason string
	}{
		{name: "in progress", job: &types.Job{Name: "abc123", Status: types.JobInProgress}},
		{name: "queued", job: &types.Job{Name: "abc123", Status: types.JobQueued}},
		{name: "failed", job: &types.Job{Name: "abc123", Status: types.JobFailed, FailureReason: "Unsupported media format"}, reason: "Unsupported media format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newCompleteDeps()
			d.tr.On("Get", mock.Anything, "abc123").Return(tc.job, nil).Once()

			_, err := d.c.Finish(context.Background(), "abc123")
			require.ErrorIs(t, err, types.ErrJobNotCompleted)
			assert.Contains(t, err.Error(), string(tc.job.Status))
			if tc.reason != "" {
				assert.Contains(t, err.Error(), tc.reason)
			}
			d.f.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
			d.w.AssertNotCalled(t, "PutText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestComplete_NoTranscriptLocation(t *testing.T) {
	d := newCompleteDeps()
	d.tr.On("Get", mock.Anything, "abc123").Return(&types.Job{Name: "abc123", Status: types.JobCompleted}, nil).Once()

	_, err := d.c.Finish(context.Background(), "abc123")
	require.ErrorIs(t, err, types.ErrNoTranscript)
	d.f.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestComplete_EmptyAlternatives(t *testing.T) {
	d := newCompleteDeps()
	d.tr.On("Get", mock.Anything, "abc123").
		Return(&types.Job{Name: "abc123", Status: types.JobCompleted, TranscriptURI: transcriptURI}, nil).Once()
	d.f.On("Fetch", mock.Anything, transcriptURI).Return(docFrom(t, `{"results":{"transcripts":[]}}`), nil).Once()

	_, err := d.c.Finish(context.Background(), "abc123")
	require.ErrorIs(t, err, types.ErrNoTranscript)
	d.w.AssertNotCalled(t, "PutText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_PropagatesFailures(t *testing.T) {
	getErr := errors.New("AccessDeniedException")
	fetchErr := errors.New("connection reset by peer")
	putErr := errors.New("NoSuchBucket")

	t.Run("get", func(t *testing.T) {
		d := newCompleteDeps()
		d.tr.On("Get", mock.Anything, "abc123").Return(nil, getErr).Once()
		_, err := d.c.Finish(context.Background(), "abc123")
		require.ErrorIs(t, err, getErr)
	})

	t.Run("fetch", func(t *testing.T) {
		d := newCompleteDeps()
		d.tr.On("Get", mock.Anything, "abc123").
			Return(&types.Job{Name: "abc123", Status: types.JobCompleted, TranscriptURI: transcriptURI}, nil).Once()
		d.f.On("Fetch", mock.Anything, transcriptURI).Return(nil, fetchErr).Once()
		_, err := d.c.Finish(context.Background(), "abc123")
		require.ErrorIs(t, err, fetchErr)
		d.w.AssertNotCalled(t, "PutText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("put", func(t *testing.T) {
		d := newCompleteDeps()
		d.tr.On("Get", mock.Anything, "abc123").
			Return(&types.Job{Name: "abc123", Status: types.JobCompleted, TranscriptURI: transcriptURI}, nil).Once()
		d.f.On("Fetch", mock.Anything, transcriptURI).
			Return(docFrom(t, `{"results":{"transcripts":[{"transcript":"hello world"}]}}`), nil).Once()
		d.w.On("PutText", mock.Anything, "aiservicelab3", "abc123_Output.txt", "hello world").Return("", putErr).Once()
		_, err := d.c.Finish(context.Background(), "abc123")
		require.ErrorIs(t, err, putErr)
	})
}
