package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/pipeline"
	"cloudlab-go/internal/types"
)

type ingestMock struct{ mock.Mock }

func (m *ingestMock) StartAll(ctx context.Context, refs []types.ObjectRef) ([]*types.Job, error) {
	args := m.Called(ctx, refs)
	jobs, _ := args.Get(0).([]*types.Job)
	return jobs, args.Error(1)
}

type completeMock struct{ mock.Mock }

func (m *completeMock) Finish(ctx context.Context, jobName string) (*pipeline.Artifact, error) {
	args := m.Called(ctx, jobName)
	art, _ := args.Get(0).(*pipeline.Artifact)
	return art, args.Error(1)
}

type inventoryMock struct{ mock.Mock }

func (m *inventoryMock) RunningInstances(ctx context.Context) ([]types.Instance, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]types.Instance)
	return out, args.Error(1)
}

func (m *inventoryMock) ListBuckets(ctx context.Context) ([]types.Bucket, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]types.Bucket)
	return out, args.Error(1)
}

type fixture struct {
	ingest   *ingestMock
	complete *completeMock
	inv      *inventoryMock
	srv      *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New()
	log.Logger.SetOutput(io.Discard)
	f := &fixture{ingest: new(ingestMock), complete: new(completeMock), inv: new(inventoryMock)}
	f.srv = httptest.NewServer(NewMux(&Service{
		Log:       log,
		Ingest:    f.ingest,
		Complete:  f.complete,
		Instances: f.inv,
		Buckets:   f.inv,
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))
}

func TestS3Event_StartsJobs(t *testing.T) {
	f := newFixture(t)
	f.ingest.On("StartAll", mock.Anything, []types.ObjectRef{{Bucket: "aiservicelab3", Key: "Input/rec.mp3"}}).
		Return([]*types.Job{{Name: "Inputrec.m", Status: types.JobInProgress}}, nil).Once()

	resp, out := post(t, f.srv.URL+"/events/s3",
		`{"Records":[{"s3":{"bucket":{"name":"aiservicelab3"},"object":{"key":"Input/rec.mp3"}}}]}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	started := out["started"].([]any)
	require.Len(t, started, 1)
	assert.Equal(t, "Inputrec.m", started[0].(map[string]any)["name"])
	f.ingest.AssertExpectations(t)
}

func TestS3Event_Errors(t *testing.T) {
	f := newFixture(t)

	resp, _ := post(t, f.srv.URL+"/events/s3", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	f.ingest.On("StartAll", mock.Anything, mock.Anything).
		Return([]*types.Job{}, fmt.Errorf("record 0: %w", types.ErrJobExists)).Once()
	resp, out := post(t, f.srv.URL+"/events/s3", `{"Records":[{"s3":{"bucket":{"name":"b"},"object":{"key":"k.mp3"}}}]}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, out["error"], "already exists")
}

func TestJobEvent_WritesArtifact(t *testing.T) {
	f := newFixture(t)
	f.complete.On("Finish", mock.Anything, "abc123").
		Return(&pipeline.Artifact{JobName: "abc123", URI: "s3://aiservicelab3/abc123_Output.txt", Bytes: 11}, nil).Once()

	resp, out := post(t, f.srv.URL+"/events/transcribe",
		`{"source":"aws.transcribe","detail-type":"Transcribe Job State Change","detail":{"TranscriptionJobName":"abc123","TranscriptionJobStatus":"COMPLETED"}}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "s3://aiservicelab3/abc123_Output.txt", out["uri"])
	f.complete.AssertExpectations(t)
}

func TestJobEvent_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: types.ErrMissingJobName, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: abc123 is FAILED", types.ErrJobNotCompleted), want: http.StatusConflict},
		{err: types.ErrNoTranscript, want: http.StatusUnprocessableEntity},
		{err: errors.New("connection reset"), want: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			f := newFixture(t)
			f.complete.On("Finish", mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			resp, _ := post(t, f.srv.URL+"/events/transcribe", `{"detail":{"TranscriptionJobName":"abc123"}}`)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestJobEvent_NotConfigured(t *testing.T) {
	log := logger.New()
	log.Logger.SetOutput(io.Discard)
	srv := httptest.NewServer(NewMux(&Service{Log: log}))
	defer srv.Close()

	resp, _ := post(t, srv.URL+"/events/transcribe", `{"detail":{"TranscriptionJobName":"abc123"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestInventoryEndpoints(t *testing.T) {
	f := newFixture(t)
	f.inv.On("RunningInstances", mock.Anything).Return([]types.Instance{{ID: "i-1", State: "running"}}, nil).Once()
	f.inv.On("ListBuckets", mock.Anything).Return([]types.Bucket{{Name: "aiservicelab3"}, {Name: "moduletwosession"}}, nil).Once()

	resp, err := http.Get(f.srv.URL + "/instances")
	require.NoError(t, err)
	var inst struct {
		Instances []types.Instance `json:"instances"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inst))
	resp.Body.Close()
	assert.Equal(t, "i-1", inst.Instances[0].ID)

	resp, err = http.Get(f.srv.URL + "/buckets")
	require.NoError(t, err)
	var b struct {
		Names []string `json:"names"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	resp.Body.Close()
	assert.Equal(t, []string{"aiservicelab3", "moduletwosession"}, b.Names)
}

func TestInventoryEndpoints_UpstreamError(t *testing.T) {
	f := newFixture(t)
	f.inv.On("RunningInstances", mock.Anything).Return(nil, errors.New("denied")).Once()

	resp, err := http.Get(f.srv.URL + "/instances")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
