package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/pipeline"
	"cloudlab-go/internal/storage"
	"cloudlab-go/internal/types"
)

const maxEventBytes = 1 << 20

type Ingester interface {
	StartAll(ctx context.Context, refs []types.ObjectRef) ([]*types.Job, error)
}

type Completer interface {
	Finish(ctx context.Context, jobName string) (*pipeline.Artifact, error)
}

type InstanceLister interface {
	RunningInstances(ctx context.Context) ([]types.Instance, error)
}

type BucketLister interface {
	ListBuckets(ctx context.Context) ([]types.Bucket, error)
}

// Service replays the Lambda events over HTTP for local runs and exposes the inventory calls.
// Completer may be nil when no transcript bucket is configured.
type Service struct {
	Log       *logger.Logger
	Ingest    Ingester
	Complete  Completer
	Instances InstanceLister
	Buckets   BucketLister
}

func NewMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		svc.Log.WithRequest(r).Debug("health check")
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("POST /events/s3", svc.handleS3Event)
	mux.HandleFunc("POST /events/transcribe", svc.handleJobEvent)
	mux.HandleFunc("GET /instances", svc.handleInstances)
	mux.HandleFunc("GET /buckets", svc.handleBuckets)
	return mux
}

func NewHTTPServer(addr string, svc *Service) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewMux(svc),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
}

func (s *Service) handleS3Event(w http.ResponseWriter, r *http.Request) {
	reqLog := s.Log.WithRequest(r).WithField("handler", "s3_event")

	var ev events.S3Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&ev); err != nil {
		reqLog.WithField("error", err.Error()).Warn("bad s3 event")
		http.Error(w, "invalid s3 event", http.StatusBadRequest)
		return
	}
	refs := pipeline.ObjectRefs(ev)
	reqLog = reqLog.WithField("records", len(refs))

	start := time.Now()
	jobs, err := s.Ingest.StartAll(r.Context(), refs)
	reqLog = reqLog.WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		reqLog.WithField("error", err.Error()).Warn("ingest failed")
		writeJSON(w, statusFor(err), map[string]any{"started": jobs, "error": err.Error()}, reqLog)
		return
	}
	reqLog.Info("ingest finished")
	writeJSON(w, http.StatusAccepted, map[string]any{"started": jobs}, reqLog)
}

func (s *Service) handleJobEvent(w http.ResponseWriter, r *http.Request) {
	reqLog := s.Log.WithRequest(r).WithField("handler", "transcribe_event")
	if s.Complete == nil {
		http.Error(w, "TRANSCRIPT_BUCKET not configured", http.StatusServiceUnavailable)
		return
	}

	var ev events.CloudWatchEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&ev); err != nil {
		reqLog.WithField("error", err.Error()).Warn("bad job event")
		http.Error(w, "invalid job event", http.StatusBadRequest)
		return
	}
	detail, err := pipeline.DecodeDetail(ev)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("job_name", detail.TranscriptionJobName)

	art, err := s.Complete.Finish(r.Context(), detail.TranscriptionJobName)
	if err != nil {
		reqLog.WithField("error", err.Error()).Warn("completion failed")
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()}, reqLog)
		return
	}
	reqLog.WithField("uri", art.URI).Info("completion finished")
	writeJSON(w, http.StatusCreated, art, reqLog)
}

func (s *Service) handleInstances(w http.ResponseWriter, r *http.Request) {
	reqLog := s.Log.WithRequest(r).WithField("handler", "instances")
	instances, err := s.Instances.RunningInstances(r.Context())
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("describe instances failed")
		http.Error(w, "describe instances failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instances": instances}, reqLog)
}

func (s *Service) handleBuckets(w http.ResponseWriter, r *http.Request) {
	reqLog := s.Log.WithRequest(r).WithField("handler", "buckets")
	buckets, err := s.Buckets.ListBuckets(r.Context())
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("list buckets failed")
		http.Error(w, "list buckets failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buckets": buckets, "names": storage.BucketNames(buckets)}, reqLog)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidKey), errors.Is(err, types.ErrMissingJobName):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrJobExists), errors.Is(err, types.ErrJobNotCompleted):
		return http.StatusConflict
	case errors.Is(err, types.ErrNoTranscript):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, log *logrus.Entry) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithField("error", err.Error()).Error("failed to write response")
	}
}
