package types

import "time"

// JobStatus mirrors the transcription service's job states.
type JobStatus string

const (
	JobQueued     JobStatus = "QUEUED"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// Terminal reports whether the service will not move the job any further.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ObjectRef names one object in a bucket.
type ObjectRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// StartRequest is what the ingest trigger sends to start a job.
type StartRequest struct {
	JobName      string `json:"job_name"`
	LanguageCode string `json:"language_code"`
	MediaFormat  string `json:"media_format"`
	MediaURI     string `json:"media_uri"`
}

type Job struct {
	Name          string     `json:"name"`
	Status        JobStatus  `json:"status"`
	MediaURI      string     `json:"media_uri"`
	LanguageCode  string     `json:"language_code"`
	MediaFormat   string     `json:"media_format"`
	TranscriptURI string     `json:"transcript_uri,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// TranscriptDocument is the JSON the service writes for a finished job.
type TranscriptDocument struct {
	JobName   string `json:"jobName"`
	AccountID string `json:"accountId"`
	Status    string `json:"status"`
	Results   struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
		Items []TranscriptItem `json:"items,omitempty"`
	} `json:"results"`
}

type TranscriptItem struct {
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Type         string        `json:"type"`
	Alternatives []Alternative `json:"alternatives"`
}

type Alternative struct {
	Confidence string `json:"confidence"`
	Content    string `json:"content"`
}

// Text returns the first transcript alternative.
func (d *TranscriptDocument) Text() (string, error) {
	if len(d.Results.Transcripts) == 0 {
		return "", ErrNoTranscript
	}
	return d.Results.Transcripts[0].Transcript, nil
}

type Instance struct {
	ID               string     `json:"instance_id"`
	Name             string     `json:"name,omitempty"`
	Type             string     `json:"instance_type"`
	State            string     `json:"state"`
	AvailabilityZone string     `json:"availability_zone,omitempty"`
	LaunchTime       *time.Time `json:"launch_time,omitempty"`
}

type Bucket struct {
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ModelSpec describes a model to register with SageMaker.
type ModelSpec struct {
	Name             string            `yaml:"name" json:"name"`
	ExecutionRoleARN string            `yaml:"executionRoleArn" json:"execution_role_arn"`
	Image            string            `yaml:"image" json:"image"`
	ModelDataURL     string            `yaml:"modelDataUrl" json:"model_data_url,omitempty"`
	Environment      map[string]string `yaml:"environment" json:"environment,omitempty"`
	VPC              VPCConfig         `yaml:"vpc" json:"vpc"`
	Tags             map[string]string `yaml:"tags" json:"tags,omitempty"`
}

type VPCConfig struct {
	Subnets          []string `yaml:"subnets" json:"subnets,omitempty"`
	SecurityGroupIDs []string `yaml:"securityGroupIds" json:"security_group_ids,omitempty"`
}
