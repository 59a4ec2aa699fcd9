package types

import "errors"

var (
	ErrInvalidKey       = errors.New("object key yields an empty job name")
	ErrMissingJobName   = errors.New("event carries no transcription job name")
	ErrJobExists        = errors.New("transcription job already exists")
	ErrJobNotCompleted  = errors.New("transcription job is not completed")
	ErrNoTranscript     = errors.New("transcript payload has no alternatives")
	ErrInvalidModelSpec = errors.New("invalid model spec")
)
