package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"cloudlab-go/internal/app"
	"cloudlab-go/internal/logger"
)

func main() {
	a, err := app.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("startup failed")
	}
	h, err := a.Complete()
	if err != nil {
		a.Log.WithError(err).Fatal("invalid configuration")
	}
	a.Log.WithField("service", "complete").WithField("bucket", a.Config.TranscriptBucket).Info("starting lambda handler")
	lambda.Start(h.Handle)
}
