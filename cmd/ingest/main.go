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
	a.Log.WithField("service", "ingest").WithField("region", a.Clients.Region()).Info("starting lambda handler")
	lambda.Start(a.Ingest().Handle)
}
