package awsclient

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sagemaker/sagemakeriface"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/aws/aws-sdk-go/service/transcribeservice/transcribeserviceiface"
)

// Clients holds the service clients built from a single session. Build it once at
// startup and pass it down; nothing in this module keeps AWS state in globals.
type Clients struct {
	Session    *session.Session
	S3         s3iface.S3API
	Transcribe transcribeserviceiface.TranscribeServiceAPI
	EC2        ec2iface.EC2API
	SageMaker  sagemakeriface.SageMakerAPI
}

// New resolves credentials from the environment, shared config or the execution role.
// An empty region falls back to whatever the shared config or AWS_REGION provide.
func New(region, profile string) (*Clients, error) {
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		Profile:           profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &Clients{
		Session:    sess,
		S3:         s3.New(sess),
		Transcribe: transcribeservice.New(sess),
		EC2:        ec2.New(sess),
		SageMaker:  sagemaker.New(sess),
	}, nil
}

// Region reports the region the session resolved to.
func (c *Clients) Region() string {
	return aws.StringValue(c.Session.Config.Region)
}
