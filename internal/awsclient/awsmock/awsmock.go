// Package awsmock provides testify mocks for the slices of the AWS SDK this module calls.
// Each mock embeds the SDK interface so unexpected calls panic on the nil embed.
package awsmock

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sagemaker/sagemakeriface"
	"github.com/aws/aws-sdk-go/service/transcribeservice"
	"github.com/aws/aws-sdk-go/service/transcribeservice/transcribeserviceiface"
	"github.com/stretchr/testify/mock"
)

var (
	_ transcribeserviceiface.TranscribeServiceAPI = (*Transcribe)(nil)
	_ s3iface.S3API                               = (*S3)(nil)
	_ ec2iface.EC2API                             = (*EC2)(nil)
	_ sagemakeriface.SageMakerAPI                 = (*SageMaker)(nil)
)

type Transcribe struct {
	transcribeserviceiface.TranscribeServiceAPI
	mock.Mock
}

func (m *Transcribe) StartTranscriptionJobWithContext(ctx aws.Context, in *transcribeservice.StartTranscriptionJobInput, _ ...request.Option) (*transcribeservice.StartTranscriptionJobOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*transcribeservice.StartTranscriptionJobOutput)
	return out, args.Error(1)
}

func (m *Transcribe) GetTranscriptionJobWithContext(ctx aws.Context, in *transcribeservice.GetTranscriptionJobInput, _ ...request.Option) (*transcribeservice.GetTranscriptionJobOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*transcribeservice.GetTranscriptionJobOutput)
	return out, args.Error(1)
}

type S3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *S3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *S3) ListBucketsWithContext(ctx aws.Context, in *s3.ListBucketsInput, _ ...request.Option) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.ListBucketsOutput)
	return out, args.Error(1)
}

type EC2 struct {
	ec2iface.EC2API
	mock.Mock
}

// DescribeInstancesPagesWithContext feeds the pages given to Return to fn, in order.
func (m *EC2) DescribeInstancesPagesWithContext(ctx aws.Context, in *ec2.DescribeInstancesInput, fn func(*ec2.DescribeInstancesOutput, bool) bool, _ ...request.Option) error {
	args := m.Called(ctx, in)
	pages, _ := args.Get(0).([]*ec2.DescribeInstancesOutput)
	for i, p := range pages {
		if !fn(p, i == len(pages)-1) {
			break
		}
	}
	return args.Error(1)
}

type SageMaker struct {
	sagemakeriface.SageMakerAPI
	mock.Mock
}

func (m *SageMaker) CreateModelWithContext(ctx aws.Context, in *sagemaker.CreateModelInput, _ ...request.Option) (*sagemaker.CreateModelOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sagemaker.CreateModelOutput)
	return out, args.Error(1)
}
