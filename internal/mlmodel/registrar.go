package mlmodel

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sagemaker/sagemakeriface"

	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/types"
)

// Registrar creates SageMaker models.
type Registrar struct {
	api sagemakeriface.SageMakerAPI
	log *logger.Logger
}

func NewRegistrar(api sagemakeriface.SageMakerAPI, log *logger.Logger) *Registrar {
	return &Registrar{api: api, log: log}
}

// Register validates spec and creates the model, returning its ARN.
func (r *Registrar) Register(ctx context.Context, spec *types.ModelSpec) (string, error) {
	if err := Validate(spec); err != nil {
		return "", err
	}
	out, err := r.api.CreateModelWithContext(ctx, createModelInput(spec))
	if err != nil {
		return "", fmt.Errorf("create model %s: %w", spec.Name, err)
	}
	arn := aws.StringValue(out.ModelArn)
	r.log.WithField("model_name", spec.Name).WithField("model_arn", arn).Info("model registered")
	return arn, nil
}

func createModelInput(spec *types.ModelSpec) *sagemaker.CreateModelInput {
	container := &sagemaker.ContainerDefinition{
		Image: aws.String(spec.Image),
	}
	if spec.ModelDataURL != "" {
		container.ModelDataUrl = aws.String(spec.ModelDataURL)
	}
	if len(spec.Environment) > 0 {
		container.Environment = aws.StringMap(spec.Environment)
	}
	in := &sagemaker.CreateModelInput{
		ModelName:        aws.String(spec.Name),
		ExecutionRoleArn: aws.String(spec.ExecutionRoleARN),
		PrimaryContainer: container,
	}
	if len(spec.VPC.Subnets) > 0 {
		in.VpcConfig = &sagemaker.VpcConfig{
			Subnets:          aws.StringSlice(spec.VPC.Subnets),
			SecurityGroupIds: aws.StringSlice(spec.VPC.SecurityGroupIDs),
		}
	}
	keys := make([]string, 0, len(spec.Tags))
	for k := range spec.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		in.Tags = append(in.Tags, &sagemaker.Tag{Key: aws.String(k), Value: aws.String(spec.Tags[k])})
	}
	return in
}
