package mlmodel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cloudlab-go/internal/types"
)

// LoadSpec reads a model definition from YAML. ${VAR} references are expanded from the
// environment before parsing so role ARNs and subnet ids can stay out of the file.
func LoadSpec(path string) (*types.ModelSpec, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read model spec: %w", err)
	}
	var spec types.ModelSpec
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &spec); err != nil {
		return nil, fmt.Errorf("parse model spec: %w", err)
	}
	if err := Validate(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func Validate(spec *types.ModelSpec) error {
	switch {
	case strings.TrimSpace(spec.Name) == "":
		return fmt.Errorf("%w: name is required", types.ErrInvalidModelSpec)
	case strings.TrimSpace(spec.ExecutionRoleARN) == "":
		return fmt.Errorf("%w: executionRoleArn is required", types.ErrInvalidModelSpec)
	case !strings.HasPrefix(spec.ExecutionRoleARN, "arn:"):
		return fmt.Errorf("%w: executionRoleArn %q is not an ARN", types.ErrInvalidModelSpec, spec.ExecutionRoleARN)
	case strings.TrimSpace(spec.Image) == "":
		return fmt.Errorf("%w: image is required", types.ErrInvalidModelSpec)
	case spec.ModelDataURL != "" && !strings.HasPrefix(spec.ModelDataURL, "s3://"):
		return fmt.Errorf("%w: modelDataUrl must be an s3:// URI", types.ErrInvalidModelSpec)
	case (len(spec.VPC.Subnets) == 0) != (len(spec.VPC.SecurityGroupIDs) == 0):
		return fmt.Errorf("%w: vpc needs both subnets and securityGroupIds", types.ErrInvalidModelSpec)
	}
	return nil
}
