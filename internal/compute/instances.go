package compute

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"

	"cloudlab-go/internal/types"
)

type Inventory struct {
	api ec2iface.EC2API
}

func NewInventory(api ec2iface.EC2API) *Inventory {
	return &Inventory{api: api}
}

// RunningInstances walks every DescribeInstances page for instances in the running state.
func (inv *Inventory) RunningInstances(ctx context.Context) ([]types.Instance, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []*ec2.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: aws.StringSlice([]string{ec2.InstanceStateNameRunning}),
		}},
	}
	var out []types.Instance
	err := inv.api.DescribeInstancesPagesWithContext(ctx, input, func(page *ec2.DescribeInstancesOutput, _ bool) bool {
		for _, res := range page.Reservations {
			for _, in := range res.Instances {
				out = append(out, instanceFromAPI(in))
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("describe instances: %w", err)
	}
	return out, nil
}

// IDs is the plain ID list the lab prints.
func IDs(instances []types.Instance) []string {
	ids := make([]string, len(instances))
	for i, in := range instances {
		ids[i] = in.ID
	}
	return ids
}

func instanceFromAPI(in *ec2.Instance) types.Instance {
	inst := types.Instance{
		ID:         aws.StringValue(in.InstanceId),
		Type:       aws.StringValue(in.InstanceType),
		LaunchTime: in.LaunchTime,
	}
	if in.State != nil {
		inst.State = aws.StringValue(in.State.Name)
	}
	if in.Placement != nil {
		inst.AvailabilityZone = aws.StringValue(in.Placement.AvailabilityZone)
	}
	for _, tag := range in.Tags {
		if aws.StringValue(tag.Key) == "Name" {
			inst.Name = aws.StringValue(tag.Value)
		}
	}
	return inst
}
