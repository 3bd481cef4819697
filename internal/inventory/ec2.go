package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EC2Options selects which instances make up the deployment and how Ansible reaches them.
type EC2Options struct {
	Environment string
	App         string
	Group       string
	HostVars    HostVars
}

// DefaultEC2Options matches the dev deployment of the legacy app.
func DefaultEC2Options() EC2Options {
	return EC2Options{
		Environment: "dev",
		App:         "legacy-java-app",
		Group:       DefaultGroup,
		HostVars: HostVars{
			Connection:     "ssh",
			User:           "ubuntu",
			PrivateKeyFile: "/var/lib/jenkins/.ssh/legacy-java-app-key",
		},
	}
}

func (o EC2Options) filters() []types.Filter {
	return []types.Filter{
		{Name: aws.String("tag:Environment"), Values: []string{o.Environment}},
		{Name: aws.String("tag:app"), Values: []string{o.App}},
	}
}

// FromEC2 lists the tagged instances across all result pages and builds the inventory.
func FromEC2(ctx context.Context, client ec2.DescribeInstancesAPIClient, opts EC2Options) (*Inventory, error) {
	paginator := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{
		Filters: opts.filters(),
	})

	var reservations []types.Reservation
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}
		reservations = append(reservations, page.Reservations...)
	}

	return Build(reservations, opts), nil
}

// Build keeps running instances that have a public IP. The group is always present,
// even when empty, so consumers see an explicit "no hosts" rather than a missing key.
func Build(reservations []types.Reservation, opts EC2Options) *Inventory {
	group := opts.Group
	if group == "" {
		group = DefaultGroup
	}

	inv := New()
	inv.Groups[group] = &Group{Hosts: []string{}, Vars: map[string]any{}}

	for _, res := range reservations {
		for _, instance := range res.Instances {
			if instance.State == nil || instance.State.Name != types.InstanceStateNameRunning {
				continue
			}
			ip := aws.ToString(instance.PublicIpAddress)
			if ip == "" {
				continue
			}
			inv.Add(group, ip, opts.HostVars)
		}
	}
	return inv
}
