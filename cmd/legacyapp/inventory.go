package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/projecthelena/legacyapp/internal/inventory"
	"github.com/spf13/cobra"
)

func newInventoryCmd() *cobra.Command {
	opts := inventory.DefaultEC2Options()
	var region string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Print the Ansible inventory of running EC2 hosts",
		Long: `Inventory lists running EC2 instances tagged Environment=<env> and app=<app>
that have a public IP, and prints them as an Ansible dynamic inventory.
Credentials come from the standard AWS chain; the region defaults to AWS_REGION.`,
		Example: "  legacyapp inventory --env dev > inventory.json\n  legacyapp probe --inventory inventory.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			var loadOpts []func(*config.LoadOptions) error
			if region != "" {
				loadOpts = append(loadOpts, config.WithRegion(region))
			}
			awsCfg, err := config.LoadDefaultConfig(cmd.Context(), loadOpts...)
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}

			inv, err := inventory.FromEC2(cmd.Context(), ec2.NewFromConfig(awsCfg), opts)
			if err != nil {
				return err
			}
			return inventory.Write(cmd.OutOrStdout(), inv)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&region, "region", os.Getenv("AWS_REGION"), "AWS region")
	flags.StringVar(&opts.Environment, "env", opts.Environment, "value of the Environment tag")
	flags.StringVar(&opts.App, "app", opts.App, "value of the app tag")
	flags.StringVar(&opts.Group, "group", opts.Group, "inventory group to place hosts in")
	flags.StringVar(&opts.HostVars.User, "ssh-user", opts.HostVars.User, "ansible_user for every host")
	flags.StringVar(&opts.HostVars.PrivateKeyFile, "ssh-key", opts.HostVars.PrivateKeyFile, "ansible_ssh_private_key_file for every host")

	return cmd
}
