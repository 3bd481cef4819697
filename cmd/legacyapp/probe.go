package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/projecthelena/legacyapp/internal/inventory"
	"github.com/projecthelena/legacyapp/internal/logging"
	"github.com/projecthelena/legacyapp/internal/uptime"
	"github.com/spf13/cobra"
)

var (
	errChecksFailed = errors.New("one or more checks failed")
	errNoTargets   = errors.New("no targets: pass --target or --inventory")
)

type checkOptions struct {
	targets     []string
	inventory   string
	group       string
	scheme      string
	port        int
	retries     int
	timeout     time.Duration
	waitMin     time.Duration
	waitMax     time.Duration
	concurrency int
	maxSkew     time.Duration
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that deployed instances are serving",
		Long: `It GETs /health and / on every target and verifies the bodies.
Targets come from --target and from the hosts of an Ansible inventory (--inventory,
"-" for stdin). Results are printed as JSON; the exit code is non-zero if any check fails.`,
		Example: "  legacyapp probe --target http://10.0.1.12:8080\n" +
			"  legacyapp inventory | legacyapp probe --inventory - --port 8080",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.targets, "target", "t", nil, "base URL of a deployment (repeatable)")
	flags.StringVarP(&opts.inventory, "inventory", "i", "", `Ansible inventory JSON file to read hosts from ("-" for stdin)`)
	flags.StringVar(&opts.group, "group", inventory.DefaultGroup, "inventory group whose hosts are checked")
	flags.StringVar(&opts.scheme, "scheme", "http", "URL scheme for inventory hosts")
	flags.IntVar(&opts.port, "port", 8080, "port the app listens on for inventory hosts")
	flags.IntVar(&opts.retries, "retries", 5, "retries per check on 429, 5xx and transport errors")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-attempt request timeout")
	flags.DurationVar(&opts.waitMin, "retry-wait-min", time.Second, "minimum wait between retries")
	flags.DurationVar(&opts.waitMax, "retry-wait-max", 30*time.Second, "maximum wait between retries")
	flags.IntVar(&opts.concurrency, "concurrency", 4, "targets checked in parallel")
	flags.DurationVar(&opts.maxSkew, "max-skew", 0, "fail the root check if its timestamp is further than this from local time (0 disables)")

	return cmd
}

func (o *checkOptions) resolveTargets(stdin io.Reader) ([]string, error) {
	targets := append([]string(nil), o.targets...)

	if o.inventory != "" {
		r := stdin
		if o.inventory != "-" {
			f, err := os.Open(o.inventory)
			if err != nil {
				return nil, fmt.Errorf("open inventory: %w", err)
			}
			defer func() { _ = f.Close() }()
			r = f
		}

		inv, err := inventory.Read(r)
		if err != nil {
			return nil, err
		}
		hosts, err := inv.Targets(o.group, o.scheme, o.port)
		if err != nil {
			return nil, err
		}
		targets = append(targets, hosts...)
	}

	if len(targets) == 0 {
		return nil, errNoTargets
	}
	return targets, nil
}

func runChecks(cmd *cobra.Command, opts *checkOptions) error {
	targets, err := opts.resolveTargets(cmd.InOrStdin())
	if err != nil {
		return err
	}

	checker := uptime.NewChecker(uptime.CheckerConfig{
		Timeout:      opts.timeout,
		RetryMax:     opts.retries,
		RetryWaitMin: opts.waitMin,
		RetryWaitMax: opts.waitMax,
		Concurrency:  opts.concurrency,
		MaxSkew:      opts.maxSkew,
		Logger:       logging.NewWithWriter(cmd.ErrOrStderr(), "check"),
	})

	results := checker.CheckAll(cmd.Context(), targets)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	if !uptime.AllUp(results) {
		return errChecksFailed
	}
	return nil
}
