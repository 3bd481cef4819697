// Package inventory builds and reads the Ansible dynamic inventory of deployed hosts.
//
// The JSON shape is Ansible's script inventory:
//
//	{"ec2_hosts": {"hosts": ["203.0.113.10"], "vars": {}},
//	 "_meta": {"hostvars": {"203.0.113.10": {"ansible_user": "ubuntu", ...}}}}
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
)

// DefaultGroup is the group the EC2 source writes hosts into.
const DefaultGroup = "ec2_hosts"

const metaKey = "_meta"

var (
	ErrNoGroup = errors.New("inventory group not found")
	ErrNoHosts = errors.New("inventory group has no hosts")
)

type Group struct {
	Hosts []string       `json:"hosts"`
	Vars  map[string]any `json:"vars"`
}

type Meta struct {
	HostVars map[string]HostVars `json:"hostvars"`
}

// HostVars are the per-host connection settings Ansible reads from _meta.
type HostVars struct {
	Connection     string `json:"ansible_connection,omitempty"`
	User           string `json:"ansible_user,omitempty"`
	PrivateKeyFile string `json:"ansible_ssh_private_key_file,omitempty"`
}

// Inventory is a set of named groups plus the _meta host variables.
type Inventory struct {
	Groups map[string]*Group
	Meta   Meta
}

func New() *Inventory {
	return &Inventory{
		Groups: make(map[string]*Group),
		Meta:   Meta{HostVars: make(map[string]HostVars)},
	}
}

// Add appends host to group and records its variables.
func (inv *Inventory) Add(group, host string, vars HostVars) {
	g, ok := inv.Groups[group]
	if !ok {
		g = &Group{Hosts: []string{}, Vars: map[string]any{}}
		inv.Groups[group] = g
	}
	g.Hosts = append(g.Hosts, host)
	inv.Meta.HostVars[host] = vars
}

func (inv *Inventory) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(inv.Groups)+1)
	for name, g := range inv.Groups {
		out[name] = g
	}
	out[metaKey] = inv.Meta
	return json.Marshal(out)
}

func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed := New()
	for name, msg := range raw {
		if name == metaKey {
			if err := json.Unmarshal(msg, &parsed.Meta); err != nil {
				return fmt.Errorf("decode %s: %w", metaKey, err)
			}
			if parsed.Meta.HostVars == nil {
				parsed.Meta.HostVars = make(map[string]HostVars)
			}
			continue
		}

		var g Group
		if err := json.Unmarshal(msg, &g); err != nil {
			return fmt.Errorf("decode group %s: %w", name, err)
		}
		parsed.Groups[name] = &g
	}

	*inv = *parsed
	return nil
}

// Read decodes an inventory document.
func Read(r io.Reader) (*Inventory, error) {
	inv := New()
	if err := json.NewDecoder(r).Decode(inv); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return inv, nil
}

// Write encodes inv with the 4-space indent Ansible inventory scripts conventionally print.
func Write(w io.Writer, inv *Inventory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(inv)
}

// Targets turns the hosts of group into base URLs such as http://203.0.113.10:8080.
func (inv *Inventory) Targets(group, scheme string, port int) ([]string, error) {
	g, ok := inv.Groups[group]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoGroup, group)
	}
	if len(g.Hosts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHosts, group)
	}

	targets := make([]string, 0, len(g.Hosts))
	for _, host := range g.Hosts {
		targets = append(targets, scheme+"://"+net.JoinHostPort(host, strconv.Itoa(port)))
	}
	return targets, nil
}
