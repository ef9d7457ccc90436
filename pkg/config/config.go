// Package config loads machine definitions from a skiff.yaml file. The file
// directory becomes each machine's root path, anchoring relative key paths.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/skiffworks/skiff/pkg/models"
)

// Defaults applied to every machine definition that leaves them unset.
const (
	DefaultHost                     = "127.0.0.1"
	DefaultUser                     = "skiff"
	DefaultForwardedPortKey         = "ssh"
	DefaultForwardedPortDestination = 22
	DefaultMaxTries                 = 3
	DefaultTimeout                  = 30 * time.Second
)

type sshSpec struct {
	Host                     string        `mapstructure:"host"`
	User                     string        `mapstructure:"user"`
	PrivateKeyPath           string        `mapstructure:"private_key_path"`
	Port                     int           `mapstructure:"port"`
	ForwardedPortKey         string        `mapstructure:"forwarded_port_key"`
	ForwardedPortDestination int           `mapstructure:"forwarded_port_destination"`
	MaxTries                 int           `mapstructure:"max_tries"`
	Timeout                  time.Duration `mapstructure:"timeout"`
	ForwardAgent             bool          `mapstructure:"forward_agent"`
	ForwardX11               bool          `mapstructure:"forward_x11"`
}

type forwardedPortSpec struct {
	Name      string `mapstructure:"name"`
	GuestPort int    `mapstructure:"guest_port"`
	HostPort  int    `mapstructure:"host_port"`
}

type adapterSpec struct {
	ForwardedPorts []forwardedPortSpec `mapstructure:"forwarded_ports"`
}

type machineSpec struct {
	SSH      sshSpec       `mapstructure:"ssh"`
	Adapters []adapterSpec `mapstructure:"adapters"`
}

// Config holds all machines loaded from one file.
type Config struct {
	machines map[string]*models.Machine
}

// Load reads path and builds machine definitions with defaults applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read machine file %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	rootPath := filepath.Dir(absPath)

	var specs map[string]machineSpec
	if err := v.UnmarshalKey("machines", &specs); err != nil {
		return nil, fmt.Errorf("failed to parse machine file %s: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("machine file %s defines no machines", path)
	}

	cfg := &Config{machines: make(map[string]*models.Machine, len(specs))}
	for name, spec := range specs {
		m, err := buildMachine(name, rootPath, spec)
		if err != nil {
			return nil, err
		}
		cfg.machines[name] = m
	}
	return cfg, nil
}

func buildMachine(name, rootPath string, spec machineSpec) (*models.Machine, error) {
	keyPath, err := homedir.Expand(spec.SSH.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("machine %q: failed to expand private key path: %w", name, err)
	}

	m := &models.Machine{
		Name:     name,
		RootPath: rootPath,
		SSH: models.SSHSettings{
			Host:                     spec.SSH.Host,
			User:                     spec.SSH.User,
			PrivateKeyPath:           keyPath,
			Port:                     spec.SSH.Port,
			ForwardedPortKey:         spec.SSH.ForwardedPortKey,
			ForwardedPortDestination: spec.SSH.ForwardedPortDestination,
			MaxTries:                 spec.SSH.MaxTries,
			Timeout:                  spec.SSH.Timeout,
			ForwardAgent:             spec.SSH.ForwardAgent,
			ForwardX11:               spec.SSH.ForwardX11,
		},
	}

	if m.SSH.Host == "" {
		m.SSH.Host = DefaultHost
	}
	if m.SSH.User == "" {
		m.SSH.User = DefaultUser
	}
	if m.SSH.ForwardedPortKey == "" {
		m.SSH.ForwardedPortKey = DefaultForwardedPortKey
	}
	if m.SSH.ForwardedPortDestination == 0 {
		m.SSH.ForwardedPortDestination = DefaultForwardedPortDestination
	}
	if m.SSH.MaxTries == 0 {
		m.SSH.MaxTries = DefaultMaxTries
	}
	if m.SSH.Timeout == 0 {
		m.SSH.Timeout = DefaultTimeout
	}

	for _, adapter := range spec.Adapters {
		a := models.NetworkAdapter{}
		for _, fp := range adapter.ForwardedPorts {
			a.ForwardedPorts = append(a.ForwardedPorts, models.ForwardedPort{
				Name:      fp.Name,
				GuestPort: fp.GuestPort,
				HostPort:  fp.HostPort,
			})
		}
		m.Adapters = append(m.Adapters, a)
	}

	return m, nil
}

// Machine returns the named machine, or the sole machine when name is empty
// and exactly one is defined.
func (c *Config) Machine(name string) (*models.Machine, error) {
	if name == "" {
		if len(c.machines) == 1 {
			for _, m := range c.machines {
				return m, nil
			}
		}
		if m, ok := c.machines["default"]; ok {
			return m, nil
		}
		return nil, fmt.Errorf("multiple machines defined, name one of: %v", c.Names())
	}
	m, ok := c.machines[name]
	if !ok {
		return nil, fmt.Errorf("machine %q is not defined, known machines: %v", name, c.Names())
	}
	return m, nil
}

// Names returns all defined machine names, sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.machines))
	for name := range c.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
