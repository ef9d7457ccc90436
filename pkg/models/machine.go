package models

import "time"

// ForwardedPort is a single guest-to-host port mapping owned by the
// virtualization layer. Records are kept in the order the driver reports them.
type ForwardedPort struct {
	Name      string
	GuestPort int
	HostPort  int
}

// NetworkAdapter is one virtual NIC with its forwarded-port table.
type NetworkAdapter struct {
	ForwardedPorts []ForwardedPort
}

// SSHSettings holds everything needed to reach a machine's SSH daemon.
type SSHSettings struct {
	Host           string
	User           string
	PrivateKeyPath string

	// Port, when non-zero, short-circuits forwarded-port discovery.
	Port int

	// ForwardedPortKey is the name a forwarded-port entry must carry to be
	// treated as the SSH mapping. ForwardedPortDestination is the guest port
	// used as a fallback when no entry matches by name.
	ForwardedPortKey         string
	ForwardedPortDestination int

	MaxTries int
	Timeout  time.Duration

	ForwardAgent bool
	ForwardX11   bool
}

// Machine is a read-only view of one guest VM as the SSH subsystem sees it.
// It is owned by the caller; nothing in this repo mutates it.
type Machine struct {
	Name string

	// RootPath anchors relative paths in the machine definition, most
	// importantly the private key path.
	RootPath string

	SSH SSHSettings

	// Adapters are ordered; forwarded-port discovery scans them in order.
	Adapters []NetworkAdapter
}
