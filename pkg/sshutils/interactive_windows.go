//go:build windows

package sshutils

// Connect cannot hand the terminal off on Windows: there is no process
// replacement to perform. The error carries the key path and resolved port so
// the user can run a client of their choosing by hand.
func (c *Communicator) Connect(opts ConnectOptions) error {
	keyPath, err := c.keyPath()
	if err != nil {
		return err
	}
	port, err := ResolvePort(opts.Port, c.machine)
	if err != nil {
		return err
	}
	return &PlatformUnavailableError{KeyPath: keyPath, Port: port}
}
