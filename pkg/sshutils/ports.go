package sshutils

import (
	"github.com/skiffworks/skiff/pkg/logger"
	"github.com/skiffworks/skiff/pkg/models"
)

// ResolvePort determines which host-side port reaches the machine's SSH
// daemon. Precedence: a non-zero per-call override, then a static port in the
// machine settings, then forwarded-port discovery.
//
// Discovery scans adapters in order. The first entry whose name equals the
// configured lookup key wins outright; once found, no later adapter is
// considered. A destination match (guest port equals the configured
// destination) is tracked across all adapters as a fallback, used only when no
// name match exists anywhere.
func ResolvePort(override int, m *models.Machine) (int, error) {
	l := logger.Get()

	if override != 0 {
		l.Debugf("using explicit SSH port override %d for machine %q", override, m.Name)
		return override, nil
	}
	if m.SSH.Port != 0 {
		l.Debugf("using configured SSH port %d for machine %q", m.SSH.Port, m.Name)
		return m.SSH.Port, nil
	}

	namePort := 0
	destPort := 0
	for _, adapter := range m.Adapters {
		for _, fp := range adapter.ForwardedPorts {
			if namePort == 0 && fp.Name == m.SSH.ForwardedPortKey {
				namePort = fp.HostPort
			}
			if destPort == 0 && fp.GuestPort == m.SSH.ForwardedPortDestination {
				destPort = fp.HostPort
			}
		}
		if namePort != 0 {
			// Name matches short-circuit discovery entirely.
			break
		}
	}

	if namePort != 0 {
		l.Debugf("detected SSH port %d for machine %q via forwarded port %q",
			namePort, m.Name, m.SSH.ForwardedPortKey)
		return namePort, nil
	}
	if destPort != 0 {
		l.Debugf("detected SSH port %d for machine %q via guest destination %d",
			destPort, m.Name, m.SSH.ForwardedPortDestination)
		return destPort, nil
	}

	return 0, &PortNotDetectedError{}
}
