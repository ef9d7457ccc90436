package sshutils

import (
	"fmt"
	"strconv"

	"github.com/skiffworks/skiff/pkg/models"
)

// BuildClientArgs constructs the native client invocation for machine. The
// exact flags and their order are a compatibility surface: users compare this
// against what they would type by hand.
func BuildClientArgs(m *models.Machine, keyPath string, port int) []string {
	args := []string{
		"-p", strconv.Itoa(port),
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "StrictHostKeyChecking=no",
		"-o", "IdentitiesOnly=yes",
		"-o", "LogLevel=FATAL",
	}
	if m.SSH.ForwardAgent {
		args = append(args, "-o", "ForwardAgent=yes")
	}
	if m.SSH.ForwardX11 {
		// Trusted forwarding always rides along with X11 forwarding; enabling
		// one without the other triggers client warnings.
		args = append(args, "-o", "ForwardX11=yes", "-o", "ForwardX11Trusted=yes")
	}
	args = append(args, "-i", keyPath, fmt.Sprintf("%s@%s", m.SSH.User, m.SSH.Host))
	return args
}
