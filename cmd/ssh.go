package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skiffworks/skiff/pkg/sshutils"
)

var sshPortOverride int

var sshCmd = &cobra.Command{
	Use:   "ssh [machine]",
	Short: "Open an interactive SSH session to a machine",
	Long: `Replaces the skiff process with a native ssh client connected to the
machine. On success this command does not return.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, err := loadMachine(args)
		if err != nil {
			return err
		}

		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("stdin is not a terminal; use 'skiff exec' for scripted commands")
		}

		comm := sshutils.New(machine)
		// Only reached on failure; success replaces the process image.
		return comm.Connect(sshutils.ConnectOptions{Port: sshPortOverride})
	},
}

func init() {
	sshCmd.Flags().IntVarP(&sshPortOverride, "port", "p", 0, "override the SSH port")
}
