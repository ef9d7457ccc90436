package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/sshutils"
)

var execPortOverride int

var execCmd = &cobra.Command{
	Use:   "exec [machine] -- <command>",
	Short: "Run a command on a machine over SSH",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machineArgs := args
		command := ""
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			machineArgs = args[:dash]
			command = strings.Join(args[dash:], " ")
		} else {
			// Without a dash everything past the machine name is the command.
			if len(args) > 1 {
				machineArgs = args[:1]
				command = strings.Join(args[1:], " ")
			}
		}
		if command == "" {
			return fmt.Errorf("no command given; usage: skiff exec [machine] -- <command>")
		}

		machine, err := loadMachine(machineArgs)
		if err != nil {
			return err
		}

		comm := sshutils.New(machine)
		result, err := comm.ExecuteCommand(sshutils.ExecuteOptions{Port: execPortOverride}, command)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, result.Stdout)
		fmt.Fprint(os.Stderr, result.Stderr)
		if result.ExitStatus != 0 {
			os.Exit(result.ExitStatus)
		}
		return nil
	},
}

func init() {
	execCmd.Flags().IntVarP(&execPortOverride, "port", "p", 0, "override the SSH port")
}
