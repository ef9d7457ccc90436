package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/sshutils"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [machine] <source> <destination>",
	Short: "Copy a local file to a machine over SFTP",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		machineArgs := []string{}
		src, dest := args[0], args[1]
		if len(args) == 3 {
			machineArgs = args[:1]
			src, dest = args[1], args[2]
		}

		machine, err := loadMachine(machineArgs)
		if err != nil {
			return err
		}

		comm := sshutils.New(machine)
		if err := comm.Upload(sshutils.FileSource(src), dest); err != nil {
			return err
		}
		fmt.Printf("uploaded %s to %s:%s\n", src, machine.Name, dest)
		return nil
	},
}
