package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/sshutils"
)

var statusWait time.Duration

var statusCmd = &cobra.Command{
	Use:   "status [machine]",
	Short: "Report whether a machine's SSH daemon is reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, err := loadMachine(args)
		if err != nil {
			return err
		}

		comm := sshutils.New(machine)

		if statusWait > 0 {
			if err := comm.WaitUntilReady(statusWait); err != nil {
				return err
			}
			fmt.Printf("%s is up\n", machine.Name)
			return nil
		}

		up, err := comm.IsUp()
		if err != nil {
			return err
		}
		if !up {
			fmt.Printf("%s is down\n", machine.Name)
			os.Exit(1)
		}
		fmt.Printf("%s is up\n", machine.Name)
		return nil
	},
}

func init() {
	statusCmd.Flags().
		DurationVar(&statusWait, "wait", 0, "keep probing until the machine is up or the duration passes")
}
