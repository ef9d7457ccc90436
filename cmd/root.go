package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skiffworks/skiff/pkg/config"
	"github.com/skiffworks/skiff/pkg/logger"
	"github.com/skiffworks/skiff/pkg/models"
)

var (
	machineFile string
	verboseMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skiff",
	Short: "Skiff is a lightweight orchestrator for local guest VMs",
	Long: `Skiff manages SSH access to local guest virtual machines: running
commands, transferring files, probing reachability, and handing the
terminal over to a native client.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseMode)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&machineFile, "machine-file", "", "machine definition file (default is ./skiff.yaml)")
	rootCmd.PersistentFlags().
		BoolVarP(&verboseMode, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("machine_file", rootCmd.PersistentFlags().Lookup("machine-file"))

	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(statusCmd)
}

// loadMachine resolves the machine named in args (optional) from the machine
// file.
func loadMachine(args []string) (*models.Machine, error) {
	path := viper.GetString("machine_file")
	if path == "" {
		path = "skiff.yaml"
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no machine file at %s (set --machine-file)", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return cfg.Machine(name)
}
