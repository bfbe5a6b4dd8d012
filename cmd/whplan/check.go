package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-planner/internal/encode"
	"github.com/elektrokombinacija/warehouse-planner/internal/loader"
	"github.com/elektrokombinacija/warehouse-planner/internal/logging"
	"github.com/elektrokombinacija/warehouse-planner/internal/sim"
)

var checkCmd = &cobra.Command{
	Use:   "check <instance> <plan.json>",
	Short: "Replay a plan against an instance and verify it",
	Args:  cobra.ExactArgs(2),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.ParseLevel(viper.GetString("log-level")))

	inst, err := loader.Load(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	doc, plan, err := encode.ReadJSON(f)
	if err != nil {
		return err
	}

	res, err := sim.Replay(inst, plan)
	if err != nil {
		return err
	}

	log.Info("plan replayed",
		"steps", len(plan),
		"makespan", res.Makespan,
		"goal_reached", res.GoalReached)

	if !res.GoalReached {
		return fmt.Errorf("plan leaves order requirements unmet")
	}
	if doc.Makespan != 0 && doc.Makespan != res.Makespan {
		return fmt.Errorf("declared makespan %d does not match replayed makespan %d", doc.Makespan, res.Makespan)
	}
	fmt.Printf("valid plan: makespan %d, %d steps\n", res.Makespan, len(plan))
	return nil
}
