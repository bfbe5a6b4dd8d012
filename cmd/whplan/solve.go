package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/warehouse-planner/internal/algo"
	"github.com/elektrokombinacija/warehouse-planner/internal/encode"
	"github.com/elektrokombinacija/warehouse-planner/internal/loader"
	"github.com/elektrokombinacija/warehouse-planner/internal/logging"
	"github.com/elektrokombinacija/warehouse-planner/internal/metrics"
)

var solveCmd = &cobra.Command{
	Use:   "solve <instance>",
	Short: "Search for an action schedule satisfying all orders",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().Int("horizon", 20, "maximum timestep the plan may use")
	solveCmd.Flags().Bool("optimize", true, "search for a makespan-minimal plan instead of any feasible one")
	solveCmd.Flags().Int("threads", 1, "parallel branch workers")
	solveCmd.Flags().Duration("time-budget", 0, "wall-clock cutoff, 0 means unlimited")
	solveCmd.Flags().String("out", "", "write the plan JSON to this file instead of stdout")
	solveCmd.Flags().Bool("atoms", false, "also print the plan as occurs/3 atoms on stderr")
	solveCmd.Flags().String("metrics-listen", "", "serve Prometheus metrics on this address while solving")

	for _, key := range []string{"horizon", "optimize", "threads", "time-budget", "metrics-listen"} {
		cobra.CheckErr(viper.BindPFlag(key, solveCmd.Flags().Lookup(key)))
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.ParseLevel(viper.GetString("log-level")))

	inst, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	log.Info("instance loaded",
		"file", args[0],
		"robots", len(inst.Robots),
		"shelves", len(inst.Shelves),
		"orders", len(inst.Orders),
		"unit_bound", inst.UnitBound)

	opts := algo.Options{
		Horizon:    viper.GetInt("horizon"),
		Optimize:   viper.GetBool("optimize"),
		Workers:    viper.GetInt("threads"),
		TimeBudget: viper.GetDuration("time-budget"),
	}

	if addr := viper.GetString("metrics-listen"); addr != "" {
		reg := prometheus.NewRegistry()
		opts.Metrics = metrics.NewSearch(reg)
		srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	// Ctrl-C aborts the search; the engine hands back the best plan
	// found so far.
	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	solver := algo.NewBacktracking(opts)
	start := time.Now()
	res, err := solver.Solve(ctx, inst)
	if err != nil {
		return err
	}

	stats := solver.Stats()
	log.Info("search finished",
		"status", res.Status.String(),
		"makespan", res.Makespan,
		"proven", res.Proven,
		"nodes", stats.NodesExpanded,
		"joint_actions", stats.JointActions,
		"pruned", stats.BranchesPruned,
		"elapsed", time.Since(start))

	if asAtoms, _ := cmd.Flags().GetBool("atoms"); asAtoms {
		for _, atom := range encode.Atoms(res.Plan) {
			fmt.Fprintln(os.Stderr, atom)
		}
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return encode.WriteJSON(out, encode.Document(res, opts.Horizon))
}
