package cli

import (
	"github.com/specialistvlad/algoharness/internal/app"
	"github.com/spf13/cobra"
)

func trainCmd(r *runner) *cobra.Command {
	var (
		dryRun bool
		rank   int
	)

	c := &cobra.Command{
		Use:   "train [MODEL_FILENAME...]",
		Short: "Train a model, optionally from previously saved models",
		Long: `Train a model on the Opener's data. Each MODEL_FILENAME names a previously
saved model in the model directory; the models are passed to the Algo in the
given order. The trained model and its prediction are written to the model and
prediction directories.`,
		Args: usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rankPtr *int
			if cmd.Flags().Changed("rank") {
				rankPtr = &rank
			}

			return r.withApp(cmd, func(a *app.App) error {
				al, err := a.ResolveAlgo(cmd.Context(), r.algo)
				if err != nil {
					return err
				}
				res, err := a.Train(cmd.Context(), al, args, dryRun, rankPtr)
				if err != nil {
					return err
				}
				printResult(r.stdout, res)
				return nil
			})
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "Use the Opener's fake data instead of the real dataset.")
	c.Flags().IntVar(&rank, "rank", 0, "Rank passed to the Algo. Defaults to the next rank of the run ledger, or 0.")
	return c
}

func predictCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "predict MODEL_FILENAME",
		Short: "Predict with a previously saved model",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				al, err := a.ResolveAlgo(cmd.Context(), r.algo)
				if err != nil {
					return err
				}
				res, err := a.Predict(cmd.Context(), al, args[0])
				if err != nil {
					return err
				}
				printResult(r.stdout, res)
				return nil
			})
		},
	}
}

func historyCmd(r *runner) *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				runs, err := a.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				printHistory(r.stdout, runs)
				return nil
			})
		},
	}

	c.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list; 0 lists all.")
	return c
}
