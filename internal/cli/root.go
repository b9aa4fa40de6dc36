package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cnclabs/harp/internal/coarsening"
	"github.com/cnclabs/harp/internal/config"
	"github.com/cnclabs/harp/internal/models"
	"github.com/cnclabs/harp/internal/pipeline"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Execute runs the harp command with args.
func Execute(args []string, out, errOut io.Writer) error {
	cmd := NewRootCommand(out, errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// NewRootCommand returns the harp command. Training progress goes to out,
// logs go to errOut and the environment is read from the process.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	return newRootCommand(out, errOut, os.LookupEnv, nil)
}

// newRootCommand builds the command with an injectable environment and
// embedding backend; a nil embedder selects the coarsening backend.
func newRootCommand(out, errOut io.Writer, lookupEnv func(string) (string, bool), embedder models.Embedder) *cobra.Command {
	defaults := config.DefaultOptions()
	var (
		flagOpts   config.Options
		configPath string
		envFile    string
		logLevel   string
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "harp",
		Short: "Hierarchical representation learning for networks",
		Long: `harp learns low-dimensional vertex embeddings by coarsening a graph into a
hierarchy of smaller graphs, embedding the coarsest one first and refining
the embedding level by level with DeepWalk, node2vec or LINE.`,
		Example:       "  harp --format edgelist --input net.edges --model deepwalk --workers 2 --output emb.mat",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(errOut, logLevel, logFormat)
			if err != nil {
				return err
			}

			opts := config.DefaultOptions()
			if configPath != "" {
				if err := config.LoadFile(configPath, &opts); err != nil {
					return err
				}
				logger.Debug("Loaded config file", "path", configPath)
			}

			lookup := lookupEnv
			if envFile != "" {
				vars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("env file: %w", err)
				}
				lookup = withFallback(lookupEnv, vars)
			}
			if err := config.ApplyEnv(&opts, lookup); err != nil {
				return err
			}

			var setErr error
			cmd.Flags().Visit(func(f *pflag.Flag) {
				if setErr == nil && slices.Contains(config.Keys, f.Name) {
					setErr = opts.Set(f.Name, f.Value.String())
				}
			})
			if setErr != nil {
				return setErr
			}

			cfg, err := config.Resolve(opts)
			if err != nil {
				return err
			}

			backend := embedder
			if backend == nil {
				backend = &coarsening.Embedder{Progress: out}
			}
			_, err = (&pipeline.Pipeline{Logger: logger, Embedder: backend}).Run(cfg)
			return err
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	f := cmd.Flags()
	f.StringVar(&flagOpts.Format, "format", defaults.Format, "File format of the input graph: mat, adjlist or edgelist")
	f.StringVar(&flagOpts.Input, "input", "", "Input graph file (required)")
	f.StringVar(&flagOpts.SFDPPath, "sfdp-path", defaults.SFDPPath, "Path to the SFDP layout binary")
	f.StringVar(&flagOpts.Model, "model", defaults.Model, "Embedding model: deepwalk, node2vec or line")
	f.StringVar(&flagOpts.MatVariable, "matfile-variable-name", defaults.MatVariable, "Variable name of the adjacency matrix inside a .mat file")
	f.IntVar(&flagOpts.NumberWalks, "number-walks", defaults.NumberWalks, "Number of random walks to start at each node")
	f.StringVar(&flagOpts.Output, "output", "", "Output embedding file, .mat or .npy (required)")
	f.IntVar(&flagOpts.RepresentationSize, "representation-size", defaults.RepresentationSize, "Number of latent dimensions to learn for each node")
	f.IntVar(&flagOpts.WalkLength, "walk-length", defaults.WalkLength, "Length of the random walk started at each node")
	f.IntVar(&flagOpts.WindowSize, "window-size", defaults.WindowSize, "Window size of the skip-gram model")
	f.IntVar(&flagOpts.Workers, "workers", defaults.Workers, "Number of parallel workers, -1 for every CPU")
	f.StringVar(&configPath, "config", "", "YAML file with option defaults")
	f.StringVar(&envFile, "env-file", "", "Dotenv file with HARP_* variables")
	f.StringVar(&logLevel, "log-level", "info", "Logging level: debug, info, warn or error")
	f.StringVar(&logFormat, "log-format", "text", "Log output format: text or json")
	f.SortFlags = false

	cmd.AddCommand(newModelsCommand(out))
	return cmd
}

// withFallback looks names up in primary first and then in vars, so the
// process environment wins over a dotenv file.
func withFallback(primary func(string) (string, bool), vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := primary(name); ok {
			return v, true
		}
		v, ok := vars[name]
		return v, ok
	}
}

func newModelsCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Print the hyperparameters of every model",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, m := range models.Models {
				b, err := models.Lookup(m)
				if err != nil {
					return err
				}
				doc, err := b.YAML()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "# %s\n%s", m, doc)
			}
			return nil
		},
	}
}
