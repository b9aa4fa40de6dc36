// Package pipeline runs one embedding job: ingest the graph, resolve the
// worker count, train the selected model and save the embeddings.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/cnclabs/harp/internal/config"
	"github.com/cnclabs/harp/internal/ingest"
	"github.com/cnclabs/harp/internal/models"
	"github.com/cnclabs/harp/internal/output"
	"github.com/cnclabs/harp/internal/parallel"
)

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Logger *slog.Logger
	// AvailableCPUs is the host capacity; zero means parallel.Available().
	AvailableCPUs int
	Embedder      models.Embedder
}

// Result describes a finished run.
type Result struct {
	Model    models.Model
	Vertices int
	Edges    int
	Workers  int
	Rows     int
	Cols     int
	// Path is the file written, which may differ from the configured output.
	Path string
}

// Run executes every stage in order and stops at the first error. Nothing
// is written unless every stage before saving succeeds.
func (p *Pipeline) Run(cfg config.Config) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	available := p.AvailableCPUs
	if available <= 0 {
		available = parallel.Available()
	}

	// Both names are checked before the input file is touched.
	format, err := ingest.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	model, err := models.Parse(cfg.Model)
	if err != nil {
		return nil, err
	}

	g, err := ingest.Load(cfg.Input, format, cfg.MatVariable)
	if err != nil {
		return nil, err
	}
	logger.Info("Number of nodes", "count", g.NumVertices())
	logger.Info("Number of edges", "count", g.NumEdges())

	workers, err := parallel.ResolveWorkers(cfg.Workers, available)
	if err != nil {
		return nil, err
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		if b, err := models.Lookup(model); err == nil {
			if doc, err := b.YAML(); err == nil {
				logger.Debug("Hyperparameters", "model", model, "bundle", string(doc))
			}
		}
	}
	logger.Info("Training", "model", model, "workers", workers, "dimension", cfg.RepresentationSize)

	embs, err := models.BuildAndRun(string(model), g, cfg, workers, p.Embedder)
	if err != nil {
		return nil, err
	}

	path, err := output.Save(embs, cfg.Output)
	if err != nil {
		return nil, err
	}
	rows, cols := embs.Dims()
	logger.Info("Saved embeddings", "path", path, "rows", rows, "cols", cols)

	return &Result{
		Model:    model,
		Vertices: g.NumVertices(),
		Edges:    g.NumEdges(),
		Workers:  workers,
		Rows:     rows,
		Cols:     cols,
		Path:     path,
	}, nil
}
