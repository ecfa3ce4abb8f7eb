// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/cleaner"
	"github.com/retailops/ingress/pkg/config"
	"github.com/retailops/ingress/pkg/frame"
	"github.com/retailops/ingress/pkg/loader"
	"github.com/retailops/ingress/pkg/model"
	"github.com/retailops/ingress/pkg/report"
	"github.com/retailops/ingress/pkg/store"
)

// Stage identifies a step of the run
type Stage string

const (
	StageLoadRaw       Stage = "load_raw"
	StagePersistRaw    Stage = "persist_raw"
	StageClean         Stage = "clean"
	StagePersistIngest Stage = "persist_ingest"
	StageJoin          Stage = "join"
	StagePersistCurate Stage = "persist_curate"
	StageAggregate     Stage = "aggregate"
)

// Layer schema names. The schemas are pre-provisioned in the database.
const (
	SchemaRaw    = "raw"
	SchemaIngest = "ingest"
	SchemaCurate = "curate"

	UnifiedTable = "unified_transactions"
)

// Pipeline runs the full batch sequence: load both feeds, land them in
// raw untouched, clean them into ingest, join them into curate, then
// derive and export the summary reports. Strictly sequential; the first
// failing stage aborts the run and layers already written stay written.
type Pipeline struct {
	cfg     *config.Config
	loader  *loader.Loader
	cleaner *cleaner.Cleaner
	store   *store.Store
	runner  *report.Runner
	reports []report.Report
	logger  *zap.Logger
}

// New creates a pipeline over an open store
func New(cfg *config.Config, st *store.Store, logger *zap.Logger) (*Pipeline, error) {
	cl, err := cleaner.New(logger.Named("cleaner"))
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:     cfg,
		loader:  loader.New(logger.Named("loader")),
		cleaner: cl,
		store:   st,
		runner:  report.NewRunner(st, logger.Named("report")),
		reports: report.Definitions(cfg.Outputs),
		logger:  logger,
	}, nil
}

// Run executes one full pipeline run
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := NewResult()
	log := p.logger.With(zap.String("runID", res.RunID))
	log.Info("Starting pipeline run")

	txnSchema := model.CustomerTransactions()
	catSchema := model.ProductCatalog()

	// LOAD_RAW
	log.Info("Stage starting", zap.String("stage", string(StageLoadRaw)))
	txns, err := p.loader.Load(p.cfg.Inputs.Transactions, loader.FormatJSON)
	if err != nil {
		return res, stageErr(StageLoadRaw, err)
	}
	catalog, err := p.loader.Load(p.cfg.Inputs.Catalog, loader.FormatCSV)
	if err != nil {
		return res, stageErr(StageLoadRaw, err)
	}

	// PERSIST_RAW: the feeds land unmodified
	log.Info("Stage starting", zap.String("stage", string(StagePersistRaw)))
	if res.RawTransactions, err = p.store.Append(ctx, SchemaRaw, txnSchema.Table, txns); err != nil {
		return res, stageErr(StagePersistRaw, err)
	}
	if res.RawCatalog, err = p.store.Append(ctx, SchemaRaw, catSchema.Table, catalog); err != nil {
		return res, stageErr(StagePersistRaw, err)
	}

	// CLEAN
	log.Info("Stage starting", zap.String("stage", string(StageClean)))
	cleanTxns, stats, err := p.cleaner.Clean(txns, txnSchema)
	if err != nil {
		return res, stageErr(StageClean, err)
	}
	res.Cleaning.Add(stats)
	cleanCatalog, stats, err := p.cleaner.Clean(catalog, catSchema)
	if err != nil {
		return res, stageErr(StageClean, err)
	}
	res.Cleaning.Add(stats)

	// PERSIST_INGEST
	log.Info("Stage starting", zap.String("stage", string(StagePersistIngest)))
	if res.CleanTransactions, err = p.store.Append(ctx, SchemaIngest, txnSchema.Table, cleanTxns); err != nil {
		return res, stageErr(StagePersistIngest, err)
	}
	if res.CleanCatalog, err = p.store.Append(ctx, SchemaIngest, catSchema.Table, cleanCatalog); err != nil {
		return res, stageErr(StagePersistIngest, err)
	}

	// JOIN: inner join on product_id; both sides carry a price column,
	// disambiguated price_x (transactions) and price_y (catalog)
	log.Info("Stage starting", zap.String("stage", string(StageJoin)))
	unified, err := frame.InnerJoin(cleanTxns, cleanCatalog, "product_id", "_x", "_y")
	if err != nil {
		return res, stageErr(StageJoin, err)
	}

	// PERSIST_CURATE
	log.Info("Stage starting", zap.String("stage", string(StagePersistCurate)))
	if res.UnifiedRows, err = p.store.Append(ctx, SchemaCurate, UnifiedTable, unified); err != nil {
		return res, stageErr(StagePersistCurate, err)
	}

	// AGGREGATE: query, print, export each report
	log.Info("Stage starting", zap.String("stage", string(StageAggregate)))
	if err := p.runner.Run(ctx, p.reports); err != nil {
		return res, stageErr(StageAggregate, err)
	}
	res.ReportsExported = len(p.reports)

	res.Complete()
	log.Info("Pipeline run completed",
		zap.Int64("rawTransactions", res.RawTransactions),
		zap.Int64("rawCatalog", res.RawCatalog),
		zap.Int64("cleanTransactions", res.CleanTransactions),
		zap.Int64("cleanCatalog", res.CleanCatalog),
		zap.Int64("unifiedRows", res.UnifiedRows),
		zap.Int("duplicatesRemoved", res.Cleaning.DuplicatesRemoved),
		zap.Int("invalidDropped", res.Cleaning.InvalidDropped),
		zap.Int("reports", res.ReportsExported),
		zap.Duration("duration", res.Duration))

	return res, nil
}

// stageErr tags an error with the stage it occurred in
func stageErr(stage Stage, err error) error {
	return fmt.Errorf("stage %s: %w", stage, err)
}
