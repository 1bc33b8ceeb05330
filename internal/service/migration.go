package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/foodtracker-migrator/internal/logger"
	"github.com/dtroode/foodtracker-migrator/internal/model"
)

// MigrationOptions are the parameters of a Migration besides its stores.
type MigrationOptions struct {
	Roster     model.Roster
	BaseOffset int64
	// Archive is optional. When set, the dataset is archived before the target is cleared.
	Archive model.SnapshotArchive
	// Metrics is optional.
	Metrics model.MigrationMetrics
}

// Migration moves one user's diary and body weights plus the global catalogue
// and settings from the source store to the target store.
type Migration struct {
	source     model.SourceStore
	target     model.TargetStore
	archive    model.SnapshotArchive
	metrics    model.MigrationMetrics
	logger     *logger.Logger
	roster     model.Roster
	baseOffset int64

	now      func() time.Time
	newRunID func() uuid.UUID
}

func NewMigration(
	source model.SourceStore,
	target model.TargetStore,
	logger *logger.Logger,
	opts MigrationOptions,
) *Migration {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Migration{
		source:     source,
		target:     target,
		archive:    opts.Archive,
		metrics:    metrics,
		logger:     logger,
		roster:     opts.Roster,
		baseOffset: opts.BaseOffset,
		now:        time.Now,
		newRunID:   uuid.New,
	}
}

type sourceData struct {
	diary     []model.SourceDiaryEntry
	weights   []model.SourceWeightEntry
	catalogue []model.CatalogueItem
	settings  []model.SettingsRecord
}

// Migrate runs read, transform, clear and write for userID. The first fatal
// error stops the run and is returned as *model.MigrationError. Nothing is
// rolled back: a failure while clearing or writing leaves the target partially
// replaced until the next successful run.
func (m *Migration) Migrate(ctx context.Context, userID int64) (model.Report, error) {
	return m.run(ctx, userID, false)
}

// Plan reads and transforms like Migrate but leaves the target untouched.
func (m *Migration) Plan(ctx context.Context, userID int64) (model.Report, error) {
	return m.run(ctx, userID, true)
}

func (m *Migration) run(ctx context.Context, userID int64, dryRun bool) (model.Report, error) {
	start := m.now()
	report := model.Report{
		RunID:  m.newRunID(),
		UserID: userID,
		DryRun: dryRun,
		State:  model.StateReading,
	}
	log := m.logger.With("run_id", report.RunID.String(), "user_id", userID)

	fail := func(err error) (model.Report, error) {
		failedAt := report.State
		report.State = model.StateFailed
		report.Duration = m.now().Sub(start)
		m.metrics.ObserveRun(model.StateFailed, failedAt, report.Duration)

		log.Error("Migration service: run failed",
			"state", failedAt,
			"error", err.Error())
		if failedAt.Destructive() {
			log.Error("Migration service: target is left partially replaced, rerun the migration after fixing the cause",
				"state", failedAt)
		}

		return report, &model.MigrationError{State: failedAt, Err: err}
	}

	log.Info("Migration service: run started", "dry_run", dryRun)

	src, err := m.read(ctx, userID)
	if err != nil {
		return fail(err)
	}
	log.Info("Migration service: source read",
		"diary", len(src.diary),
		"weights", len(src.weights),
		"catalogue", len(src.catalogue),
		"settings", len(src.settings))

	report.State = model.StateTransforming
	dataset, warnings, err := m.transform(src)
	if err != nil {
		return fail(err)
	}
	report.Diary = len(dataset.Diary)
	report.Weights = len(dataset.Weights)
	report.Catalogue = len(dataset.Catalogue)
	report.Settings = len(dataset.Settings)
	report.Warnings = warnings

	for _, w := range warnings {
		log.Warn("Migration service: transform warning", "warning", w.Error())
	}
	m.metrics.AddWarnings(len(warnings))

	if dryRun {
		return m.finish(log, report, start, model.StateTransforming), nil
	}

	if m.archive != nil {
		key, err := m.archive.Archive(ctx, model.NewSnapshot(report.RunID, userID, start, dataset))
		if err != nil {
			return fail(err)
		}
		report.SnapshotKey = key
		log.Info("Migration service: snapshot archived", "key", key)
	}

	report.State = model.StateClearing
	if err := m.clear(ctx, userID); err != nil {
		return fail(err)
	}

	report.State = model.StateWriting
	if err := m.write(ctx, dataset); err != nil {
		return fail(err)
	}

	return m.finish(log, report, start, model.StateWriting), nil
}

func (m *Migration) finish(log *logger.Logger, report model.Report, start time.Time, lastStage model.State) model.Report {
	report.State = model.StateSucceeded
	report.Duration = m.now().Sub(start)
	m.metrics.ObserveRun(model.StateSucceeded, lastStage, report.Duration)

	log.Info("Migration service: run succeeded",
		"dry_run", report.DryRun,
		"diary", report.Diary,
		"weights", report.Weights,
		"catalogue", report.Catalogue,
		"settings", report.Settings,
		"warnings", len(report.Warnings),
		"duration_ms", report.Duration.Milliseconds())

	return report
}

func (m *Migration) read(ctx context.Context, userID int64) (sourceData, error) {
	var (
		src sourceData
		err error
	)

	if src.diary, err = m.source.ReadUserDiary(ctx, userID); err != nil {
		return sourceData{}, err
	}
	if src.weights, err = m.source.ReadUserWeights(ctx, userID); err != nil {
		return sourceData{}, err
	}
	if src.catalogue, err = m.source.ReadCatalogue(ctx); err != nil {
		return sourceData{}, err
	}
	if src.settings, err = m.source.ReadSettings(ctx); err != nil {
		return sourceData{}, err
	}

	return src, nil
}

func (m *Migration) transform(src sourceData) (model.Dataset, []error, error) {
	diary, err := RekeyDiary(src.diary, m.baseOffset)
	if err != nil {
		return model.Dataset{}, nil, err
	}

	weights, err := RekeyWeights(src.weights, m.baseOffset)
	if err != nil {
		return model.Dataset{}, nil, err
	}

	ownership := GroupOwnership(src.catalogue, m.roster)
	warnings := ownership.Warnings()

	settings, settingsWarnings := ApplyOwnership(src.settings, ownership, m.roster)
	warnings = append(warnings, settingsWarnings...)

	return model.Dataset{
		Diary:     diary,
		Weights:   weights,
		Catalogue: src.catalogue,
		Settings:  settings,
	}, warnings, nil
}

func (m *Migration) clear(ctx context.Context, userID int64) error {
	steps := []func(context.Context) error{
		func(ctx context.Context) error { return m.target.ClearUserDiary(ctx, userID) },
		func(ctx context.Context) error { return m.target.ClearUserWeights(ctx, userID) },
		m.target.ClearCatalogue,
		m.target.ClearSettings,
	}

	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (m *Migration) write(ctx context.Context, dataset model.Dataset) error {
	steps := []struct {
		table string
		count int
		write func(context.Context) error
	}{
		{"foodDiary", len(dataset.Diary), func(ctx context.Context) error { return m.target.WriteDiary(ctx, dataset.Diary) }},
		{"foodBodyWeight", len(dataset.Weights), func(ctx context.Context) error { return m.target.WriteWeights(ctx, dataset.Weights) }},
		{"foodCatalogue", len(dataset.Catalogue), func(ctx context.Context) error { return m.target.WriteCatalogue(ctx, dataset.Catalogue) }},
		{"foodSettings", len(dataset.Settings), func(ctx context.Context) error { return m.target.WriteSettings(ctx, dataset.Settings) }},
	}

	for _, step := range steps {
		if err := step.write(ctx); err != nil {
			return err
		}
		m.metrics.AddRecords(step.table, step.count)
	}

	return nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveRun(model.State, model.State, time.Duration) {}
func (noopMetrics) AddRecords(string, int)                             {}
func (noopMetrics) AddWarnings(int)                                    {}
