// Package sweeper completes finished stays and archives old terminal reservations.
package sweeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/s3"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/model/dto"
	"innkeep/internal/domains/reservation/repository"
	"innkeep/internal/domains/reservation/service"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/clock"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
)

const archiveContentType = constant.ContentTypeJSON

type Result struct {
	Completed int
	Archived  int
	Skipped   int
	Failed    int
}

type Sweeper struct {
	reservations service.Reservation
	repo         repository.Reservation
	archive      s3.ObjectStore
	publisher    events.Publisher
	clock        clock.Clock
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	reservations service.Reservation,
	repo repository.Reservation,
	archive s3.ObjectStore,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
	otel otel.Otel,
) *Sweeper {
	return &Sweeper{
		reservations: reservations,
		repo:         repo,
		archive:      archive,
		publisher:    publisher,
		clock:        clk,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *Sweeper) interval() time.Duration {
	if s.cfg.Sweeper.IntervalSeconds <= 0 {
		return constant.DefaultSweepInterval
	}

	return time.Duration(s.cfg.Sweeper.IntervalSeconds) * time.Second
}

func (s *Sweeper) batch() int {
	if s.cfg.Sweeper.BatchSize <= 0 {
		return constant.DefaultSweepBatchSize
	}

	return s.cfg.Sweeper.BatchSize
}

// Run sweeps once per interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if !s.cfg.Sweeper.Enable {
		log.Info().Msg("sweeper disabled")

		return
	}

	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval()).Msg("sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper stopped")

			return
		case <-ticker.C:
			res, err := s.SweepOnce(ctx)
			if err != nil {
				log.Error().Err(err).Msg("sweep failed")

				continue
			}

			log.Info().
				Int("completed", res.Completed).
				Int("archived", res.Archived).
				Int("skipped", res.Skipped).
				Int("failed", res.Failed).
				Msg("sweep finished")
		}
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) (res Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".sweeper.SweepOnce")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx = shared.WithSystemCaller(ctx)

	if err = s.complete(ctx, &res); err != nil {
		return res, err
	}

	if s.cfg.Sweeper.RetentionDays > 0 && s.archive.Enabled() {
		err = s.archiveTerminal(ctx, &res)
	}

	return res, err
}

func (s *Sweeper) page() gDto.QueryParams {
	return gDto.QueryParams{Limit: s.batch(), SortBy: model.FieldID, SortDir: gDto.SortDirAsc}
}

// each walks filter in id order one page at a time. The cursor moves past every
// listed row, so rows that keep failing do not hide the ones behind them.
func (s *Sweeper) each(ctx context.Context, filter gDto.FilterGroup, fn func(model.Reservation), columns ...string) error {
	cursor := constant.Empty

	for {
		rows, err := s.repo.GetAll(ctx, s.page(), repository.After(filter, cursor), columns...)
		if err != nil {
			return err //nolint:wrapcheck
		}

		for _, reservation := range rows {
			fn(reservation)
		}

		if len(rows) < s.batch() {
			return nil
		}

		if err = ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		cursor = rows[len(rows)-1].ID
	}
}

func (s *Sweeper) complete(ctx context.Context, res *Result) error {
	today := model.Date(s.clock.Today()).Format(constant.DayFormat)

	err := s.each(ctx, repository.Completable(today), func(reservation model.Reservation) {
		_, err := s.reservations.Complete(ctx, reservation.ID)

		switch {
		case err == nil:
			res.Completed++
		case errors.Is(err, failure.ErrConflict), errors.Is(err, failure.ErrInvalidStateTransition):
			// Changed by someone else since it was listed.
			res.Skipped++
		default:
			res.Failed++

			log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to complete reservation")
		}
	}, model.FieldID)
	if err != nil {
		return fmt.Errorf("failed to list completable reservations: %w", err)
	}

	return nil
}

func (s *Sweeper) archiveTerminal(ctx context.Context, res *Result) error {
	cutoff := s.clock.Now().AddDate(0, 0, -s.cfg.Sweeper.RetentionDays)

	err := s.each(ctx, repository.Archivable(cutoff), func(reservation model.Reservation) {
		if err := s.archiveOne(ctx, reservation); err != nil {
			res.Failed++

			log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to archive reservation")

			return
		}

		res.Archived++
	})
	if err != nil {
		return fmt.Errorf("failed to list archivable reservations: %w", err)
	}

	return nil
}

func (s *Sweeper) archiveOne(ctx context.Context, reservation model.Reservation) error {
	var doc dto.ReservationResponse
	doc.FromModel(reservation)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode reservation: %w", err)
	}

	key := ArchiveKey(reservation)

	if _, err = s.archive.Put(ctx, key, archiveContentType, data); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
		if delErr := s.archive.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to remove orphaned archive")
		}

		return fmt.Errorf("failed to delete archived reservation: %w", err)
	}

	event := events.FromReservation(events.TypeArchived, reservation, s.clock.Now())
	if err = s.publisher.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to publish archive event")
	}

	return nil
}

// ArchiveKey files a reservation under the month its stay began.
func ArchiveKey(reservation model.Reservation) string {
	return path.Join(
		constant.ArchiveFolder,
		reservation.CheckInDate.Format("2006"),
		reservation.CheckInDate.Format("01"),
		reservation.ID+".json",
	)
}
