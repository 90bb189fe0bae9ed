package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/geo_event_pump/internal/config"
	"github.com/shenikar/geo_event_pump/internal/generator"
	"github.com/shenikar/geo_event_pump/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// StreamName - поток, в который пишутся все геолокации
const StreamName = "location"

// PumpService определяет контракт генерации и отправки геолокаций
type PumpService interface {
	Submit(ctx context.Context, locations []models.Location) (time.Duration, error)
	Run(ctx context.Context, count int) (Report, error)
}

// Report - итог одного прогона
type Report struct {
	Count   int
	Elapsed time.Duration
}

// Rate возвращает пропускную способность прогона в записях в секунду
func (r Report) Rate() float64 {
	return Throughput(r.Count, r.Elapsed)
}

// Throughput считает записи в секунду; для нулевой длительности возвращает 0
func Throughput(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(count) / elapsed.Seconds()
}

type pumpService struct {
	sink      AppendSink
	generator *generator.Generator
	clock     clockwork.Clock
	logger    *logrus.Logger
	cfg       *config.Config
}

func NewPumpService(sink AppendSink, gen *generator.Generator, clock clockwork.Clock, logger *logrus.Logger, cfg *config.Config) PumpService {
	return &pumpService{
		sink:      sink,
		generator: gen,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
}

// Submit отправляет каждую геолокацию отдельным добавлением в поток.
// Все добавления идут параллельно; первая ошибка проваливает всю пачку.
func (s *pumpService) Submit(ctx context.Context, locations []models.Location) (time.Duration, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "pump",
		"method":  "Submit",
		"stream":  StreamName,
		"count":   len(locations),
	})
	log.Debug("Submitting locations")

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxInFlight > 0 {
		g.SetLimit(s.cfg.MaxInFlight)
	}

	start := s.clock.Now()
	for i := range locations {
		location := locations[i]
		g.Go(func() error {
			event, err := AsJSON(location)
			if err != nil {
				return err
			}
			if err := s.sink.Append(gctx, StreamName, models.ExpectedVersionAny, event); err != nil {
				return fmt.Errorf("append location %s: %w", location.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to submit locations")
		return 0, fmt.Errorf("service: could not submit locations: %w", err)
	}
	elapsed := s.clock.Since(start)

	log.WithField("elapsed", elapsed).Debug("Locations submitted successfully")
	return elapsed, nil
}

// Run генерирует пачку из count геолокаций и отправляет её
func (s *pumpService) Run(ctx context.Context, count int) (Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "pump",
		"method":  "Run",
		"count":   count,
	})

	locations, err := s.generator.Generate(count)
	if err != nil {
		log.WithError(err).Error("Failed to generate locations")
		return Report{}, fmt.Errorf("service: could not generate locations: %w", err)
	}

	elapsed, err := s.Submit(ctx, locations)
	if err != nil {
		return Report{}, err
	}

	report := Report{Count: len(locations), Elapsed: elapsed}
	log.WithFields(logrus.Fields{
		"elapsed": elapsed,
		"tps":     report.Rate(),
	}).Info("Pump run completed")
	return report, nil
}
