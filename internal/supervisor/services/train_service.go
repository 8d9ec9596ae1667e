// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vitrina/internal/metrics"
)

// trainTimeout bounds a single training run.
const trainTimeout = 30 * time.Minute

// Trainer is the engine surface the training service needs.
type Trainer interface {
	Train(ctx context.Context) error
	ProductCount() int
}

// TrainServiceConfig holds configuration for the training service.
type TrainServiceConfig struct {
	// TrainOnStartup triggers a training run when the service starts.
	TrainOnStartup bool

	// TrainInterval is the periodic retraining cadence. 0 disables the
	// ticker, leaving retrains to the HTTP trigger.
	TrainInterval time.Duration
}

// TrainService retrains the similarity model on startup and on a schedule,
// under suture supervision. Failed runs log and wait for the next tick; the
// engine keeps serving the previous model.
type TrainService struct {
	trainer Trainer
	config  TrainServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewTrainService creates a training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainService(trainer Trainer, cfg TrainServiceConfig, logger zerolog.Logger) *TrainService {
	return &TrainService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "train").Logger(),
		name:    "train-service",
	}
}

// Serve implements suture.Service.
func (s *TrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("training service starting")

	if s.config.TrainOnStartup {
		if err := s.train(ctx, "startup"); err != nil {
			s.logger.Warn().Err(err).Msg("startup training failed (will retry on schedule)")
		}
	}

	if s.config.TrainInterval <= 0 {
		// No schedule. Park until shutdown so the supervisor does not
		// treat a completed service as a failure.
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.train(ctx, "periodic"); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled training failed")
			}
		}
	}
}

// train performs one training run with its own timeout.
func (s *TrainService) train(ctx context.Context, trigger string) error {
	trainCtx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Str("trigger", trigger).Msg("starting model training")

	err := s.trainer.Train(trainCtx)
	metrics.RecordTraining(trigger, time.Since(start), s.trainer.ProductCount(), err)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("trigger", trigger).
		Int("products", s.trainer.ProductCount()).
		Dur("duration", time.Since(start)).
		Msg("model training complete")

	return nil
}

// String returns the service name for logging.
func (s *TrainService) String() string {
	return s.name
}
