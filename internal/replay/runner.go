package replay

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/kickout/pkg/logger"
)

// Run generates a match, submits it to the board and verifies the board's
// predictions. It returns ErrMismatch when any check disagrees.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	if cfg.Kickouts < 1 || len(cfg.Calls) == 0 || len(cfg.Setups) == 0 {
		return nil, fmt.Errorf("%w: need kickouts, calls and setups", ErrInvalidConfig)
	}
	if cfg.Bias < 0 || cfg.Bias > 1 {
		return nil, fmt.Errorf("%w: bias %v outside [0,1]", ErrInvalidConfig, cfg.Bias)
	}

	stats := &Stats{StartTime: time.Now()}
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	log := logger.Get()

	log.Info(ctx, "starting replay",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("kickouts", cfg.Kickouts),
		logger.Int64("seed", int64(cfg.Seed)),
		logger.Float64("rate", cfg.Rate))

	if err := client.Health(ctx); err != nil {
		return nil, err
	}
	if err := prepareBoard(ctx, client, cfg.Clear); err != nil {
		return nil, err
	}
	board, err := client.Setups(ctx)
	if err != nil {
		return nil, err
	}

	// A board that restricts setups rejects anything else.
	setups := cfg.Setups
	if len(board.Setups) > 0 {
		setups = board.Setups
	}
	kickouts := NewGenerator(cfg.Seed, cfg.Calls, setups, cfg.Bias, board.PlayerCount).Generate(cfg.Kickouts)
	stats.Generated = len(kickouts)

	submitted, err := submit(ctx, client, newLimiter(cfg.Rate), kickouts, stats)
	if err != nil {
		return stats, err
	}

	records, err := client.Log(ctx)
	if err != nil {
		return stats, err
	}
	stats.Mismatches = append(stats.Mismatches, VerifyLog(records, submitted)...)

	for _, p := range Pairs(kickouts) {
		res, err := client.Prediction(ctx, p[0], p[1])
		if err != nil {
			return stats, err
		}
		stats.Checked++
		stats.Mismatches = append(stats.Mismatches, VerifyPrediction(records, p[0], p[1], res)...)
		log.Debug(ctx, "prediction checked",
			logger.String("call", p[0]), logger.String("setup", p[1]), logger.String("text", res.Text))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "replay finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("checked", stats.Checked),
		logger.Int("mismatches", len(stats.Mismatches)),
		logger.String("duration", stats.Duration.String()))

	if len(stats.Mismatches) > 0 {
		for _, m := range stats.Mismatches {
			log.Warn(ctx, "mismatch", logger.String("detail", m.String()))
		}
		return stats, fmt.Errorf("%w: %d differences", ErrMismatch, len(stats.Mismatches))
	}
	return stats, nil
}

// prepareBoard optionally clears the board and makes sure it is in the
// first half so submitted zones are stored as generated.
func prepareBoard(ctx context.Context, client *Client, reset bool) error {
	if reset {
		if _, err := client.Clear(ctx); err != nil {
			return err
		}
	}
	state, err := client.State(ctx)
	if err != nil {
		return err
	}
	if state.SecondHalf {
		if _, err := client.ToggleHalf(ctx); err != nil {
			return err
		}
	}
	return nil
}

func submit(ctx context.Context, client *Client, limiter *rate.Limiter, kickouts []Kickout, stats *Stats) ([]Kickout, error) {
	submitted := make([]Kickout, 0, len(kickouts))
	for _, k := range kickouts {
		if err := limiter.Wait(ctx); err != nil {
			return submitted, fmt.Errorf("replay interrupted: %w", err)
		}
		res, err := client.Submit(ctx, k)
		stats.Submitted++
		switch {
		case err != nil:
			stats.Rejected++
			logger.Get().Warn(ctx, "kickout rejected", logger.String("call", k.Call), logger.Error(err))
		case res.Duplicate:
			stats.Duplicate++
		default:
			submitted = append(submitted, k)
		}
	}
	return submitted, nil
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
