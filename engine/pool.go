package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fishwrap/score"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pool evaluates sibling moves concurrently. Every worker owns its own
// engine connection, so no connection ever sees interleaved searches.
type Pool struct {
	workers []*Evaluator
	idle    chan *Evaluator
	log     zerolog.Logger
}

func NewPool(log zerolog.Logger, workers ...*Evaluator) *Pool {
	if len(workers) == 0 {
		panic("pool needs at least one evaluator")
	}
	idle := make(chan *Evaluator, len(workers))
	for _, w := range workers {
		idle <- w
	}
	return &Pool{
		workers: workers,
		idle:    idle,
		log:     log.With().Str("component", "pool").Logger(),
	}
}

// PoolConfig describes how SpawnPool starts its engines.
type PoolConfig struct {
	Path    string
	Workers int
	Nodes   uint64
	Grace   time.Duration
	Logger  zerolog.Logger
}

// SpawnPool starts cfg.Workers engines and handshakes with each. If any of
// them fails, the ones already started are shut down again.
func SpawnPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	evaluators := make([]*Evaluator, 0, cfg.Workers)
	abort := func(err error) (*Pool, error) {
		for _, e := range evaluators {
			_ = e.Shutdown()
		}
		return nil, err
	}

	for i := 0; i < cfg.Workers; i++ {
		log := cfg.Logger.With().Int("worker", i).Logger()
		d, err := Spawn(cfg.Path, nil, WithLogger(log), WithGracePeriod(cfg.Grace))
		if err != nil {
			return abort(err)
		}
		evaluators = append(evaluators, NewEvaluator(d, cfg.Nodes, log))
		if err := d.Handshake(); err != nil {
			return abort(fmt.Errorf("engine handshake: %w", err))
		}
	}
	return NewPool(cfg.Logger, evaluators...), nil
}

func (p *Pool) Size() int {
	return len(p.workers)
}

func (p *Pool) SetInfoHandler(h InfoHandler) {
	for _, w := range p.workers {
		w.SetInfoHandler(h)
	}
}

func (p *Pool) NewGame() error {
	for _, w := range p.workers {
		if err := w.NewGame(); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown stops every worker's engine and returns the joined errors.
func (p *Pool) Shutdown() error {
	var errs []error
	for _, w := range p.workers {
		if err := w.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EvaluatePossibleMovesUnsorted scores every legal move of pos. Results are
// placed by enumeration index, so the order matches a sequential sweep.
func (p *Pool) EvaluatePossibleMovesUnsorted(pos *chess.Position) ([]score.ScoredMove, error) {
	moves := pos.ValidMoves()
	scored := make([]score.ScoredMove, len(moves))

	p.log.Debug().Int("moves", len(moves)).Int("workers", len(p.workers)).Msg("evaluating all possible moves")

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(len(p.workers))
	for i, m := range moves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w := <-p.idle
			defer func() { p.idle <- w }()

			sm, err := scoreMove(w, pos, m)
			if err != nil {
				return err
			}
			scored[i] = sm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

func (p *Pool) EvaluatePossibleMoves(pos *chess.Position) ([]score.ScoredMove, error) {
	scored, err := p.EvaluatePossibleMovesUnsorted(pos)
	if err != nil {
		return nil, err
	}
	score.Sort(scored)
	return scored, nil
}
