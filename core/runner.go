package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"github.com/rs/zerolog/log"
)

var (
	ErrStepLimit = errors.New("step limit reached")
	ErrCancelled = errors.New("context cancelled")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes int
	Wins              int
	Losses            int
	BoundaryLosses    int
	InvalidActions    int
	TotalSteps        int
	FinalScore        int
	Runs              uint

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// Run drives the experiment until the game is over, the context is cancelled,
// the step budget runs out or the agent fails
func (e *Experiment) Run(ctx context.Context, rConfig *RunConfig, analyzers map[string]Analyzer) *ExperimentResult {
	if rConfig == nil {
		rConfig = &RunConfig{}
	}
	writer := rConfig.Progress
	if writer == nil {
		writer = io.Discard
	}
	if analyzers == nil {
		analyzers = make(map[string]Analyzer)
	}
	return e.run(&experimentRunContext{
		ctx:       ctx,
		analyzers: analyzers,
		writer:    writer,
		RunConfig: rConfig,
	})
}

func (e *Experiment) newEpisode(ctx *experimentRunContext, episode, startStep int) *EpisodeContext {
	eCtx := NewEpisodeContext(ctx.ctx)
	eCtx.Run = ctx.run
	eCtx.Episode = episode
	eCtx.StartTimeStep = startStep
	eCtx.Game = e.Game
	eCtx.Agent = e.Agent
	return eCtx
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}

	episode := 0
	eCtx := e.newEpisode(ctx, episode, 0)
StepLoop:
	for !e.Game.GameOver() {
		select {
		case <-ctx.ctx.Done():
			result.Error = fmt.Errorf("%w: %v", ErrCancelled, ctx.ctx.Err())
			break StepLoop
		default:
		}
		if ctx.MaxSteps > 0 && result.TotalSteps >= ctx.MaxSteps {
			result.Error = ErrStepLimit
			break StepLoop
		}

		if err := e.Agent.Act(e.Game); err != nil {
			result.Error = fmt.Errorf("experiment %s: %w", e.Name, err)
			break StepLoop
		}
		t := e.Game.Last()
		result.TotalSteps++
		eCtx.Trace.AddStep(&Step{
			Transition: t,
			Score:      e.Game.Score(),
			Runs:       e.Game.Runs(),
			Board:      e.Game.World().Tiles(),
		})
		if t.Boundary {
			result.BoundaryLosses++
		}
		if t.Action == Invalid {
			result.InvalidActions++
		}
		for _, o := range e.Observers {
			o.Observe(e.Game, t)
		}
		if ctx.Pacing > 0 {
			select {
			case <-ctx.ctx.Done():
			case <-time.After(ctx.Pacing):
			}
		}

		if !t.EpisodeEnded {
			continue
		}
		if t.Result == Win {
			result.Wins++
		} else {
			result.Losses++
		}
		result.CompletedEpisodes++
		eCtx.Complete = true
		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}
		fmt.Fprintf(
			ctx.writer,
			"Experiment: %s, Run %d, Episode %d, Steps: %d, Wins: %d, Losses: %d, Boundary: %d, Score: %d\n",
			e.Name, ctx.run, episode, result.TotalSteps, result.Wins, result.Losses, result.BoundaryLosses, e.Game.Score(),
		)
		episode++
		eCtx = e.newEpisode(ctx, episode, result.TotalSteps)
	}
	if eCtx.Trace.Len() > 0 {
		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}
	}
	result.FinalScore = e.Game.Score()
	result.Runs = e.Game.Runs()

	if result.Error != nil {
		fmt.Fprintf(ctx.writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, ctx.run, result.Error)
		log.Warn().Err(result.Error).Str("experiment", e.Name).Int("run", ctx.run).Msg("experiment stopped early")
	}
	log.Debug().
		Str("experiment", e.Name).
		Int("run", ctx.run).
		Int("episodes", result.CompletedEpisodes).
		Int("wins", result.Wins).
		Int("score", result.FinalScore).
		Msg("experiment finished")

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig) {
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results := make([]*ExperimentResult, len(c.Experiments))

		// Run experiments
		for i, eConfig := range c.Experiments {
			select {
			case <-ctx.Done():
				return
			default:
			}
			eCtx := &experimentRunContext{
				run:       run,
				ctx:       ctx,
				analyzers: make(map[string]Analyzer),
				writer:    io.Discard,
				RunConfig: rConfig,
			}
			if rConfig.Progress != nil {
				eCtx.writer = rConfig.Progress
			}
			for name, aC := range c.Analyzers {
				eCtx.analyzers[name] = aC.NewAnalyzer(eConfig.Name, run)
			}

			exp, err := eConfig.Build(run)
			if err != nil {
				results[i] = &ExperimentResult{Error: err}
				continue
			}
			results[i] = exp.run(eCtx)
		}

		c.compare(run, results)
	}
}

// compare gathers datasets per analyzer and hands them to the comparators
func (c *Comparison) compare(run int, results []*ExperimentResult) {
	experimentNames := make([]string, 0, len(c.Experiments))
	datasets := make(map[string][]DataSet)
	for i, e := range c.Experiments {
		experimentNames = append(experimentNames, e.Name)
		if results[i] != nil && results[i].IsError() && results[i].Datasets == nil {
			log.Error().Err(results[i].Error).Str("experiment", e.Name).Int("run", run).Msg("failed to build experiment")
		}
		for name := range c.Analyzers {
			if results[i] == nil || results[i].Datasets == nil {
				datasets[name] = append(datasets[name], nil)
				continue
			}
			datasets[name] = append(datasets[name], results[i].Datasets[name])
		}
	}
	for name, cC := range c.Comparators {
		cC.NewComparator(run).Compare(experimentNames, datasets[name])
	}
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	index      int
	experiment *ExperimentConfig
	comp       *ParallelComparison
	runNumber  int
	writer     io.Writer
	rConfig    *RunConfig
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	index  int
	result *ExperimentResult
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, work)
		}
	}
}

// Run an experiment by constructing the experiment context, *Experiment
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		writer:    work.writer,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, work.runNumber)
	}

	// Each worker owns its game and agent
	exp, err := work.experiment.Build(work.runNumber*len(work.comp.Experiments) + work.index)
	if err != nil {
		return &parallelResult{index: work.index, result: &ExperimentResult{Error: err}}
	}

	return &parallelResult{
		index:  work.index,
		result: exp.run(eCtx),
	}
}

func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) {
	if parallelism < 1 {
		parallelism = 1
	}
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		writer := uilive.New()
		if rConfig.Progress != nil {
			writer.Out = rConfig.Progress
		}
		writer.Start()
		fmt.Fprintf(writer, "Run %d\n", run)

		workCh := make(chan *parallelWork, parallelism)
		resultsCh := make(chan *parallelResult, len(c.Experiments))

		// Start workers
		wg := new(sync.WaitGroup)
		for i := 0; i < parallelism; i++ {
			wg.Add(1)
			worker := &parallelWorker{id: i}
			go func() {
				defer wg.Done()
				worker.run(ctx, workCh, resultsCh)
			}()
		}

		// Send work to workers
		go func(run int) {
			defer close(workCh)
			for i, e := range c.Experiments {
				select {
				case <-ctx.Done():
					return
				case workCh <- &parallelWork{
					index:      i,
					experiment: e,
					comp:       c,
					runNumber:  run,
					rConfig:    rConfig,
					writer:     writer.Newline(),
				}:
				}
			}
		}(run)

		// Gather results
		results := make([]*ExperimentResult, len(c.Experiments))
		go func() {
			wg.Wait()
			close(resultsCh)
		}()
		for r := range resultsCh {
			results[r.index] = r.result
		}
		writer.Stop()

		select {
		case <-ctx.Done():
			return
		default:
		}
		c.compare(run, results)
	}
}
