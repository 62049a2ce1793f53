package analysis

import (
	"fmt"
	"os"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/zeu5/cheese-rl/core"
)

type PrintDebugAnalyzer struct {
	// savePath is the path to save the trace
	savePath string
	exp      string
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func NewPrintDebugAnalyzer(savePath, exp string, threshold int) *PrintDebugAnalyzer {
	// create a traces directory under save path if not exists
	dir := path.Join(savePath, "traces")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error().Err(err).Str("path", dir).Msg("failed to create traces directory")
	}
	return &PrintDebugAnalyzer{
		savePath:         dir,
		exp:              exp,
		thresholdEpisode: threshold,
	}
}

func (a *PrintDebugAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	out := fmt.Sprintf("Episode %d, complete: %t, starting at step %d\n%s",
		ctx.Episode, ctx.Complete, ctx.StartTimeStep, traceToString(trace))
	if err := os.WriteFile(path.Join(a.savePath, fileName), []byte(out), 0644); err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("failed to write trace")
	}
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {}

type PrintDebugAnalyzerConstructor struct {
	savePath  string
	threshold int
}

var _ core.AnalyzerConstructor = &PrintDebugAnalyzerConstructor{}

func NewPrintDebugAnalyzerConstructor(savePath string, threshold int) *PrintDebugAnalyzerConstructor {
	return &PrintDebugAnalyzerConstructor{
		savePath:  savePath,
		threshold: threshold,
	}
}

func (p *PrintDebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return NewPrintDebugAnalyzer(p.savePath, exp, p.threshold)
}
