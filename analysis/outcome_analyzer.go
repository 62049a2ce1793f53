package analysis

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/zeu5/cheese-rl/core"
	"github.com/zeu5/cheese-rl/util"
)

type outcomeDataset struct {
	Outcomes []string
	Steps    []int
	Boundary []int
	Scores   []int
	// WinRate is the fraction of episodes won so far, one entry per episode
	WinRate []float64
}

func (o *outcomeDataset) Copy() *outcomeDataset {
	return &outcomeDataset{
		Outcomes: util.CopyStringSlice(o.Outcomes),
		Steps:    util.CopyIntSlice(o.Steps),
		Boundary: util.CopyIntSlice(o.Boundary),
		Scores:   util.CopyIntSlice(o.Scores),
		WinRate:  util.CopyFloatSlice(o.WinRate),
	}
}

func newOutcomeDataset() *outcomeDataset {
	return &outcomeDataset{
		Outcomes: make([]string, 0),
		Steps:    make([]int, 0),
		Boundary: make([]int, 0),
		Scores:   make([]int, 0),
		WinRate:  make([]float64, 0),
	}
}

// OutcomeAnalyzer records how every completed episode ended
type OutcomeAnalyzer struct {
	wins    int
	dataset *outcomeDataset
}

var _ core.Analyzer = &OutcomeAnalyzer{}

func NewOutcomeAnalyzer() *OutcomeAnalyzer {
	return &OutcomeAnalyzer{
		dataset: newOutcomeDataset(),
	}
}

func (o *OutcomeAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	if !eCtx.Complete {
		return
	}
	outcome := trace.Outcome()
	if outcome == core.Win {
		o.wins++
	}
	o.dataset.Outcomes = append(o.dataset.Outcomes, outcome.String())
	o.dataset.Steps = append(o.dataset.Steps, trace.Len())
	o.dataset.Boundary = append(o.dataset.Boundary, trace.BoundaryHits())
	o.dataset.Scores = append(o.dataset.Scores, trace.Last().Score)
	o.dataset.WinRate = append(o.dataset.WinRate, float64(o.wins)/float64(len(o.dataset.Outcomes)))
}

func (o *OutcomeAnalyzer) DataSet() core.DataSet {
	return o.dataset.Copy()
}

func (o *OutcomeAnalyzer) Reset() {
	o.wins = 0
	o.dataset = newOutcomeDataset()
}

type OutcomeAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &OutcomeAnalyzerConstructor{}

func NewOutcomeAnalyzerConstructor() *OutcomeAnalyzerConstructor {
	return &OutcomeAnalyzerConstructor{}
}

func (*OutcomeAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewOutcomeAnalyzer()
}

// OutcomeSummary is the per experiment summary written by the comparator
type OutcomeSummary struct {
	Episodes     int
	Wins         int
	WinRate      float64
	MeanSteps    float64
	StdDevSteps  float64
	BoundaryHits int
	FinalScore   int
}

func summarize(d *outcomeDataset) OutcomeSummary {
	s := OutcomeSummary{Episodes: len(d.Outcomes)}
	if s.Episodes == 0 {
		return s
	}
	for i, o := range d.Outcomes {
		if o == core.Win.String() {
			s.Wins++
		}
		s.BoundaryHits += d.Boundary[i]
	}
	s.WinRate = float64(s.Wins) / float64(s.Episodes)
	s.MeanSteps, s.StdDevSteps = stat.MeanStdDev(util.IntsToFloats(d.Steps), nil)
	s.FinalScore = d.Scores[len(d.Scores)-1]
	return s
}

// OutcomeComparator writes a json summary and a win rate chart per run
type OutcomeComparator struct {
	savePath string
}

var _ core.Comparator = &OutcomeComparator{}

func NewOutcomeComparator(savePath string) *OutcomeComparator {
	return &OutcomeComparator{
		savePath: savePath,
	}
}

func (c *OutcomeComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	summaries := make(map[string]OutcomeSummary)
	series := make(map[string]*outcomeDataset)
	for i, name := range experimentNames {
		d, ok := datasets[i].(*outcomeDataset)
		if !ok || d == nil {
			continue
		}
		s := summarize(d)
		summaries[name] = s
		series[name] = d
		log.Info().
			Str("experiment", name).
			Int("episodes", s.Episodes).
			Float64("win_rate", s.WinRate).
			Float64("mean_steps", s.MeanSteps).
			Msg("outcomes")
	}

	if err := util.SaveJson(path.Join(c.savePath, "outcomes.json"), summaries); err != nil {
		log.Error().Err(err).Str("path", c.savePath).Msg("failed to save outcomes")
	}
	if err := c.plot(experimentNames, series); err != nil {
		log.Error().Err(err).Str("path", c.savePath).Msg("failed to plot outcomes")
	}
}

func (c *OutcomeComparator) plot(experimentNames []string, series map[string]*outcomeDataset) error {
	episodes := 0
	for _, d := range series {
		if len(d.WinRate) > episodes {
			episodes = len(d.WinRate)
		}
	}
	if episodes == 0 {
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Win rate per episode",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "win rate"}),
	)

	xs := make([]string, episodes)
	for i := range xs {
		xs[i] = strconv.Itoa(i + 1)
	}
	line = line.SetXAxis(xs)
	for _, name := range experimentNames {
		d, ok := series[name]
		if !ok {
			continue
		}
		items := make([]opts.LineData, 0, len(d.WinRate))
		for _, v := range d.WinRate {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(name, items)
	}

	if err := os.MkdirAll(c.savePath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path.Join(c.savePath, "outcomes.html"))
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(f)
}

type OutcomeComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &OutcomeComparatorConstructor{}

func NewOutcomeComparatorConstructor(savePath string) *OutcomeComparatorConstructor {
	return &OutcomeComparatorConstructor{
		savePath: savePath,
	}
}

func (c *OutcomeComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewOutcomeComparator(path.Join(c.savePath, strconv.Itoa(run)))
}
