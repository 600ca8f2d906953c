// Command tune fits the gesture interpreter and status thresholds to a
// labeled landmark recording with CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/landmark"
)

// EvalRow is one line of tune_log.csv.
type EvalRow struct {
	Eval             int     `csv:"eval"`
	Fitness          float64 `csv:"fitness"`
	Accuracy         float64 `csv:"accuracy"`
	ClosedOffset     float64 `csv:"closed_offset"`
	ClosedSpan       float64 `csv:"closed_span"`
	SpreadPalms      float64 `csv:"spread_palms"`
	ClosedThreshold  float64 `csv:"closed_threshold"`
	TensionThreshold float64 `csv:"tension_threshold"`
}

func newEvalRow(eval int, fitness, accuracy float64, v []float64) EvalRow {
	return EvalRow{
		Eval:             eval,
		Fitness:          fitness,
		Accuracy:         accuracy,
		ClosedOffset:     v[0],
		ClosedSpan:       v[1],
		SpreadPalms:      v[2],
		ClosedThreshold:  v[3],
		TensionThreshold: v[4],
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	recording := flag.String("recording", "", "Labeled landmark CSV")
	maxEvals := flag.Int("max-evals", 300, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *recording == "" || *outputDir == "" {
		log.Fatal("--recording and --output are required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	frames, err := landmark.LoadFrames(*recording)
	if err != nil {
		log.Fatalf("failed to load recording: %v", err)
	}

	params := NewParamVector()
	evaluator, err := NewFitnessEvaluator(params, baseCfg.Gesture, frames)
	if err != nil {
		log.Fatalf("bad recording: %v", err)
	}

	initial := params.Values(baseCfg)
	baseline := evaluator.Evaluate(initial)
	fmt.Printf("Baseline: fitness=%.4f accuracy=%.1f%% over %d labeled frames\n",
		baseline, evaluator.LastAccuracy()*100, evaluator.Frames())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}

	rows := make([]EvalRow, 0, *maxEvals)
	bestFitness := baseline
	bestParams := params.Clamp(initial)
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			rows = append(rows, newEvalRow(len(rows)+1, fitness, evaluator.LastAccuracy(), raw))
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
				fmt.Printf("Eval %d: fitness=%.4f accuracy=%.1f%%\n", len(rows), fitness, evaluator.LastAccuracy()*100)
			}
			return fitness
		},
	}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.2, Population: popSize}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, *maxEvals)
	if _, err := optimize.Minimize(problem, params.Normalize(initial), settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	fmt.Printf("\nTuning complete after %d evaluations in %s\n", len(rows), time.Since(startTime).Round(time.Millisecond))

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	if f, err := os.Create(logPath); err != nil {
		log.Printf("failed to create log: %v", err)
	} else {
		if err := gocsv.Marshal(rows, f); err != nil {
			log.Printf("failed to write log: %v", err)
		}
		f.Close()
	}

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Path, bestParams[i])
	}

	params.Apply(baseCfg, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOutPath); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
