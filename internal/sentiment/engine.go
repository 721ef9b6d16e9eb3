package sentiment

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/tubesense/internal/apperrors"
)

const (
	MODEL_NAME        = "cardiffnlp/twitter-roberta-base-sentiment"
	DEFAULT_MODEL_DIR = "./models"
)

// RawResult is one backend classification before label translation.
type RawResult struct {
	Label string
	Score float64
}

// Inferencer is the narrow slice of the engine the analyzers use. It exists
// so analyzer logic can be exercised without an ONNX runtime.
type Inferencer interface {
	Infer(texts []string) ([]RawResult, error)
}

// Engine owns the process-wide hugot session and classification pipeline.
// Model loading is expensive, so exactly one engine is built per process and
// shared by every analyzer; reinitialization only happens through ReloadEngine.
type Engine struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

var (
	engineInstance *Engine
	engineErr      error
	engineOnce     sync.Once
	engineMu       sync.Mutex
)

// GetEngine returns the shared engine, building it on first use.
func GetEngine() (*Engine, error) {
	engineOnce.Do(func() {
		engineInstance, engineErr = newEngine()
	})
	return engineInstance, engineErr
}

// ReloadEngine tears down the shared engine and builds a fresh one. This is
// the only way to force reinitialization.
func ReloadEngine() (*Engine, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engineInstance != nil {
		engineInstance.Destroy()
	}
	engineInstance, engineErr = newEngine()
	return engineInstance, engineErr
}

func newEngine() (*Engine, error) {
	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = DEFAULT_MODEL_DIR
	}

	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, apperrors.ModelLoadFailure(MODEL_NAME, fmt.Errorf("failed to create model directory: %w", err))
	}

	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		slog.Info("[SentimentEngine] Downloading model, this may take a while on first run...",
			slog.String("model", MODEL_NAME))
		downloaded, err := hugot.DownloadModel(MODEL_NAME, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			slog.Error("[SentimentEngine] Model download failed",
				slog.String("error", err.Error()))
			return nil, apperrors.ModelLoadFailure(MODEL_NAME, err)
		}
		modelPath = downloaded
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, apperrors.ModelLoadFailure(MODEL_NAME, err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, apperrors.ModelLoadFailure(MODEL_NAME, err)
	}

	slog.Info("[SentimentEngine] Model loaded",
		slog.String("model", MODEL_NAME),
		slog.String("path", modelPath))

	return &Engine{session: session, pipeline: pipeline}, nil
}

// Infer runs the classification pipeline over texts. Position i of the output
// corresponds to texts[i].
func (e *Engine) Infer(texts []string) ([]RawResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	output, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, apperrors.InferenceFailure(err)
	}

	outputs := output.GetOutput()
	if len(outputs) != len(texts) {
		return nil, apperrors.InferenceFailure(
			fmt.Errorf("pipeline returned %d results for %d inputs", len(outputs), len(texts)))
	}

	results := make([]RawResult, 0, len(outputs))
	for _, raw := range outputs {
		classifications, ok := raw.([]pipelines.ClassificationOutput)
		if !ok || len(classifications) == 0 {
			return nil, apperrors.InferenceFailure(
				fmt.Errorf("unexpected pipeline output type %T", raw))
		}
		best := classifications[0]
		for _, c := range classifications[1:] {
			if c.Score > best.Score {
				best = c
			}
		}
		results = append(results, RawResult{
			Label: best.Label,
			Score: float64(best.Score),
		})
	}
	return results, nil
}

func (e *Engine) Destroy() {
	if e.session != nil {
		e.session.Destroy()
	}
}
