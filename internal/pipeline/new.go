package pipeline

import (
	"sync"

	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/generator"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/internal/metrics"
	"github.com/nguyentantai21042004/notebolt/internal/session"
	"github.com/nguyentantai21042004/notebolt/internal/transcriber"
)

type implPipeline struct {
	cfg         *config.Config
	transcriber transcriber.Transcriber
	generator   generator.Generator
	session     *session.State
	metrics     *metrics.Metrics
	logger      logger.Logger
	sem         *semaphore

	mu     sync.Mutex
	params generator.Params
}

// New creates a Pipeline with a fresh session. Generation params start at
// the configured temperature and top_p.
func New(cfg *config.Config, tr transcriber.Transcriber, gen generator.Generator, m *metrics.Metrics, log logger.Logger) Pipeline {
	return &implPipeline{
		cfg:         cfg,
		transcriber: tr,
		generator:   gen,
		session:     session.New(),
		metrics:     m,
		logger:      log,
		sem:         newSemaphore(1),
		params: generator.Params{
			Temperature: cfg.Generator.Temperature,
			TopP:        cfg.Generator.TopP,
		},
	}
}
