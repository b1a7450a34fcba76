package pipeline

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/glow/pkg/docs"
	"github.com/matzehuels/glow/pkg/integrations/tableau"
	"github.com/matzehuels/glow/pkg/lineage"
	"github.com/matzehuels/glow/pkg/warehouse"
)

// DatasourceSource lists and fetches BI data sources. Fetch keeps a record
// for every source and names those with incomplete metadata.
// [tableau.Connector] implements it.
type DatasourceSource interface {
	List(ctx context.Context) ([]tableau.Datasource, error)
	Fetch(ctx context.Context, sources []tableau.Datasource, refresh bool) ([]*lineage.Datasource, []string, error)
}

// UsageSource returns weekly event usage. [warehouse.Client] implements it.
type UsageSource interface {
	FetchUsage(ctx context.Context, table string, events []string) (*warehouse.Usage, error)
}

// Sources are the external systems a Runner reads from. Either may be nil
// when the corresponding run or feature is not used.
type Sources struct {
	Datasources DatasourceSource
	Usage       UsageSource
}

// Runner executes generation runs.
//
// A Runner may be shared by goroutines, but runs are serialized so that
// two runs never write the same docs tree at once.
type Runner struct {
	Sources     Sources
	Templates   *docs.Templates
	Builder     *lineage.Builder
	Logger      *log.Logger
	Concurrency int

	mu sync.Mutex
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(src Sources, templates *docs.Templates, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Sources:     src,
		Templates:   templates,
		Builder:     lineage.NewBuilder(logger),
		Logger:      logger,
		Concurrency: DefaultConcurrency,
	}
}

// start locks the runner and returns a logger tagged with a new run id.
func (r *Runner) start(kind string) (*log.Logger, string, func()) {
	r.mu.Lock()
	id := uuid.NewString()
	logger := r.Logger.With("run", id[:8])
	logger.Info("starting run", "kind", kind)
	return logger, id, r.mu.Unlock
}
