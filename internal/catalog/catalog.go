// Package catalog holds the per-task energy table used by the impact calculator.
// A default table is embedded in the binary; an optional YAML file can add tasks
// or override the defaults at startup.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

//go:embed tasks.yaml
var defaultTable []byte

// Config contains task catalog settings.
type Config struct {
	File string `env:"TASK_IMPACT_FILE"`
}

type table struct {
	Tasks []domain.TaskImpact `yaml:"tasks"`
}

// InMemoryTaskCatalog stores task impacts in memory.
type InMemoryTaskCatalog struct {
	mu    sync.RWMutex
	tasks map[string]domain.TaskImpact
}

// NewInMemoryTaskCatalog creates an empty task catalog.
func NewInMemoryTaskCatalog() *InMemoryTaskCatalog {
	return &InMemoryTaskCatalog{
		mu:    sync.RWMutex{},
		tasks: make(map[string]domain.TaskImpact),
	}
}

// New creates a catalog with the embedded defaults plus the configured file, if any.
func New(cfg *Config) (*InMemoryTaskCatalog, error) {
	ctx := context.Background()
	c := NewInMemoryTaskCatalog()

	if err := Load(ctx, c, defaultTable); err != nil {
		return nil, fmt.Errorf("failed to load default task table: %w", err)
	}

	if cfg != nil && cfg.File != "" {
		if err := LoadFile(ctx, c, cfg.File); err != nil {
			return nil, err
		}
	}

	codes := c.Codes(ctx)
	observability.FromContext(ctx).Info("task catalog loaded",
		observability.Int("tasks", len(codes)),
		observability.Strings("codes", codes),
	)

	return c, nil
}

// GetTask retrieves the impact of a task code.
func (c *InMemoryTaskCatalog) GetTask(_ context.Context, code string) (domain.TaskImpact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	task, exists := c.tasks[code]
	if !exists {
		return domain.TaskImpact{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, code)
	}

	return task, nil
}

// RegisterTask adds or replaces a task.
func (c *InMemoryTaskCatalog) RegisterTask(_ context.Context, task domain.TaskImpact) error {
	if task.Code == "" {
		return errors.New("task code cannot be empty")
	}

	if task.KWhPerExecution < 0 {
		return fmt.Errorf("task %s: kwh per execution cannot be negative", task.Code)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks[task.Code] = task
	return nil
}

// Codes returns the known task codes in sorted order.
func (c *InMemoryTaskCatalog) Codes(_ context.Context) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	codes := make([]string, 0, len(c.tasks))
	for code := range c.tasks {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}

// Load registers every task of a YAML table.
func Load(ctx context.Context, c domain.TaskCatalog, data []byte) error {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("failed to parse task table: %w", err)
	}

	for _, task := range t.Tasks {
		if err := c.RegisterTask(ctx, task); err != nil {
			return fmt.Errorf("failed to register task: %w", err)
		}
	}

	return nil
}

// LoadFile registers every task of a YAML file.
func LoadFile(ctx context.Context, c domain.TaskCatalog, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read task table %s: %w", path, err)
	}

	return Load(ctx, c, data)
}
