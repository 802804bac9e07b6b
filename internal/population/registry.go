package population

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CalculatorFactory creates and looks up calculators by short name.
type CalculatorFactory interface {
	// Register adds a strategy under name, replacing any previous one.
	Register(name string, creator func() Strategy) error
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered names in sorted order.
	List() []string
	// GetAll returns every registered calculator keyed by name.
	GetAll() map[string]Calculator
}

// DefaultFactory is the standard CalculatorFactory. Calculators are created
// lazily and cached; strategies are stateless so one instance serves every
// query.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() Strategy
	cache    map[string]Calculator
}

// NewDefaultFactory returns a factory with the built-in strategies
// registered as "bucket", "recursive" and "parallel".
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators: make(map[string]func() Strategy),
		cache:    make(map[string]Calculator),
	}
	_ = f.Register("bucket", func() Strategy { return BucketSimulator{} })
	_ = f.Register("recursive", func() Strategy { return RecursiveStrategy{} })
	_ = f.Register("parallel", func() Strategy { return ParallelRecursive{} })
	return f
}

// Register implements CalculatorFactory.
func (f *DefaultFactory) Register(name string, creator func() Strategy) error {
	if name == "" {
		return fmt.Errorf("calculator name must not be empty")
	}
	if creator == nil {
		return fmt.Errorf("calculator %q: creator must not be nil", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.cache, name)
	return nil
}

// Get implements CalculatorFactory.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	if calc, ok := f.cache[name]; ok {
		f.mu.RUnlock()
		return calc, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.cache[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown calculator %q (available: %s)", name, strings.Join(f.listLocked(), ", "))
	}
	calc := NewCalculator(creator())
	f.cache[name] = calc
	return calc, nil
}

// List implements CalculatorFactory.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listLocked()
}

func (f *DefaultFactory) listLocked() []string {
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll implements CalculatorFactory.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	all := make(map[string]Calculator)
	for _, name := range f.List() {
		if calc, err := f.Get(name); err == nil {
			all[name] = calc
		}
	}
	return all
}
