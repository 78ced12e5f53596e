package bots

import (
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Factory builds a strategy. params holds the optional settings given after
// the name in a configuration string.
type Factory func(seed uint64, params map[string]string) (Strategy, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a strategy constructible by name. Registering a name twice
// replaces the earlier factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New creates a strategy from a configuration string: the registered name,
// optionally followed by a colon and comma-separated key=value settings, e.g.
// "alphabeta:depth=4,samples=8".
func New(config string, seed uint64) (Strategy, error) {
	name, rest, _ := strings.Cut(config, ":")
	name = strings.TrimSpace(name)

	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown bot %q (known: %s)", name, strings.Join(Names(), ", "))
	}

	params := make(map[string]string)
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	s, err := f(seed, params)
	if err != nil {
		return nil, errors.Wrapf(err, "creating bot %q", name)
	}
	return s, nil
}

// budgetFromParams reads the budget settings named in keys (depth, samples,
// rollouts) on top of def. Any other key is rejected.
func budgetFromParams(params map[string]string, def Budget, keys ...string) (Budget, error) {
	b := def
	for key, value := range params {
		if !slices.Contains(keys, key) {
			return b, errors.Errorf("unknown parameter %q", key)
		}
		n, err := positiveParam(key, value)
		if err != nil {
			return b, err
		}
		switch key {
		case "depth":
			b.Depth = n
		case "samples":
			b.Samples = n
		case "rollouts":
			b.Rollouts = n
		}
	}
	return b, nil
}

func positiveParam(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, errors.Errorf("parameter %s=%q must be a positive integer", key, value)
	}
	return n, nil
}

func noParams(params map[string]string) error {
	for key := range params {
		return errors.Errorf("unknown parameter %q", key)
	}
	return nil
}

func init() {
	Register("rand", func(seed uint64, params map[string]string) (Strategy, error) {
		if err := noParams(params); err != nil {
			return nil, err
		}
		return NewRandBot(seed), nil
	})
	Register("bully", func(seed uint64, params map[string]string) (Strategy, error) {
		if err := noParams(params); err != nil {
			return nil, err
		}
		return NewBullyBot(seed), nil
	})
	Register("risktaking", func(seed uint64, params map[string]string) (Strategy, error) {
		if err := noParams(params); err != nil {
			return nil, err
		}
		return NewRiskTakingBot(seed), nil
	})
	Register("passive", func(seed uint64, params map[string]string) (Strategy, error) {
		if err := noParams(params); err != nil {
			return nil, err
		}
		return NewPassiveBot(seed), nil
	})
	Register("alphabeta", func(seed uint64, params map[string]string) (Strategy, error) {
		b, err := budgetFromParams(params, DefaultAlphaBetaBudget, "depth", "samples")
		if err != nil {
			return nil, err
		}
		return NewAlphaBetaBot(seed, b), nil
	})
	// minimax hands phase-one moves to alphabeta; depth only affects those.
	Register("minimax", func(seed uint64, params map[string]string) (Strategy, error) {
		b, err := budgetFromParams(params, Budget{Depth: DefaultAlphaBetaBudget.Depth, Samples: DefaultMiniMaxBudget.Samples}, "depth", "samples")
		if err != nil {
			return nil, err
		}
		fallback := NewAlphaBetaBot(seed^0x510e527fade682d1, b)
		return NewMiniMaxBot(seed, b).WithFallback(fallback), nil
	})
	Register("rdeep", func(seed uint64, params map[string]string) (Strategy, error) {
		tricks := 0
		if v, ok := params["tricks"]; ok {
			n, err := positiveParam("tricks", v)
			if err != nil {
				return nil, err
			}
			tricks = n
			params = maps.Clone(params)
			delete(params, "tricks")
		}
		b, err := budgetFromParams(params, DefaultRdeepBudget, "samples", "rollouts")
		if err != nil {
			return nil, err
		}
		return NewRdeepBot(seed, b).WithTricks(tricks), nil
	})
}
