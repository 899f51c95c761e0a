package connector

import (
	"context"
	"fmt"
	"sync"
)

type standardConnector struct {
	provider Provider
	config   Config
}

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes a provider available under a name; called from provider
// init functions.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// New builds a connector for the named provider without connecting yet.
func New(name string, config Config) (Connector, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", name)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &standardConnector{provider: provider, config: config}, nil
}

func (c *standardConnector) Connect(ctx context.Context) (Connection, error) {
	return c.provider.Connect(ctx, c.config)
}

func (c *standardConnector) ConnectWithRetry(ctx context.Context, opts RetryOptions) (Connection, error) {
	return retryConnect(ctx, opts, c.Connect)
}

func (c *standardConnector) Close() error {
	return nil
}
