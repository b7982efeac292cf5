package di

import (
	"fmt"

	"github.com/aristath/esgscreen/internal/clientdata"
	"github.com/aristath/esgscreen/internal/clients/financego"
	"github.com/aristath/esgscreen/internal/clients/yahoo"
	"github.com/aristath/esgscreen/internal/config"
	"github.com/aristath/esgscreen/internal/domain"
	"github.com/aristath/esgscreen/internal/modules/esg"
	"github.com/aristath/esgscreen/internal/modules/fundamentals"
	"github.com/aristath/esgscreen/internal/modules/screening"
	screeninghandlers "github.com/aristath/esgscreen/internal/modules/screening/handlers"
	"github.com/rs/zerolog"
)

// InitializeServices builds repositories, the market-data provider chain,
// the screening pipeline and its HTTP handlers.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	upstream, err := NewMarketDataProvider(cfg.Provider, log)
	if err != nil {
		return err
	}
	return initializeWithProvider(container, cfg, upstream, log)
}

// initializeWithProvider wires everything downstream of the raw provider.
func initializeWithProvider(container *Container, cfg *config.Config, upstream fundamentals.Provider, log zerolog.Logger) error {
	container.Upstream = upstream
	container.Provider = upstream

	if container.ClientDataDB != nil {
		container.ClientDataRepo = clientdata.NewRepository(container.ClientDataDB.Conn())
	}

	if cfg.ClientDataCache {
		if container.ClientDataRepo == nil {
			return fmt.Errorf("client data cache enabled but client_data database is not initialized")
		}
		container.CachingProvider = fundamentals.NewCachingProvider(upstream, container.ClientDataRepo, fundamentals.CachingProviderConfig{
			Table:         fundamentalsTable(fundamentals.ProviderName(upstream)),
			TTL:           cfg.FundamentalsTTL,
			StaleFallback: cfg.StaleFallback,
		}, log)
		container.Provider = container.CachingProvider
	}

	container.ESGTable = esg.Default()
	container.MemoCache = fundamentals.NewCache(cfg.MemoTTL)
	container.Fetcher = fundamentals.NewFetcher(container.Provider, container.MemoCache, log)
	container.Pipeline = screening.NewPipeline(container.ESGTable, container.Fetcher, cfg.ShortlistSize, log)

	var purger screeninghandlers.Purger
	if container.CachingProvider != nil {
		purger = container.CachingProvider
	}
	container.ScreeningHandlers = screeninghandlers.NewHandlers(container.Pipeline, purger, domain.FilterCriteria{
		MinESGScore: cfg.DefaultMinESG,
		MaxPERatio:  cfg.DefaultMaxPE,
	}, log)

	log.Info().
		Str("provider", fundamentals.ProviderName(upstream)).
		Bool("client_data_cache", cfg.ClientDataCache).
		Int("universe", container.ESGTable.Len()).
		Msg("Services initialized")

	return nil
}

// NewMarketDataProvider returns the provider client named by name.
func NewMarketDataProvider(name string, log zerolog.Logger) (fundamentals.Provider, error) {
	switch name {
	case config.ProviderYahoo:
		return yahoo.NewClient(log), nil
	case config.ProviderFinanceGo:
		return financego.NewClient(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidProvider, name)
	}
}

// fundamentalsTable keeps each provider's responses in its own table.
func fundamentalsTable(providerName string) string {
	if providerName == config.ProviderFinanceGo {
		return clientdata.TableFinanceGoFundamentals
	}
	return clientdata.TableYahooFundamentals
}
