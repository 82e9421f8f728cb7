package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/enrich"
	"github.com/wcpay/gtm-agent/internal/leadgen"
	"github.com/wcpay/gtm-agent/internal/outreach"
	"github.com/wcpay/gtm-agent/internal/store"
	anthropicpkg "github.com/wcpay/gtm-agent/pkg/anthropic"
	"github.com/wcpay/gtm-agent/pkg/apollo"
	"github.com/wcpay/gtm-agent/pkg/exa"
	"github.com/wcpay/gtm-agent/pkg/perplexity"
)

// appEnv holds the initialized store and pipeline components shared by the
// commands.
type appEnv struct {
	Store     store.Store
	Enricher  *enrich.Enricher
	Drafter   *outreach.Drafter
	Sender    *outreach.Sender
	Generator *leadgen.Generator
}

// Close releases resources held by the environment.
func (ae *appEnv) Close() {
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: GTM_STORE_DATABASE_URL is required for the postgres driver")
		}
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "sqlite":
		path := cfg.Store.DatabaseURL
		if path == "" {
			path = "gtm-agent.db"
		}
		return store.NewSQLite(path)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

// initApp sets up the store, API clients and pipeline components. Callers
// should defer env.Close().
func initApp(ctx context.Context) (*appEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("GTM_ANTHROPIC_KEY is required")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	// Search, research and verification providers degrade to nil when
	// unconfigured; enrichment runs on model knowledge alone.
	var exaClient exa.Client
	if cfg.Exa.Key != "" {
		exaClient = exa.NewClient(cfg.Exa.Key, exa.WithBaseURL(cfg.Exa.BaseURL))
	} else {
		zap.L().Warn("GTM_EXA_KEY not set, web search disabled")
	}

	var perplexityClient perplexity.Client
	if cfg.Perplexity.Key != "" {
		perplexityClient = perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
	} else {
		zap.L().Warn("GTM_PERPLEXITY_KEY not set, priorities research disabled")
	}

	var apolloClient apollo.Client
	if cfg.Apollo.Key != "" {
		apolloClient = apollo.NewClient(cfg.Apollo.Key, apollo.WithBaseURL(cfg.Apollo.BaseURL))
	} else if cfg.Enrich.VerifyContacts {
		zap.L().Warn("verify_contacts enabled but GTM_APOLLO_KEY not set, verification disabled")
	}

	var emailSender outreach.EmailSender
	if sg := outreach.NewSendGridSender(cfg.Sendgrid); sg != nil {
		emailSender = sg
	} else {
		zap.L().Warn("GTM_SENDGRID_KEY not set, email delivery stubbed")
	}

	return &appEnv{
		Store:     st,
		Enricher:  enrich.New(st, anthropicClient, exaClient, perplexityClient, apolloClient, cfg.Anthropic, cfg.Enrich),
		Drafter:   outreach.NewDrafter(st, anthropicClient, cfg.Anthropic),
		Sender:    outreach.NewSender(st, emailSender),
		Generator: leadgen.New(st, anthropicClient, exaClient, cfg.Anthropic),
	}, nil
}
