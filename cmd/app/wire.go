//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/trip-planner/internal/bootstrap"
	"github.com/yanqian/trip-planner/internal/domain/auth"
	"github.com/yanqian/trip-planner/internal/domain/budget"
	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/infra/config"
	httpiface "github.com/yanqian/trip-planner/internal/interface/http"
	"github.com/yanqian/trip-planner/pkg/logger"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRegistry,
		provideGuards,
		provideQueryCache,
		provideWeatherCache,
		provideUserRepository,
		provideTripRepository,
		provideGoogleClient,
		provideBookingClient,
		provideOpenMeteoClient,
		provideChatGPTClient,
		catalog.LoadDataset,
		provideCatalogService,
		provideRouteService,
		provideBudgetConfig,
		budget.NewService,
		provideRecommendService,
		provideScheduler,
		provideItineraryService,
		provideWeatherService,
		provideAssistantService,
		provideAuthConfig,
		auth.NewService,
		provideRateLimiter,
		wire.Struct(new(httpiface.Services), "*"),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
