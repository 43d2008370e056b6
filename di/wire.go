//go:build wireinject
// +build wireinject

package di

import (
	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/infras/redis"
	"lodge/infras/s3"
	"lodge/internal/events"
	"lodge/shared/cache"
	"lodge/transport/http"
	"lodge/transport/http/middleware"
	"lodge/transport/http/router"

	auditRepository "lodge/internal/domains/audit/repository"
	auditService "lodge/internal/domains/audit/service"
	bookingRepository "lodge/internal/domains/booking/repository"
	bookingService "lodge/internal/domains/booking/service"
	groupRepository "lodge/internal/domains/group/repository"
	groupService "lodge/internal/domains/group/service"
	guestRepository "lodge/internal/domains/guest/repository"
	roomRepository "lodge/internal/domains/room/repository"
	roomService "lodge/internal/domains/room/service"
	"lodge/internal/domains/sync/remote"
	syncService "lodge/internal/domains/sync/service"

	bookingHandler "lodge/internal/handlers/booking"
	groupHandler "lodge/internal/handlers/group"
	reportHandler "lodge/internal/handlers/report"
	syncHandler "lodge/internal/handlers/sync"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var eventing = wire.NewSet(
	events.NewPublisher,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomRepository.NewRoomType,
	roomService.New,
)

var guestDomain = wire.NewSet(
	guestRepository.New,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var groupDomain = wire.NewSet(
	groupRepository.New,
	groupService.New,
)

var syncDomain = wire.NewSet(
	remote.New,
	syncService.New,
)

var domains = wire.NewSet(
	roomDomain,
	guestDomain,
	auditDomain,
	bookingDomain,
	groupDomain,
	syncDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	groupHandler.New,
	syncHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeSweeper() *syncService.Sweeper {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		kafka.New,
		s3.New,
		eventing,
		guestDomain,
		auditDomain,
		bookingRepository.New,
		groupRepository.New,
		syncDomain,
		syncService.NewSweeper,
	)

	return &syncService.Sweeper{}
}
