// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/infras/redis"
	"lodge/infras/s3"
	repository4 "lodge/internal/domains/audit/repository"
	service2 "lodge/internal/domains/audit/service"
	"lodge/internal/domains/booking/repository"
	service3 "lodge/internal/domains/booking/service"
	repository5 "lodge/internal/domains/group/repository"
	service4 "lodge/internal/domains/group/service"
	repository2 "lodge/internal/domains/guest/repository"
	repository3 "lodge/internal/domains/room/repository"
	"lodge/internal/domains/room/service"
	"lodge/internal/domains/sync/remote"
	service5 "lodge/internal/domains/sync/service"
	"lodge/internal/events"
	"lodge/internal/handlers/booking"
	"lodge/internal/handlers/group"
	"lodge/internal/handlers/report"
	"lodge/internal/handlers/sync"
	"lodge/shared/cache"
	"lodge/transport/http"
	"lodge/transport/http/middleware"
	"lodge/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryBooking := repository.New(connection, otelOtel)
	guest := repository2.New(connection, otelOtel)
	room := repository3.New(connection, otelOtel)
	roomType := repository3.NewRoomType(connection, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceRoom := service.New(room, roomType, configConfig, redisCache, otelOtel)
	auditLog := repository4.New(connection, otelOtel)
	s3S3 := s3.New(configConfig, otelOtel)
	audit := service2.New(auditLog, repositoryBooking, s3S3, configConfig, otelOtel)
	kafkaClient := kafka.New(configConfig)
	publisher := events.NewPublisher(kafkaClient, configConfig, otelOtel)
	serviceBooking := service3.New(repositoryBooking, guest, serviceRoom, audit, publisher, configConfig, redisCache, otelOtel)
	handler := booking.New(serviceBooking, otelOtel)
	groupMember := repository5.New(connection, otelOtel)
	serviceGroup := service4.New(groupMember, repositoryBooking, serviceBooking, audit, configConfig, otelOtel)
	groupHandler := group.New(serviceGroup, otelOtel)
	remoteClient := remote.New(configConfig, otelOtel)
	serviceSync := service5.New(repositoryBooking, groupMember, guest, remoteClient, audit, publisher, configConfig, otelOtel)
	syncHandler := sync.New(serviceSync, otelOtel)
	reportHandler := report.New(audit, otelOtel)
	domainHandlers := router.DomainHandlers{
		Booking: handler,
		Group:   groupHandler,
		Sync:    syncHandler,
		Report:  reportHandler,
	}
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	auth := middleware.NewAuthMiddleware(otelOtel, configConfig)
	routerRouter := router.New(domainHandlers, appMiddleware, auth)
	httpHTTP := http.New(configConfig, routerRouter)
	return httpHTTP
}

func InitializeSweeper() *service5.Sweeper {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryBooking := repository.New(connection, otelOtel)
	groupMember := repository5.New(connection, otelOtel)
	guest := repository2.New(connection, otelOtel)
	client := remote.New(configConfig, otelOtel)
	auditLog := repository4.New(connection, otelOtel)
	s3S3 := s3.New(configConfig, otelOtel)
	audit := service2.New(auditLog, repositoryBooking, s3S3, configConfig, otelOtel)
	kafkaClient := kafka.New(configConfig)
	publisher := events.NewPublisher(kafkaClient, configConfig, otelOtel)
	serviceSync := service5.New(repositoryBooking, groupMember, guest, client, audit, publisher, configConfig, otelOtel)
	sweeper := service5.NewSweeper(serviceSync, configConfig)
	return sweeper
}

// wire.go:

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, kafka.New, s3.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var eventing = wire.NewSet(events.NewPublisher)

var roomDomain = wire.NewSet(repository3.New, repository3.NewRoomType, service.New)

var guestDomain = wire.NewSet(repository2.New)

var auditDomain = wire.NewSet(repository4.New, service2.New)

var bookingDomain = wire.NewSet(repository.New, service3.New)

var groupDomain = wire.NewSet(repository5.New, service4.New)

var syncDomain = wire.NewSet(remote.New, service5.New)

var domains = wire.NewSet(
	roomDomain,
	guestDomain,
	auditDomain,
	bookingDomain,
	groupDomain,
	syncDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), booking.New, group.New, sync.New, report.New, router.New)
