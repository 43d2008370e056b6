package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Room=MockRoomService

import (
	"context"
	"fmt"
	"strings"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheCurrentRate = "room:rate"

	// Transcription noise from the voice channel truncates or mangles the
	// tail of room type names. The first characters survive, so a prefix of
	// this length is enough to repair a name when it lands on exactly one
	// known type.
	fuzzyPrefixLength = 8
)

type Room interface {
	ResolveRoomType(ctx context.Context, name string) (model.RoomType, error)
	RoomsOfType(ctx context.Context, roomTypeID string) ([]model.Room, error)
	CurrentRate(ctx context.Context, roomTypeID string) (float64, error)
}

type serviceImpl struct {
	repo         repository.Room
	roomTypeRepo repository.RoomType
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Room, roomTypeRepo repository.RoomType, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:         repo,
		roomTypeRepo: roomTypeRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// ResolveRoomType finds a room type by exact name first. When nothing
// matches, it retries with a prefix comparison and accepts the repair only
// when a single known type matches.
func (s *serviceImpl) ResolveRoomType(ctx context.Context, name string) (res model.RoomType, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveRoomType")
	defer scope.End()
	defer scope.TraceIfError(err)

	name = strings.TrimSpace(name)
	if name == constant.Empty {
		return res, failure.BadRequestFromString("room type is required") // nolint:wrapcheck
	}

	exact, err := s.roomTypeRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.RoomTypeFieldName,
				Value:    name,
				Operator: gDto.FilterOperatorEq,
				Table:    model.RoomTypeTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return res, fmt.Errorf("failed to get room type: %w", err)
	}

	if exact.ID != constant.Empty {
		return exact, nil
	}

	types, err := s.roomTypeRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get room types")

		return res, fmt.Errorf("failed to get room types: %w", err)
	}

	prefix := strings.ToLower(name)
	if len(prefix) > fuzzyPrefixLength {
		prefix = prefix[:fuzzyPrefixLength]
	}

	matches := []model.RoomType{}

	for _, roomType := range types {
		candidate := strings.ToLower(roomType.Name)
		if len(candidate) > fuzzyPrefixLength {
			candidate = candidate[:fuzzyPrefixLength]
		}

		if candidate == prefix {
			matches = append(matches, roomType)
		}
	}

	if len(matches) != 1 {
		log.Warn().Str("room_type", name).Int("matches", len(matches)).Msg("room type could not be resolved")

		return res, failure.NotFound("room type not found") // nolint:wrapcheck
	}

	log.Info().Str("requested", name).Str("resolved", matches[0].Name).Msg("repaired room type name by prefix")

	return matches[0], nil
}

// RoomsOfType lists rooms of a type that are in service, ordered by room
// number so assignment is deterministic.
func (s *serviceImpl) RoomsOfType(ctx context.Context, roomTypeID string) (res []model.Room, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RoomsOfType")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.GetAll(ctx,
		gDto.QueryParams{
			SortBy:  model.FieldRoomNumber,
			SortDir: "ASC",
		},
		gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldRoomTypeID,
					Value:    roomTypeID,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldStatus,
					Value:    model.RoomStatusAvailable,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		})
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms of type")

		return res, fmt.Errorf("failed to get rooms of type: %w", err)
	}

	return res, nil
}

// CurrentRate returns the base nightly rate of a room type as of now.
func (s *serviceImpl) CurrentRate(ctx context.Context, roomTypeID string) (res float64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CurrentRate")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheCurrentRate, roomTypeID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	roomType, err := s.roomTypeRepo.Get(ctx, shared.FilterByID(roomTypeID, model.RoomTypeFieldID, model.RoomTypeTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return res, fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == constant.Empty {
		return res, failure.NotFound("room type not found") // nolint:wrapcheck
	}

	res = roomType.BasePrice

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room rate to cache")
		}
	}()

	return res, nil
}
