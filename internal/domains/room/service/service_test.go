package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	roomMocks "lodge/internal/domains/room/mocks"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/service"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/failure"
)

func newService(ctrl *gomock.Controller) (service.Room, *roomMocks.MockRoom, *roomMocks.MockRoomType, *cacheMocks.MockRedisCache) {
	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockTypeRepo := roomMocks.NewMockRoomType(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockTypeRepo, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockTypeRepo, mockCache
}

func TestRoomService_ResolveRoomType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockTypeRepo, _ := newService(ctrl)

	knownTypes := []model.RoomType{
		{ID: "type-deluxe", Name: "Deluxe Double"},
		{ID: "type-standard", Name: "Standard Single"},
	}

	tests := []struct {
		name      string
		input     string
		setupMock func()
		wantErr   bool
		wantCode  int
		wantID    string
	}{
		{
			name:  "exact match",
			input: "Deluxe Double",
			setupMock: func() {
				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(knownTypes[0], nil)
			},
			wantID: "type-deluxe",
		},
		{
			name:  "mangled name repaired by prefix",
			input: "Deluxe Dbl Room",
			setupMock: func() {
				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, nil)

				mockTypeRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(knownTypes, nil)
			},
			wantID: "type-deluxe",
		},
		{
			name:  "ambiguous prefix is rejected",
			input: "Deluxe Dome",
			setupMock: func() {
				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, nil)

				mockTypeRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.RoomType{
						{ID: "type-a", Name: "Deluxe Double"},
						{ID: "type-b", Name: "Deluxe Dormer"},
					}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name:  "unknown type",
			input: "Penthouse",
			setupMock: func() {
				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, nil)

				mockTypeRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(knownTypes, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name:      "empty name",
			input:     "   ",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name:  "repository error",
			input: "Deluxe Double",
			setupMock: func() {
				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.ResolveRoomType(context.Background(), tt.input)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, result.ID)
			}
		})
	}
}

func TestRoomService_RoomsOfType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, _ := newService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantLen   int
	}{
		{
			name: "rooms returned in number order",
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Room{
						{ID: "room-1", RoomNumber: "101"},
						{ID: "room-2", RoomNumber: "102"},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RoomsOfType(context.Background(), "type-deluxe")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.wantLen)
			}
		})
	}
}

func TestRoomService_CurrentRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, mockTypeRepo, mockCache := newService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
		wantRate  float64
	}{
		{
			name: "cache miss, rate from db",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{ID: "type-deluxe", Name: "Deluxe Double", BasePrice: 150}, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantRate: 150,
		},
		{
			name: "room type not found",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.RoomType{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			rate, err := svc.CurrentRate(context.Background(), "type-deluxe")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantRate, rate)
			}
		})
	}
}
