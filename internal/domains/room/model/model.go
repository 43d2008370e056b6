package model

import "lodge/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldRoomNumber = "room_number"
	FieldRoomTypeID = "room_type_id"
	FieldStatus     = "status"
	FieldPrice      = "price"
)

const (
	RoomTypeTableName  = "room_types"
	RoomTypeEntityName = "room_type"

	RoomTypeFieldID        = "id"
	RoomTypeFieldName      = "name"
	RoomTypeFieldBasePrice = "base_price"
)

const (
	RoomStatusAvailable   = "available"
	RoomStatusMaintenance = "maintenance"
)

type Room struct {
	ID         string  `db:"id"`
	RoomNumber string  `db:"room_number"`
	RoomTypeID string  `db:"room_type_id"`
	Status     string  `db:"status"`
	Price      float64 `db:"price"`
	model.Metadata
}

type RoomType struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	BasePrice float64 `db:"base_price"`
	model.Metadata
}
