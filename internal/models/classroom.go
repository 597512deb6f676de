package models

import "time"

// RoomType is the bookable class this room can serve.
type RoomType string

const (
	RoomTypeCR RoomType = "CR" // regular classroom
	RoomTypeCL RoomType = "CL" // lab
	RoomTypeTR RoomType = "TR" // tutorial room
	RoomTypeLH RoomType = "LH" // lecture hall
)

// Classroom is a bookable room of fixed type, department, and capacity.
type Classroom struct {
	ID         string    `db:"id" json:"id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	ClassType  RoomType  `db:"class_type" json:"class_type"`
	Department string    `db:"department" json:"department"`
	Capacity   int       `db:"capacity" json:"capacity"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter captures supported filters for listing classrooms.
type ClassroomFilter struct {
	ClassType  RoomType
	Department string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
