package model

import "time"

type Collection struct {
	UUID      string     `db:"uuid" json:"uuid"`
	OwnerUUID string     `db:"owner_uuid" json:"owner_uuid"`
	Name      string     `db:"name" json:"name"`
	State     string     `db:"state" json:"state"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
