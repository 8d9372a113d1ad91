package model

import "time"

// ShareToken : публичная ссылка на скачивание одного файла.
// Валидность нигде не кэшируется — она вычисляется по expires_at
// и текущему состоянию файла в момент обращения
type ShareToken struct {
	Token     string    `db:"token" json:"token"`
	FileUUID  string    `db:"file_uuid" json:"file_uuid"`
	OwnerUUID string    `db:"owner_uuid" json:"owner_uuid"`
	IssuedAt  time.Time `db:"issued_at" json:"issued_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}
