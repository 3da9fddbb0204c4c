package models

import "github.com/google/uuid"

// Device is the configuration issued by the server when a device is
// registered. It is kept locally as a blob encrypted with the user password.
type Device struct {
	DeviceID          string `json:"uuid" validate:"required,uuid"`
	Host              string `json:"host" validate:"required"`
	Secret            string `json:"secret" validate:"required"`
	TimestampCreation int64  `json:"timestamp_creation"`
}

// NewDevice returns a device with a freshly generated uuid.
func NewDevice(host, secret string) *Device {
	return &Device{DeviceID: uuid.NewString(), Host: host, Secret: secret}
}
