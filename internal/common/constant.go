// Package common contains shared constants, status codes and sentinel errors
// used across the pocket client packages.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "pocket-access-token"

// DeviceHeaderName carries the device uuid next to the access token.
const DeviceHeaderName = "pocket-device"
