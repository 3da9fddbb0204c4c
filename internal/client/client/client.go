package client

import (
	"context"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
)

// Timeouts bound one remote call. Zero disables the corresponding limit.
type Timeouts struct {
	// Request bounds the whole call.
	Request time.Duration
	// Connect bounds waiting for the channel to become ready.
	Connect time.Duration
}

// Client is the session/network collaborator: the authenticated exchange
// with the remote store. Every failed call leaves its status in Status.
type Client interface {
	Configure(device *models.Device)

	Login(ctx context.Context, email string, passwd []byte, useAES bool) (*models.User, error)
	Logout(ctx context.Context, user *models.User) error
	Invalidate(ctx context.Context, user *models.User) error
	SendData(ctx context.Context, user *models.User, t Timeouts) (*models.User, error)
	ChangePasswd(ctx context.Context, user *models.User, newPasswd []byte, useAES bool) (*models.User, error)
	CopyGroup(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error
	CopyField(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error
	ExportData(ctx context.Context, user *models.User, path string, useAES bool) error
	ImportData(ctx context.Context, user *models.User, path string, useAES bool) error
	Heartbeat(ctx context.Context, user *models.User) error

	IsNoNetwork() bool
	Status() common.Stat
	SetTimeout(d time.Duration)
	SetConnectTimeout(d time.Duration)
	Timeouts() Timeouts

	Close() error
}
