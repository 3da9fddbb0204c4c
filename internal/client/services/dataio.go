package services

import (
	"context"
	"os"

	"github.com/passy1977/pocket-web-backend/internal/client/backup"
	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/client/syncer"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

// DataService moves the whole vault of a user in and out of an archive file.
//
// Contract:
//   - Export: write the server-side archive to path, then upload it when a
//     backup uploader is configured. Returns the uploaded object key.
//   - Import: load the archive at path into the server and push the local
//     state right after. The import status is reported even when the push
//     fails; the push status is returned separately.
type DataService interface {
	Export(ctx context.Context, sess *session.Session, path string) (string, common.Stat)
	Import(ctx context.Context, sess *session.Session, path string) (importStat, pushStat common.Stat)
}

type dataService struct {
	client   client.Client
	uploader backup.Uploader
	useAES   bool
	logger   logging.Logger
	log      logging.Logger
}

// NewDataService constructs a DataService. uploader may be nil.
func NewDataService(c client.Client, uploader backup.Uploader, useAES bool, logger logging.Logger) DataService {
	return &dataService{
		client:   c,
		uploader: uploader,
		useAES:   useAES,
		logger:   logger,
		log:      logging.Component(logger, "dataio"),
	}
}

func (d *dataService) failure() common.Stat {
	if st := d.client.Status(); !st.IsSuccess() {
		return st
	}
	return common.StatError
}

func (d *dataService) Export(ctx context.Context, sess *session.Session, path string) (string, common.Stat) {
	user := sess.User()
	if user == nil {
		return "", common.StatUserNotFound
	}
	defer user.Wipe()

	if err := d.client.ExportData(ctx, user, path, d.useAES); err != nil {
		d.log.Warn(ctx, "export failed", "error", err)
		return "", d.failure()
	}
	if d.uploader == nil {
		return "", common.StatOK
	}

	data, err := os.ReadFile(path)
	if err != nil {
		d.log.Error(ctx, "archive reading failed", "path", path, "error", err)
		return "", common.StatError
	}
	key, err := d.uploader.Upload(ctx, user.Email, data)
	if err != nil {
		d.log.Error(ctx, "backup upload failed", "error", err)
		return "", common.StatError
	}
	d.log.Info(ctx, "backup uploaded", "key", key)
	return key, common.StatOK
}

func (d *dataService) Import(ctx context.Context, sess *session.Session, path string) (common.Stat, common.Stat) {
	user := sess.User()
	if user == nil {
		return common.StatUserNotFound, common.StatUserNotFound
	}
	defer user.Wipe()

	if err := d.client.ImportData(ctx, user, path, d.useAES); err != nil {
		d.log.Warn(ctx, "import failed", "error", err)
		return d.failure(), common.StatReady
	}

	push := syncer.New(sess, d.client, d.client.Timeouts(), d.logger).SyncWithTimeouts(ctx, 0, 0)
	if !push.IsSuccess() {
		d.log.Warn(ctx, "push after import failed", "status", push.String())
	}
	return common.StatOK, push
}
