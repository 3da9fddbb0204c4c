package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/cryptox"
	"github.com/passy1977/pocket-web-backend/internal/filex"
	"github.com/passy1977/pocket-web-backend/internal/logging"
	pb "github.com/passy1977/pocket-web-backend/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.PocketServiceClient
	repos       *Repositories
	log         logging.Logger

	mu          sync.RWMutex
	accessToken string
	device      *models.Device
	timeouts    Timeouts
	lastStatus  common.Stat
}

var _ Client = (*GRPCClient)(nil)

func withHeaders(ctx context.Context, token, deviceID string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	if deviceID != "" {
		md.Set(common.DeviceHeaderName, deviceID)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	s.mu.RLock()
	token := s.accessToken
	var deviceID string
	if s.device != nil {
		deviceID = s.device.DeviceID
	}
	s.mu.RUnlock()

	err := invoker(withHeaders(ctx, token, deviceID), method, req, reply, cc, opts...)

	// The server rejected the token: forget it so Heartbeat fails locally
	// until the next login.
	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated &&
		st.Message() == common.ErrTokenExpired.Error() {
		s.mu.Lock()
		s.accessToken = ""
		s.mu.Unlock()
	}
	return err
}

// NewGRPCClient creates a client for endpointURL. The connection is
// established lazily on the first call.
func NewGRPCClient(endpointURL string, repos *Repositories, t Timeouts, logger logging.Logger) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		repos:       repos,
		timeouts:    t,
		log:         logging.Component(logger, "client"),
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return fmt.Errorf("failed to create grpc client: %w", err)
	}
	s.conn = conn
	s.client = pb.NewPocketServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Configure(device *models.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = device
}

func (s *GRPCClient) currentDevice() *models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.device
}

func (s *GRPCClient) setStatus(stat common.Stat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStatus = stat
}

func (s *GRPCClient) Status() common.Stat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus
}

func (s *GRPCClient) IsNoNetwork() bool {
	return s.Status() == common.StatNoNetwork
}

func (s *GRPCClient) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts.Request = d
}

func (s *GRPCClient) SetConnectTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts.Connect = d
}

func (s *GRPCClient) Timeouts() Timeouts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeouts
}

// waitReady blocks until the channel is ready or d has elapsed.
func (s *GRPCClient) waitReady(ctx context.Context, d time.Duration) error {
	if s.conn == nil || d <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	s.conn.Connect()
	for {
		state := s.conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if !s.conn.WaitForStateChange(ctx, state) {
			return ErrUnavailable
		}
	}
}

// begin prepares the context of one call.
func (s *GRPCClient) begin(ctx context.Context, t Timeouts) (context.Context, context.CancelFunc, error) {
	if err := s.waitReady(ctx, t.Connect); err != nil {
		s.setStatus(common.StatNoNetwork)
		return nil, nil, err
	}
	if t.Request > 0 {
		ctx, cancel := context.WithTimeout(ctx, t.Request)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	return ctx, cancel, nil
}

// mapError records the status of a failed call and translates it.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if stat, ok := pb.FaultStat(err); ok {
		s.setStatus(stat)
		return &RemoteError{Stat: stat, Msg: status.Convert(err).Message()}
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		s.setStatus(common.StatError)
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		s.setStatus(common.StatNoNetwork)
		return ErrUnavailable
	default:
		s.setStatus(common.StatError)
		return fmt.Errorf("rpc error: %w", err)
	}
}

// passwd returns the digest of p as sent to the server: SHA-512 hex, sealed
// with the device secret when useAES is set.
func (s *GRPCClient) passwd(p []byte, useAES bool) (string, error) {
	digest := cryptox.SHA512Hex(p)
	if !useAES {
		return digest, nil
	}
	a, err := s.deviceAES()
	if err != nil {
		return "", err
	}
	return a.EncryptString(digest), nil
}

func (s *GRPCClient) deviceAES() (*cryptox.AES, error) {
	d := s.currentDevice()
	if d == nil || d.Secret == "" {
		s.setStatus(common.StatSecretEmpty)
		return nil, ErrNotConfigured
	}
	a, err := cryptox.NewAESFromSecret(d.Secret, []byte(d.DeviceID))
	if err != nil {
		s.setStatus(common.StatError)
		return nil, err
	}
	return a, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, passwd []byte, useAES bool) (*models.User, error) {
	digest, err := s.passwd(passwd, useAES)
	if err != nil {
		return nil, err
	}
	req := &pb.LoginRequest{Email: email, Passwd: digest, UseAES: useAES}
	if d := s.currentDevice(); d != nil {
		req.DeviceID = d.DeviceID
	}

	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.User == nil {
		s.setStatus(common.StatUserNotFound)
		return nil, &RemoteError{Stat: common.StatUserNotFound}
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()

	u := UserFromProto(resp.User)
	u.Password = append([]byte(nil), passwd...)
	s.setStatus(common.StatOK)
	s.log.Info(ctx, "logged in", "user", u.Email)
	return u, nil
}

func (s *GRPCClient) deviceRequest() *pb.DeviceRequest {
	req := &pb.DeviceRequest{}
	if d := s.currentDevice(); d != nil {
		req.DeviceID = d.DeviceID
	}
	return req
}

func (s *GRPCClient) Logout(ctx context.Context, user *models.User) error {
	return s.endSession(ctx, user, s.client.Logout)
}

func (s *GRPCClient) Invalidate(ctx context.Context, user *models.User) error {
	return s.endSession(ctx, user, s.client.Invalidate)
}

func (s *GRPCClient) endSession(ctx context.Context, user *models.User,
	call func(context.Context, *pb.DeviceRequest, ...grpc.CallOption) (*pb.Empty, error)) error {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return common.ErrNoUser
	}
	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := call(ctx, s.deviceRequest()); err != nil {
		return s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
	s.setStatus(common.StatOK)
	return nil
}

// SendData pushes every unsynchronized row together with user and applies
// the server answer to the local store. It returns the server copy of the
// user.
func (s *GRPCClient) SendData(ctx context.Context, user *models.User, t Timeouts) (*models.User, error) {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return nil, common.ErrNoUser
	}

	req, err := collect(ctx, s.repos, user)
	if err != nil {
		s.setStatus(common.StatDBGenericError)
		return nil, fmt.Errorf("failed to collect local changes: %w", err)
	}

	callCtx, cancel, err := s.begin(ctx, t)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := s.client.SendData(callCtx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.User == nil {
		s.setStatus(common.StatUserNotFound)
		return nil, &RemoteError{Stat: common.StatUserNotFound}
	}

	err = s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		return reconcile(ctx, tx, resp)
	})
	if errors.Is(err, errMapID) {
		s.setStatus(common.StatMapIDError)
		return nil, err
	}
	if err != nil {
		s.setStatus(common.StatDBGenericError)
		return nil, fmt.Errorf("failed to reconcile server data: %w", err)
	}

	u := UserFromProto(resp.User)
	u.Password = append([]byte(nil), user.Password...)
	s.setStatus(common.StatOK)
	s.log.Debug(ctx, "data sent",
		"groups", len(req.Groups), "group_fields", len(req.GroupFields), "fields", len(req.Fields),
		"timestamp_last_update", u.TimestampLastUpdate)
	return u, nil
}

func (s *GRPCClient) ChangePasswd(ctx context.Context, user *models.User, newPasswd []byte, useAES bool) (*models.User, error) {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return nil, common.ErrNoUser
	}
	oldDigest, err := s.passwd(user.Password, useAES)
	if err != nil {
		return nil, err
	}
	newDigest, err := s.passwd(newPasswd, useAES)
	if err != nil {
		return nil, err
	}

	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := s.client.ChangePasswd(ctx, &pb.ChangePasswdRequest{
		Email: user.Email, Passwd: oldDigest, NewPasswd: newDigest, UseAES: useAES,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.User == nil {
		s.setStatus(common.StatUserNotFound)
		return nil, &RemoteError{Stat: common.StatUserNotFound}
	}

	u := UserFromProto(resp.User)
	u.Password = append([]byte(nil), newPasswd...)
	s.setStatus(common.StatOK)
	return u, nil
}

// CopyGroup copies (or moves) the local group srcID under the local group
// dstID on the server. Both must already be synchronized.
func (s *GRPCClient) CopyGroup(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error {
	src, err := s.serverGroupID(ctx, srcID)
	if err != nil {
		return err
	}
	dst, err := s.serverGroupID(ctx, dstID)
	if err != nil {
		return err
	}
	return s.copy(ctx, user, s.client.CopyGroup, &pb.CopyRequest{SrcID: src, DstID: dst, Move: move})
}

// CopyField copies (or moves) the local field srcID into the local group dstID.
func (s *GRPCClient) CopyField(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error {
	f, err := s.repos.Fields.Get(ctx, srcID)
	if err != nil || f.ServerID == 0 {
		s.setStatus(common.StatMapIDError)
		return fmt.Errorf("%w: field %d", errMapID, srcID)
	}
	dst, err := s.serverGroupID(ctx, dstID)
	if err != nil {
		return err
	}
	return s.copy(ctx, user, s.client.CopyField, &pb.CopyRequest{SrcID: f.ServerID, DstID: dst, Move: move})
}

// serverGroupID maps a local group id; 0 is the top level on both sides.
func (s *GRPCClient) serverGroupID(ctx context.Context, id int64) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	g, err := s.repos.Groups.Get(ctx, id)
	if err != nil || g.ServerID == 0 {
		s.setStatus(common.StatMapIDError)
		return 0, fmt.Errorf("%w: group %d", errMapID, id)
	}
	return g.ServerID, nil
}

func (s *GRPCClient) copy(ctx context.Context, user *models.User,
	call func(context.Context, *pb.CopyRequest, ...grpc.CallOption) (*pb.Empty, error), req *pb.CopyRequest) error {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return common.ErrNoUser
	}
	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := call(ctx, req); err != nil {
		return s.mapError(err)
	}
	s.setStatus(common.StatOK)
	return nil
}

// ExportData writes the server archive of the user to path, sealed with the
// device secret when useAES is set.
func (s *GRPCClient) ExportData(ctx context.Context, user *models.User, path string, useAES bool) error {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return common.ErrNoUser
	}
	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := s.client.ExportData(ctx, &pb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	data := resp.Data
	if useAES {
		a, err := s.deviceAES()
		if err != nil {
			return err
		}
		data = a.Seal(data)
	}
	if err := filex.WriteFileAtomic(path, data); err != nil {
		s.setStatus(common.StatError)
		return err
	}
	s.setStatus(common.StatOK)
	return nil
}

func (s *GRPCClient) ImportData(ctx context.Context, user *models.User, path string, useAES bool) error {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return common.ErrNoUser
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.setStatus(common.StatError)
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if useAES {
		a, err := s.deviceAES()
		if err != nil {
			return err
		}
		if data, err = a.Open(data); err != nil {
			s.setStatus(common.StatSecretNotMatch)
			return err
		}
	}

	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := s.client.ImportData(ctx, &pb.ImportDataRequest{Data: data}); err != nil {
		return s.mapError(err)
	}
	s.setStatus(common.StatOK)
	return nil
}

// Heartbeat checks that the session is still valid and that no other device
// changed the data. An expired token fails without a network call; a newer
// server timestamp is reported as TIMESTAMP_LAST_UPDATE_NOT_MATCH.
func (s *GRPCClient) Heartbeat(ctx context.Context, user *models.User) error {
	if user == nil {
		s.setStatus(common.StatUserNotFound)
		return common.ErrNoUser
	}
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()
	if tokenExpired(token, time.Now()) {
		s.setStatus(common.StatError)
		return common.ErrTokenExpired
	}

	ctx, cancel, err := s.begin(ctx, s.Timeouts())
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := s.client.Heartbeat(ctx, &pb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.TimestampLastUpdate != user.TimestampLastUpdate {
		s.setStatus(common.StatTimestampLastUpdateNotMatch)
		return &RemoteError{Stat: common.StatTimestampLastUpdateNotMatch}
	}
	s.setStatus(common.StatOK)
	return nil
}
