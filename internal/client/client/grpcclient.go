package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/api"
	"github.com/dmitrijs2005/medkeeper/internal/client/session"
	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

// DefaultCallTimeout bounds calls whose context carries no deadline.
const DefaultCallTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *api.MedKeeperClient
	callTimeout time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if _, ok := ctx.Deadline(); !ok && c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily. Extra options are appended to the
// defaults (insecure transport, per-call timeout).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, callTimeout: DefaultCallTimeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.timeoutInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewMedKeeperClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// authed validates s and attaches its token to ctx.
func authed(ctx context.Context, s session.Session) (context.Context, error) {
	if err := s.Valid(); err != nil {
		return nil, err
	}
	return withAccessToken(ctx, s.AccessToken), nil
}

func (c *GRPCClient) Register(ctx context.Context, username string, salt, verifier []byte) error {
	_, err := c.client.Register(ctx, &api.RegisterRequest{Username: username, Salt: salt, Verifier: verifier})
	return mapError(err)
}

func (c *GRPCClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	resp, err := c.client.GetSalt(ctx, &api.GetSaltRequest{Username: username})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Salt, nil
}

func (c *GRPCClient) Login(ctx context.Context, username string, verifier []byte) (session.Session, error) {
	resp, err := c.client.Login(ctx, &api.LoginRequest{Username: username, Verifier: verifier})
	if err != nil {
		return session.Session{}, mapError(err)
	}
	return session.Session{UserID: resp.UserID, UserName: username, AccessToken: resp.AccessToken}, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return common.ErrTransient
	}
	return nil
}

func (c *GRPCClient) ListMedications(ctx context.Context, s session.Session) ([]models.Medication, error) {
	ctx, err := authed(ctx, s)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.ListMedications(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Medications, nil
}

func (c *GRPCClient) CreateMedication(ctx context.Context, s session.Session, in models.NewMedication) (*models.Medication, error) {
	ctx, err := authed(ctx, s)
	if err != nil {
		return nil, err
	}
	in = in.Sanitized()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.client.CreateMedication(ctx, &api.CreateMedicationRequest{NewMedication: in})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Medication, nil
}

func (c *GRPCClient) DeleteMedication(ctx context.Context, s session.Session, id string) error {
	ctx, err := authed(ctx, s)
	if err != nil {
		return err
	}
	_, err = c.client.DeleteMedication(ctx, &api.DeleteMedicationRequest{ID: id})
	return mapError(err)
}

func (c *GRPCClient) ListDoseLogs(ctx context.Context, s session.Session, ids []string, start, end dates.Date) ([]models.DoseLog, error) {
	ctx, err := authed(ctx, s)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.ListDoseLogs(ctx, &api.ListDoseLogsRequest{MedicationIDs: ids, Start: start, End: end})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Logs, nil
}

func (c *GRPCClient) InsertDoseLog(ctx context.Context, s session.Session, medicationID string, day dates.Date) error {
	ctx, err := authed(ctx, s)
	if err != nil {
		return err
	}
	_, err = c.client.InsertDoseLog(ctx, &api.InsertDoseLogRequest{MedicationID: medicationID, Date: day})
	return mapError(err)
}

func (c *GRPCClient) GetOrCreateProfile(ctx context.Context, s session.Session, defaultName *string) (*models.Profile, error) {
	ctx, err := authed(ctx, s)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.GetOrCreateProfile(ctx, &api.GetOrCreateProfileRequest{
		DefaultName: common.SanitizeOptional(defaultName, common.MaxFullNameLength),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Profile, nil
}

func (c *GRPCClient) UpdateProfile(ctx context.Context, s session.Session, upd models.ProfileUpdate) (*models.Profile, error) {
	ctx, err := authed(ctx, s)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.UpdateProfile(ctx, &api.UpdateProfileRequest{ProfileUpdate: upd.Sanitized()})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.Profile, nil
}

func (c *GRPCClient) ExportReport(ctx context.Context, s session.Session, today dates.Date, windowDays int) (*ReportLink, error) {
	ctx, err := authed(ctx, s)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.ExportReport(ctx, &api.ExportReportRequest{Today: today, WindowDays: windowDays})
	if err != nil {
		return nil, mapError(err)
	}
	return &ReportLink{Key: resp.Key, URL: resp.URL, ExpiresAt: resp.ExpiresAt}, nil
}
