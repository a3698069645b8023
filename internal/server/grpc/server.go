// Package grpc exposes the server services as the medkeeper.v1.MedKeeper
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/medkeeper/internal/api"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
	"github.com/dmitrijs2005/medkeeper/internal/models"
	"github.com/dmitrijs2005/medkeeper/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (*services.LoginResult, error)
}

type MedicationService interface {
	List(ctx context.Context, userID string) ([]models.Medication, error)
	Create(ctx context.Context, userID string, in models.NewMedication) (*models.Medication, error)
	Delete(ctx context.Context, userID, id string) error
}

type DoseLogService interface {
	List(ctx context.Context, userID string, medicationIDs []string, start, end dates.Date) ([]models.DoseLog, error)
	Insert(ctx context.Context, userID, medicationID string, day dates.Date, notes *string) (*models.DoseLog, error)
}

type ProfileService interface {
	GetOrCreate(ctx context.Context, userID string, defaultName *string) (*models.Profile, error)
	Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
}

type ReportService interface {
	Export(ctx context.Context, userID string, today dates.Date, windowDays int) (*services.ExportResult, error)
}

// Services bundles the backends the gRPC handlers delegate to.
type Services struct {
	Users       UserService
	Medications MedicationService
	DoseLogs    DoseLogService
	Profiles    ProfileService
	Reports     ReportService
}

type GRPCServer struct {
	address   string
	svc       Services
	logger    logging.Logger
	jwtSecret []byte
}

var _ api.MedKeeperServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		svc:       svc,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a grpc.Server with the logging and access token
// interceptors and the MedKeeper service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterMedKeeperServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
