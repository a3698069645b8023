package grpc

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/api"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

func (s *GRPCServer) userID(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}

func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return st
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*emptypb.Empty, error) {
	u, err := s.svc.Users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}
	s.logger.Info(ctx, "Registered", "username", u.UserName, "user_id", u.ID)
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *api.GetSaltRequest) (*api.GetSaltResponse, error) {
	salt, err := s.svc.Users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.fail(ctx, "get salt", err)
	}
	return &api.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	res, err := s.svc.Users.Login(ctx, req.Username, req.Verifier)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}
	return &api.LoginResponse{UserID: res.UserID, AccessToken: res.AccessToken}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) ListMedications(ctx context.Context, _ *emptypb.Empty) (*api.ListMedicationsResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	meds, err := s.svc.Medications.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list medications", err)
	}
	return &api.ListMedicationsResponse{Medications: meds}, nil
}

func (s *GRPCServer) CreateMedication(ctx context.Context, req *api.CreateMedicationRequest) (*api.MedicationResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.svc.Medications.Create(ctx, userID, req.NewMedication)
	if err != nil {
		return nil, s.fail(ctx, "create medication", err)
	}
	return &api.MedicationResponse{Medication: *m}, nil
}

func (s *GRPCServer) DeleteMedication(ctx context.Context, req *api.DeleteMedicationRequest) (*emptypb.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Medications.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.fail(ctx, "delete medication", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ListDoseLogs(ctx context.Context, req *api.ListDoseLogsRequest) (*api.ListDoseLogsResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.svc.DoseLogs.List(ctx, userID, req.MedicationIDs, req.Start, req.End)
	if err != nil {
		return nil, s.fail(ctx, "list dose logs", err)
	}
	return &api.ListDoseLogsResponse{Logs: logs}, nil
}

func (s *GRPCServer) InsertDoseLog(ctx context.Context, req *api.InsertDoseLogRequest) (*emptypb.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.svc.DoseLogs.Insert(ctx, userID, req.MedicationID, req.Date, req.Notes); err != nil {
		return nil, s.fail(ctx, "insert dose log", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetOrCreateProfile(ctx context.Context, req *api.GetOrCreateProfileRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Profiles.GetOrCreate(ctx, userID, req.DefaultName)
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}
	return &api.ProfileResponse{Profile: *p}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Profiles.Update(ctx, userID, req.ProfileUpdate)
	if err != nil {
		return nil, s.fail(ctx, "update profile", err)
	}
	return &api.ProfileResponse{Profile: *p}, nil
}

func (s *GRPCServer) ExportReport(ctx context.Context, req *api.ExportReportRequest) (*api.ExportReportResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Reports.Export(ctx, userID, req.Today, req.WindowDays)
	if err != nil {
		return nil, s.fail(ctx, "export report", err)
	}
	return &api.ExportReportResponse{Key: res.Key, URL: res.URL, ExpiresAt: res.ExpiresAt}, nil
}
