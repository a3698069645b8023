package client

import (
	"fmt"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapError turns a gRPC failure into one of the common sentinels, keeping
// the server's message for display.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", common.ErrTransient, err)
	}

	var base error
	switch st.Code() {
	case codes.InvalidArgument, codes.OutOfRange:
		base = common.ErrValidation
	case codes.Unauthenticated, codes.PermissionDenied:
		base = common.ErrUnauthorized
	case codes.AlreadyExists:
		base = common.ErrDuplicate
	case codes.NotFound:
		base = common.ErrNotFound
	default:
		base = common.ErrTransient
	}
	return fmt.Errorf("%w: %s", base, st.Message())
}
