package proto

import (
	"github.com/passy1977/pocket-web-backend/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func codeFor(stat common.Stat) codes.Code {
	switch stat {
	case common.StatUserNotFound, common.StatDeviceNotFound, common.StatCacheNotFound:
		return codes.NotFound
	case common.StatPasswdError, common.StatSecretNotMatch, common.StatWrongSizeToken, common.StatSecretEmpty:
		return codes.Unauthenticated
	case common.StatDeviceIDNotMatch, common.StatLocalDeviceIDNotMatch:
		return codes.PermissionDenied
	case common.StatTimestampLastUpdateNotMatch, common.StatTimestampLastNotParsable:
		return codes.FailedPrecondition
	case common.StatJSONParsingError:
		return codes.InvalidArgument
	case common.StatNoNetwork:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// FaultError builds a status error carrying stat as an Int32Value detail.
func FaultError(stat common.Stat, msg string) error {
	st := status.New(codeFor(stat), msg)
	if detailed, err := st.WithDetails(wrapperspb.Int32(int32(stat))); err == nil {
		st = detailed
	}
	return st.Err()
}

// FaultStat extracts the status code attached by FaultError.
func FaultStat(err error) (common.Stat, bool) {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return 0, false
	}
	for _, d := range st.Details() {
		if v, ok := d.(*wrapperspb.Int32Value); ok {
			return common.Stat(v.GetValue()), true
		}
	}
	return 0, false
}
