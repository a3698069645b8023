package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Maximum lengths, in characters, of user text fields crossing the data
// access boundary.
const (
	MaxNameLength      = 200
	MaxDosageLength    = 200
	MaxFrequencyLength = 100
	MaxNotesLength     = 1000
	MaxFullNameLength  = 200
	MaxPhoneLength     = 30
)

// DefaultAdherenceWindowDays is the trailing window used by the weekly
// progress chart.
const DefaultAdherenceWindowDays = 28
