package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// MiB is the multiplier applied to quota ceilings configured in mebibytes.
const MiB int64 = 1024 * 1024
