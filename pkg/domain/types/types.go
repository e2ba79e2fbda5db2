package types

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/slipway-ci/slipway/pkg/domain/types.Version=...".
var Version = "v0.0.0-dev"

// AppName is the service identifier used in health responses and logs.
const AppName = "slipway"
