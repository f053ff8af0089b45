package auth

import "fmt"

// GateMode selects how admin pages and endpoints are protected.
// Exactly one mode is active per deployment.
type GateMode string

const (
	// GateSession requires the session token issued at coach login
	GateSession GateMode = "session"
	// GateQueryParam requires ?password= matching the configured admin password
	GateQueryParam GateMode = "query-param"
)

// ParseGateMode validates a configured gate mode
func ParseGateMode(s string) (GateMode, error) {
	switch GateMode(s) {
	case "", GateSession:
		return GateSession, nil
	case GateQueryParam:
		return GateQueryParam, nil
	default:
		return "", fmt.Errorf("unknown admin gate %q", s)
	}
}

// AdminCredentials is whatever a request presented for admin access
type AdminCredentials struct {
	SessionToken string
	Password     string
}

// Gate decides admin access for one mode
type Gate struct {
	mode GateMode
	auth *Service
}

// NewGate creates a gate in the given mode
func NewGate(mode GateMode, auth *Service) *Gate {
	return &Gate{mode: mode, auth: auth}
}

// Mode returns the active gate mode
func (g *Gate) Mode() GateMode {
	return g.mode
}

// Authorize returns model.ErrUnauthorized unless the credentials satisfy the active mode
func (g *Gate) Authorize(creds AdminCredentials) error {
	switch g.mode {
	case GateQueryParam:
		return g.auth.CheckAdminPassword(creds.Password)
	default:
		return g.auth.ValidateAdminSession(creds.SessionToken)
	}
}
