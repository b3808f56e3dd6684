package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAdmin                       // Access token with the admin role
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"Health":                    SecurityPublic,
	"SubmitRegistrationRequest": SecurityPublic,
	"ListRegistrationRequests":  SecurityAdmin,
	"GetRegistrationRequest":    SecurityAdmin,
	"ReviewRegistrationRequest": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
