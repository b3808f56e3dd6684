package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"registration-service/internal/config"
	"registration-service/internal/security"
)

// admintoken prints an access token for calling the admin endpoints.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	username := flag.String("username", "admin", "Username recorded in the token")
	roles := flag.String("roles", security.RoleAdmin, "Comma separated roles")
	ttl := flag.Duration("ttl", 0, "Token lifetime (defaults to jwt.access_token_expiry_minutes)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.AccessTokenTTL()
	}

	token, err := security.NewTokenManager(cfg.JWT.Secret).GenerateAccessToken(*username, splitRoles(*roles), lifetime)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}

func splitRoles(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
