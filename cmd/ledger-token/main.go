// Command ledger-token issues a bearer token for the ledger API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ledger/internal/access"
	"ledger/internal/auth"
	"ledger/internal/cli"
	"ledger/internal/config"
)

func main() {
	name := flag.String("name", "", "display name of the caller")
	role := flag.String("role", "investor", "caller role: admin, assistant or investor")
	investorID := flag.String("investor-id", "", "investor record the caller owns")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadConfig(func(c *config.Config) error {
		if len(c.JWTSecret) < 16 {
			return fmt.Errorf("JWT_SECRET must be set and at least 16 characters long")
		}
		return nil
	})

	r := access.ParseRole(*role)
	if r == access.RoleUnknown {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	lifetime := cfg.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}
	if lifetime < time.Minute {
		fmt.Fprintln(os.Stderr, "token lifetime must be at least one minute")
		os.Exit(2)
	}

	token, err := auth.NewTokens(cfg.JWTSecret, lifetime).Issue(access.Caller{
		Name:       *name,
		Role:       r,
		InvestorID: *investorID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
