// Command hash-generator prints the bcrypt hash to configure as
// auth.admin_token_hash for a token guarding the internal routes.
//
// Usage:
//
//	hash-generator -token <token>
//	hash-generator -generate
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gradaid/gradaid-api/internal/service/auth"
)

func main() {
	token := flag.String("token", "", "admin token to hash (at least 16 characters)")
	generate := flag.Bool("generate", false, "generate a random admin token and print it with its hash")
	flag.Parse()

	if err := run(os.Stdout, *token, *generate, rand.Reader); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, token string, generate bool, random io.Reader) error {
	if generate {
		buf := make([]byte, 32)
		if _, err := io.ReadFull(random, buf); err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		token = base64.RawURLEncoding.EncodeToString(buf)
	}
	if token == "" {
		return fmt.Errorf("either -token or -generate is required")
	}

	hash, err := auth.HashAdminToken(token)
	if err != nil {
		return err
	}

	if generate {
		fmt.Fprintf(out, "Token: %s\n", token)
	}
	fmt.Fprintf(out, "Hash: %s\n", hash)
	return nil
}
