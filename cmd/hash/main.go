// Command hash prints the bcrypt hash the credential service would store for a password,
// using BCRYPT_COST from the environment.
package main

import (
	"fmt"
	"os"

	"github.com/andrasnagy-data/credentials/internal/shared/config"
	"github.com/andrasnagy-data/credentials/internal/shared/password"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/hash <password>")
		os.Exit(1)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	hash, err := password.NewHasherFromConfig(cfg).Hash(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
	fmt.Printf("\nSeed a user with:\n")
	fmt.Printf("INSERT INTO users (email, password_hash) VALUES ('<email>', '%s');\n", hash)
}
