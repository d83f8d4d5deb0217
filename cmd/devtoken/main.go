// devtoken emite un JWT firmado con JWT_SECRET para probar la API en local.
//
// Uso: go run ./cmd/devtoken -tenant papeleria-centro -role vendedor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/papeleria-api/pkg/config"
	"github.com/jhoicas/papeleria-api/pkg/jwt"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant del token (requerido)")
	role := flag.String("role", "admin", "admin | vendedor")
	userID := flag.String("user", "", "user_id; vacío genera uno")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "uso: devtoken -tenant <id> [-role admin|vendedor] [-user <id>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.New().String()
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *tenantID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
