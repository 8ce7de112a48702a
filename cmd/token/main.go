// Comando token: emite un JWT firmado para consumir la API (uso local y pruebas).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/activacion-real/pkg/config"
	"github.com/jhoicas/activacion-real/pkg/jwt"
)

func main() {
	subject := pflag.String("subject", "", "sujeto del token (usuario o servicio)")
	role := pflag.String("role", "analyst", "rol: admin | analyst")
	ttl := pflag.Int("ttl", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "--subject es requerido")
		os.Exit(2)
	}
	minutes := *ttl
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *subject, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
