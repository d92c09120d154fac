// seed_admin aplica el esquema (internal/infrastructure/postgres/migrations) y crea el
// primer usuario administrador para poder hacer login.
//
// Uso: go run ./cmd/seed_admin [username] [password]
// Sin argumentos usa ADMIN_USERNAME / ADMIN_PASSWORD del entorno.
// El esquema es idempotente; si el usuario ya existe no hace nada.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-admin/pkg/config"
)

func main() {
	username, password := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")
	if len(os.Args) > 2 {
		username, password = os.Args[1], os.Args[2]
	}
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Uso: seed_admin <username> <password> (o ADMIN_USERNAME / ADMIN_PASSWORD)")
		fmt.Fprintln(os.Stderr, "Aplica migrations/001_init.sql sobre la base de DATABASE_URL o DB_* antes de crear el administrador.")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Aplicar esquema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Esquema aplicado")

	users := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	out, err := users.Create(ctx, dto.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     entity.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		fmt.Printf("El usuario %q ya existe, nada que hacer\n", username)
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Administrador %q creado (id %d)\n", out.Username, out.ID)
}
