package database

import (
	"fmt"
	"os"
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase abre la conexión directa al Postgres de Supabase y aplica
// los índices de las tablas de tracking.
func SetupDatabase() (*gorm.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("falta DATABASE_URL en el ambiente")
	}

	config := &gorm.Config{
		// Las escrituras son inserciones sueltas de eventos; la transacción
		// implícita de GORM solo agrega latencia
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Error),
	}

	db, err := gorm.Open(postgres.Open(dbURL), config)
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Pool dimensionado para el tráfico del portal
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Índices de consulta del dashboard
	if err := migrations.AddIndexes(db); err != nil {
		return nil, fmt.Errorf("no se pudieron crear los índices: %w", err)
	}

	return db, nil
}
