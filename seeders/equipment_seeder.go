package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var demoEquipment = []struct {
	serial    string
	name      string
	model     string
	tipo      string
	ubicacion string
}{
	{"CAM-2024-0001", "Camara Entrada Principal", "Hikvision DS-2CD2143", "Camara", "Recepcion"},
	{"CAM-2024-0002", "Camara Bodega", "Hikvision DS-2CD2143", "Camara", "Bodega Central"},
	{"SEN-2024-0001", "Sensor Puerta Cajas", "Bosch ISC-BDL2", "Sensor", "Area de Cajas"},
	{"NVR-2024-0001", "Grabador Central", "Dahua NVR5216", "Grabador", "Oficina TI"},
	{"ACC-2024-0001", "Lectora Acceso TI", "HID Signo 40", "Control de Acceso", "Oficina TI"},
}

// seedDemoEquipment needs the catalog bootstrap (tipos_equipo and
// estados_equipo) and the branch seeder to have run first.
func seedDemoEquipment(ctx context.Context, db *pgxpool.Pool) error {
	var estadoID uint64
	if err := db.QueryRow(ctx, `SELECT id FROM estados_equipo WHERE name = 'Activo'`).Scan(&estadoID); err != nil {
		return fmt.Errorf("estado 'Activo' not found, run the catalog bootstrap first: %w", err)
	}

	for _, e := range demoEquipment {
		var tipoID uint64
		if err := db.QueryRow(ctx, `SELECT id FROM tipos_equipo WHERE name = $1`, e.tipo).Scan(&tipoID); err != nil {
			return fmt.Errorf("tipo %q not found: %w", e.tipo, err)
		}

		var ubicacionID, sucursalID uint64
		if err := db.QueryRow(ctx, `SELECT id, sucursal_id FROM ubicaciones WHERE name = $1`, e.ubicacion).Scan(&ubicacionID, &sucursalID); err != nil {
			return fmt.Errorf("ubicacion %q not found: %w", e.ubicacion, err)
		}

		_, err := db.Exec(ctx, `
			INSERT INTO equipos (serial, name, model, tipo_id, estado_id, ubicacion_id, sucursal_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			ON CONFLICT (serial) DO NOTHING`,
			e.serial, e.name, e.model, tipoID, estadoID, ubicacionID, sucursalID)
		if err != nil {
			return fmt.Errorf("insert equipo %q: %w", e.serial, err)
		}
	}
	return nil
}
