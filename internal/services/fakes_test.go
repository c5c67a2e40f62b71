package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// The fakes below stand in for the pgx-backed repositories so the service
// logic can be exercised without a live database. They enforce the same
// sentinel-error contract the real repositories do, including the partial
// unique index on open maintenance movements.

func ctxWithUser(id uint64) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, id)
}

func defaultFilter() types.Filter {
	return types.Filter{Limit: 50}
}

// fakeTxManager runs fn immediately with a nil tx; the fakes ignore the tx
// handle just as the real repositories fall back to the pool when tx is nil.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeEquipmentRepo struct {
	units map[string]*entities.Equipment
}

func newFakeEquipmentRepo(units ...entities.Equipment) *fakeEquipmentRepo {
	r := &fakeEquipmentRepo{units: make(map[string]*entities.Equipment)}
	for i := range units {
		u := units[i]
		r.units[u.Serial] = &u
	}
	return r
}

func (r *fakeEquipmentRepo) Create(ctx context.Context, equipment entities.Equipment) (*entities.Equipment, error) {
	if _, ok := r.units[equipment.Serial]; ok {
		return nil, apperrors.ErrConflict
	}
	r.units[equipment.Serial] = &equipment
	return &equipment, nil
}

func (r *fakeEquipmentRepo) FindBySerial(ctx context.Context, serial string) (*entities.Equipment, error) {
	u, ok := r.units[serial]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeEquipmentRepo) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	var out []entities.Equipment
	for _, u := range r.units {
		if !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) ListDeleted(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	var out []entities.Equipment
	for _, u := range r.units {
		if u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, serial string, changes dto.UpdateEquipmentDTO) error {
	u, ok := r.units[serial]
	if !ok || u.IsDeleted {
		return apperrors.ErrNotFound
	}
	if changes.Name.Valid {
		u.Name = changes.Name.String
	}
	if changes.Model.Valid {
		u.Model = changes.Model.String
	}
	return nil
}

func (r *fakeEquipmentRepo) SoftDelete(ctx context.Context, serial string, actor uint64, at time.Time) error {
	u, ok := r.units[serial]
	if !ok {
		return apperrors.ErrNotFound
	}
	if u.IsDeleted {
		return apperrors.ErrConflict
	}
	u.IsDeleted = true
	u.DeletedAt = &at
	u.DeletedBy = &actor
	return nil
}

func (r *fakeEquipmentRepo) Restore(ctx context.Context, serial string) error {
	u, ok := r.units[serial]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !u.IsDeleted {
		return apperrors.ErrConflict
	}
	u.IsDeleted = false
	u.DeletedAt = nil
	u.DeletedBy = nil
	return nil
}

func (r *fakeEquipmentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, serial string, estadoID uint64) error {
	u, ok := r.units[serial]
	if !ok || u.IsDeleted {
		return apperrors.ErrNotFound
	}
	u.EstadoID = estadoID
	return nil
}

func (r *fakeEquipmentRepo) UpdateLocation(ctx context.Context, tx pgx.Tx, serial string, ubicacionID, sucursalID uint64) error {
	u, ok := r.units[serial]
	if !ok || u.IsDeleted {
		return apperrors.ErrNotFound
	}
	u.UbicacionID = ubicacionID
	u.SucursalID = sucursalID
	return nil
}

func (r *fakeEquipmentRepo) ResolveSerials(ctx context.Context, serials []string) (map[string]*entities.Equipment, error) {
	out := make(map[string]*entities.Equipment)
	for _, s := range serials {
		if u, ok := r.units[s]; ok && !u.IsDeleted {
			out[s] = u
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	movements map[uint64]*entities.Movement
	nextID    uint64

	failCreateFor map[string]error
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{movements: make(map[uint64]*entities.Movement), nextID: 1}
}

func (r *fakeMovementRepo) Create(ctx context.Context, tx pgx.Tx, movement entities.Movement) (uint64, error) {
	if err, ok := r.failCreateFor[movement.EquipoSerial]; ok {
		return 0, err
	}
	// Same guarantee as the partial unique index on open maintenance rows.
	if movement.Tipo == entities.MovementTypeMaintenance && movement.Estado == entities.MovementStatusOpen {
		for _, m := range r.movements {
			if m.EquipoSerial == movement.EquipoSerial &&
				m.Tipo == entities.MovementTypeMaintenance && m.Estado == entities.MovementStatusOpen {
				return 0, apperrors.ErrConflict
			}
		}
	}
	id := r.nextID
	r.nextID++
	movement.ID = id
	r.movements[id] = &movement
	return id, nil
}

func (r *fakeMovementRepo) FindByID(ctx context.Context, id uint64) (*entities.Movement, error) {
	m, ok := r.movements[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return m, nil
}

func (r *fakeMovementRepo) FindOpenMaintenanceSerials(ctx context.Context, serials []string) ([]string, error) {
	var out []string
	for _, s := range serials {
		for _, m := range r.movements {
			if m.EquipoSerial == s && m.Tipo == entities.MovementTypeMaintenance && m.Estado == entities.MovementStatusOpen {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) CloseOpenTransfers(ctx context.Context, tx pgx.Tx, serial string, at time.Time) error {
	for _, m := range r.movements {
		if m.EquipoSerial == serial && m.Tipo == entities.MovementTypeTransfer && m.Estado == entities.MovementStatusOpen {
			m.Estado = entities.MovementStatusCompleted
			m.EndedAt = &at
		}
	}
	return nil
}

func (r *fakeMovementRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string, endedAt *time.Time, actualHours *float64) error {
	m, ok := r.movements[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.Estado = status
	m.EndedAt = endedAt
	if actualHours != nil && m.Maintenance != nil {
		m.Maintenance.ActualHours = actualHours
	}
	return nil
}

func (r *fakeMovementRepo) ListMaintenance(ctx context.Context, filter dto.MaintenanceFilter) ([]dto.MaintenanceItemDTO, uint64, error) {
	var out []dto.MaintenanceItemDTO
	for _, m := range r.movements {
		if m.Tipo != entities.MovementTypeMaintenance || m.Maintenance == nil {
			continue
		}
		if filter.Status != "" && m.Estado != filter.Status {
			continue
		}
		out = append(out, dto.MaintenanceItemDTO{
			MovementID:     m.ID,
			EquipoSerial:   m.EquipoSerial,
			Estado:         m.Estado,
			Kind:           m.Maintenance.Kind,
			Priority:       m.Maintenance.Priority,
			ScheduledDate:  m.Maintenance.ScheduledDate,
			EstimatedHours: m.Maintenance.EstimatedHours,
			ActualHours:    m.Maintenance.ActualHours,
			TechnicianID:   m.Maintenance.TechnicianID,
		})
	}
	return out, uint64(len(out)), nil
}

func (r *fakeMovementRepo) TechnicianAggregates(ctx context.Context, filter dto.MaintenanceFilter) ([]dto.TechnicianAggregateDTO, error) {
	byTech := make(map[uint64]*dto.TechnicianAggregateDTO)
	for _, m := range r.movements {
		if m.Tipo != entities.MovementTypeMaintenance || m.Maintenance == nil {
			continue
		}
		agg, ok := byTech[m.Maintenance.TechnicianID]
		if !ok {
			agg = &dto.TechnicianAggregateDTO{
				TechnicianID: m.Maintenance.TechnicianID,
				CountsByKind: make(map[string]int),
			}
			byTech[m.Maintenance.TechnicianID] = agg
		}
		agg.CountsByKind[m.Maintenance.Kind]++
		agg.TotalAssignments++
	}
	var out []dto.TechnicianAggregateDTO
	for _, agg := range byTech {
		out = append(out, *agg)
	}
	return out, nil
}

type fakeFaultRepo struct {
	faults map[uint64]*entities.Fault
	nextID uint64
}

func newFakeFaultRepo() *fakeFaultRepo {
	return &fakeFaultRepo{faults: make(map[uint64]*entities.Fault), nextID: 1}
}

func (r *fakeFaultRepo) Create(ctx context.Context, tx pgx.Tx, fault entities.Fault) (uint64, error) {
	id := r.nextID
	r.nextID++
	fault.ID = id
	r.faults[id] = &fault
	return id, nil
}

func (r *fakeFaultRepo) FindByID(ctx context.Context, id uint64) (*entities.Fault, error) {
	f, ok := r.faults[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFaultRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, fault entities.Fault) error {
	if _, ok := r.faults[id]; !ok {
		return apperrors.ErrNotFound
	}
	fault.ID = id
	r.faults[id] = &fault
	return nil
}

func (r *fakeFaultRepo) ListOpenBySerial(ctx context.Context, tx pgx.Tx, serial string) ([]entities.Fault, error) {
	var out []entities.Fault
	for _, f := range r.faults {
		if f.EquipoSerial == serial && f.IsOpen() {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFaultRepo) List(ctx context.Context, filter dto.FaultFilter) ([]entities.Fault, uint64, error) {
	var out []entities.Fault
	for _, f := range r.faults {
		if filter.Estado != "" && f.Estado != filter.Estado {
			continue
		}
		out = append(out, *f)
	}
	return out, uint64(len(out)), nil
}

type fakeCatalogRepo struct {
	statuses   map[string]uint64
	ubicacions map[uint64]*entities.Ubicacion

	seeded map[string]int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		statuses: map[string]uint64{
			entities.EquipmentStatusActive:       1,
			entities.EquipmentStatusMaintenance:  2,
			entities.EquipmentStatusFaulty:       3,
			entities.EquipmentStatusOutOfService: 4,
			entities.EquipmentStatusInactive:     5,
		},
		ubicacions: make(map[uint64]*entities.Ubicacion),
		seeded:     make(map[string]int),
	}
}

func (r *fakeCatalogRepo) addUbicacion(id, sucursalID uint64, name string) {
	r.ubicacions[id] = &entities.Ubicacion{ID: id, Name: name, SucursalID: sucursalID}
}

func (r *fakeCatalogRepo) ListEquipmentStatuses(ctx context.Context) ([]entities.EstadoEquipo, error) {
	var out []entities.EstadoEquipo
	for name, id := range r.statuses {
		out = append(out, entities.EstadoEquipo{ID: id, Name: name})
	}
	return out, nil
}

func (r *fakeCatalogRepo) ListEquipmentTypes(ctx context.Context) ([]entities.TipoEquipo, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ListMovementTypes(ctx context.Context) ([]entities.TipoMovimiento, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ListMovementStatuses(ctx context.Context) ([]entities.EstadoMovimiento, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ListUbicaciones(ctx context.Context) ([]entities.Ubicacion, error) {
	var out []entities.Ubicacion
	for _, u := range r.ubicacions {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeCatalogRepo) ListSucursales(ctx context.Context) ([]entities.Sucursal, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) FindEquipmentStatusByName(ctx context.Context, tx pgx.Tx, name string) (*entities.EstadoEquipo, error) {
	id, ok := r.statuses[name]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entities.EstadoEquipo{ID: id, Name: name}, nil
}

func (r *fakeCatalogRepo) FindUbicacion(ctx context.Context, id uint64) (*entities.Ubicacion, error) {
	u, ok := r.ubicacions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeCatalogRepo) SeedEquipmentStatus(ctx context.Context, name, description string) error {
	r.seeded["estado:"+name]++
	if _, ok := r.statuses[name]; !ok {
		r.statuses[name] = uint64(len(r.statuses) + 1)
	}
	return nil
}

func (r *fakeCatalogRepo) SeedEquipmentType(ctx context.Context, name, description string) error {
	r.seeded["tipo:"+name]++
	return nil
}

func (r *fakeCatalogRepo) SeedMovementType(ctx context.Context, code, description string) error {
	r.seeded["tipo_mov:"+code]++
	return nil
}

func (r *fakeCatalogRepo) SeedMovementStatus(ctx context.Context, code, description string) error {
	r.seeded["estado_mov:"+code]++
	return nil
}

type fakeUserRepo struct {
	users map[uint64]*entities.User
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint64]*entities.User)}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeCacheRepo struct {
	store map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string]string)}
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	return r.store[key], nil
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		r.store[key] = string(v)
	case string:
		r.store[key] = v
	}
	return nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(r.store, k)
	}
	return nil
}
