package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// ReservationFilter narrows a date-range listing.
type ReservationFilter struct {
	From time.Time // inclusive calendar date
	To   time.Time // inclusive calendar date

	// Statuses restricts the result to these statuses. Empty means all.
	Statuses []domain.Status

	ExcludeCancelled bool
}

// ReservationRepo defines the persistence operations for Reservations.
// Every read is expanded: boat, driver, guide, agent name and passengers come
// back in the same query.
type ReservationRepo interface {
	// Create inserts a reservation with its passengers in one transaction and
	// returns the expanded record.
	Create(ctx context.Context, r domain.Reservation) (domain.Reservation, error)

	// GetByID returns domain.ErrNotFound if no reservation with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Reservation, error)

	// List returns reservations whose tour date falls in the filter's range,
	// ordered by date, start time and id.
	List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error)

	// Update applies the non-nil fields of p and returns the expanded record.
	// A non-nil p.Passengers replaces the passenger list in the same transaction.
	// Returns domain.ErrNotFound if the reservation does not exist and an error
	// wrapping domain.ErrPersistence if the write is rejected.
	Update(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error)
}

type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db connection.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

// expandedSelect joins every relation a reservation card needs. Assignment ids
// have no foreign key, so a deleted boat or staff member joins as NULL.
const expandedSelect = `
	SELECT r.id, r.tour_name, r.tour_date, r.start_time, r.pax_count, r.status,
	       r.boat_id, r.driver_id, r.guide_id, r.agent_id,
	       r.total_amount::float8, r.paid_amount::float8,
	       r.emergency_contact_name, r.emergency_contact_phone,
	       r.custom_stops, r.meal_schedules, r.notes, r.created_at, r.updated_at,
	       b.id, b.name, b.capacity, b.status,
	       d.id, d.name, d.role, d.phone, d.active,
	       g.id, g.name, g.role, g.phone, g.active,
	       COALESCE(a.full_name, ''),
	       COALESCE(p.passengers, '[]'::json)
	FROM reservations r
	LEFT JOIN boats b ON b.id = r.boat_id
	LEFT JOIN staff d ON d.id = r.driver_id
	LEFT JOIN staff g ON g.id = r.guide_id
	LEFT JOIN agents a ON a.id = r.agent_id
	LEFT JOIN LATERAL (
		SELECT json_agg(json_build_object(
		           'full_name', rp.full_name,
		           'age', rp.age,
		           'id_document', rp.id_document,
		           'meals', rp.meals
		       ) ORDER BY rp.position, rp.id) AS passengers
		FROM reservation_passengers rp
		WHERE rp.reservation_id = r.id
	) p ON true`

func (r *pgReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	meals, err := json.Marshal(nonNil(res.MealSchedules))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Create: marshal meals: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Reservation{}, writeErr("repo.ReservationRepo.Create: begin", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		INSERT INTO reservations (
			tour_name, tour_date, start_time, pax_count, status,
			boat_id, driver_id, guide_id, agent_id,
			total_amount, paid_amount,
			emergency_contact_name, emergency_contact_phone,
			custom_stops, meal_schedules, notes
		) VALUES (
			@tour_name, @tour_date, @start_time, @pax_count, @status,
			@boat_id, @driver_id, @guide_id, @agent_id,
			@total_amount, @paid_amount,
			@emergency_contact_name, @emergency_contact_phone,
			@custom_stops, @meal_schedules, @notes
		)
		RETURNING id`

	var id int64
	err = tx.QueryRow(ctx, q, pgx.NamedArgs{
		"tour_name":               res.TourName,
		"tour_date":               domain.DateOnly(res.TourDate),
		"start_time":              res.StartTime,
		"pax_count":               res.PaxCount,
		"status":                  string(res.Status),
		"boat_id":                 res.BoatID,
		"driver_id":               res.DriverID,
		"guide_id":                res.GuideID,
		"agent_id":                res.AgentID,
		"total_amount":            res.TotalAmount,
		"paid_amount":             res.PaidAmount,
		"emergency_contact_name":  res.EmergencyContactName,
		"emergency_contact_phone": res.EmergencyContactPhone,
		"custom_stops":            nonNil(res.CustomStops),
		"meal_schedules":          meals,
		"notes":                   res.Notes,
	}).Scan(&id)
	if err != nil {
		return domain.Reservation{}, writeErr("repo.ReservationRepo.Create", err)
	}

	if len(res.Passengers) > 0 {
		if err := insertPassengers(ctx, tx, id, res.Passengers); err != nil {
			return domain.Reservation{}, writeErr("repo.ReservationRepo.Create: passengers", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Reservation{}, writeErr("repo.ReservationRepo.Create: commit", err)
	}
	return r.GetByID(ctx, id)
}

func insertPassengers(ctx context.Context, tx pgx.Tx, reservationID int64, ps []domain.Passenger) error {
	const q = `
		INSERT INTO reservation_passengers (reservation_id, position, full_name, age, id_document, meals)
		VALUES ($1, $2, $3, $4, $5, $6)`

	b := &pgx.Batch{}
	for i, p := range ps {
		meals, err := json.Marshal(nonNil(p.Meals))
		if err != nil {
			return fmt.Errorf("marshal meals: %w", err)
		}
		b.Queue(q, reservationID, i, p.FullName, p.Age, p.IDDocument, meals)
	}

	br := tx.SendBatch(ctx, b)
	for range ps {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

func (r *pgReservationRepo) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	q := expandedSelect + ` WHERE r.id = @id`

	res, err := scanReservation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.GetByID: %w", notFound(err))
	}
	return res, nil
}

func (r *pgReservationRepo) List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error) {
	q := expandedSelect + `
	WHERE r.tour_date BETWEEN @from AND @to
	  AND (cardinality(@statuses::text[]) = 0 OR r.status = ANY(@statuses::text[]))
	  AND (NOT @exclude_cancelled OR r.status <> 'cancelled')
	ORDER BY r.tour_date, r.start_time, r.id`

	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"from":              domain.DateOnly(f.From),
		"to":                domain.DateOnly(f.To),
		"statuses":          statuses,
		"exclude_cancelled": f.ExcludeCancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReservationRepo.List: scan: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgReservationRepo) Update(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error) {
	sets, args, err := patchSet(p)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Update: %w", err)
	}
	args["id"] = id

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Reservation{}, writeErr("repo.ReservationRepo.Update: begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// An empty SET still touches updated_at and proves the row exists.
	q := `UPDATE reservations SET ` + strings.Join(append(sets, "updated_at = now()"), ", ") + ` WHERE id = @id`

	tag, err := tx.Exec(ctx, q, args)
	if err != nil {
		return domain.Reservation{}, writeErr("repo.ReservationRepo.Update", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Update: %w", domain.ErrNotFound)
	}

	if p.Passengers != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM reservation_passengers WHERE reservation_id = $1`, id); err != nil {
			return domain.Reservation{}, writeErr("repo.ReservationRepo.Update: clear passengers", err)
		}
		if len(p.Passengers) > 0 {
			if err := insertPassengers(ctx, tx, id, p.Passengers); err != nil {
				return domain.Reservation{}, writeErr("repo.ReservationRepo.Update: passengers", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Reservation{}, writeErr("repo.ReservationRepo.Update: commit", err)
	}
	return r.GetByID(ctx, id)
}

// patchSet turns the non-nil fields of p into SET clauses. Column order is
// fixed so the generated SQL is stable for a given patch shape.
func patchSet(p domain.ReservationPatch) ([]string, pgx.NamedArgs, error) {
	var sets []string
	args := pgx.NamedArgs{}
	set := func(col string, v any) {
		sets = append(sets, col+" = @"+col)
		args[col] = v
	}

	if p.TourDate != nil {
		set("tour_date", domain.DateOnly(*p.TourDate))
	}
	if p.StartTime != nil {
		set("start_time", *p.StartTime)
	}
	if p.PaxCount != nil {
		set("pax_count", *p.PaxCount)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.TotalAmount != nil {
		set("total_amount", *p.TotalAmount)
	}
	if p.BoatID != nil {
		set("boat_id", p.BoatID.Ptr())
	}
	if p.DriverID != nil {
		set("driver_id", p.DriverID.Ptr())
	}
	if p.GuideID != nil {
		set("guide_id", p.GuideID.Ptr())
	}
	if p.Notes != nil {
		set("notes", *p.Notes)
	}
	if p.EmergencyContactName != nil {
		set("emergency_contact_name", *p.EmergencyContactName)
	}
	if p.EmergencyContactPhone != nil {
		set("emergency_contact_phone", *p.EmergencyContactPhone)
	}
	if p.PaidAmount != nil {
		set("paid_amount", *p.PaidAmount)
	}
	if p.CustomStops != nil {
		set("custom_stops", p.CustomStops)
	}
	if p.MealSchedules != nil {
		meals, err := json.Marshal(p.MealSchedules)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal meals: %w", err)
		}
		set("meal_schedules", meals)
	}
	return sets, args, nil
}

func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res        domain.Reservation
		tourDate   pgtype.Date
		status     string
		boatID     pgtype.Int8
		driverID   pgtype.Int8
		guideID    pgtype.Int8
		mealsJSON  []byte
		paxJSON    []byte
		boatRefID  pgtype.Int8
		boatName   pgtype.Text
		boatCap    pgtype.Int4
		boatStatus pgtype.Text
		driver     staffRef
		guide      staffRef
	)

	err := s.Scan(
		&res.ID, &res.TourName, &tourDate, &res.StartTime, &res.PaxCount, &status,
		&boatID, &driverID, &guideID, &res.AgentID,
		&res.TotalAmount, &res.PaidAmount,
		&res.EmergencyContactName, &res.EmergencyContactPhone,
		&res.CustomStops, &mealsJSON, &res.Notes, &res.CreatedAt, &res.UpdatedAt,
		&boatRefID, &boatName, &boatCap, &boatStatus,
		&driver.id, &driver.name, &driver.role, &driver.phone, &driver.active,
		&guide.id, &guide.name, &guide.role, &guide.phone, &guide.active,
		&res.AgentName,
		&paxJSON,
	)
	if err != nil {
		return domain.Reservation{}, err
	}

	res.TourDate = tourDate.Time
	res.Status = domain.Status(status)
	res.BoatID = int8Ptr(boatID)
	res.DriverID = int8Ptr(driverID)
	res.GuideID = int8Ptr(guideID)

	if boatRefID.Valid {
		res.Boat = &domain.Boat{
			ID:       boatRefID.Int64,
			Name:     boatName.String,
			Capacity: int(boatCap.Int32),
			Status:   domain.BoatStatus(boatStatus.String),
		}
	}
	res.Driver = driver.staff()
	res.Guide = guide.staff()

	if err := json.Unmarshal(mealsJSON, &res.MealSchedules); err != nil {
		return domain.Reservation{}, fmt.Errorf("decode meal schedules: %w", err)
	}
	if err := json.Unmarshal(paxJSON, &res.Passengers); err != nil {
		return domain.Reservation{}, fmt.Errorf("decode passengers: %w", err)
	}
	return res, nil
}

// staffRef holds the nullable columns of a LEFT JOINed staff row.
type staffRef struct {
	id     pgtype.Int8
	name   pgtype.Text
	role   pgtype.Text
	phone  pgtype.Text
	active pgtype.Bool
}

func (s staffRef) staff() *domain.Staff {
	if !s.id.Valid {
		return nil
	}
	return &domain.Staff{
		ID:     s.id.Int64,
		Name:   s.name.String,
		Role:   domain.StaffRole(s.role.String),
		Phone:  s.phone.String,
		Active: s.active.Bool,
	}
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// nonNil keeps NOT NULL array and JSONB columns from receiving SQL NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
