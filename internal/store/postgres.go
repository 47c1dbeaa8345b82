package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"TRIPMATE_BACK-END/internal/models"
)

// PostgresStore persists trips and join requests in Postgres. Capacity
// control on approval is a transactional compare-and-increment
// (UPDATE ... WHERE filled < capacity), so concurrent approvals of a last
// slot serialize in the database rather than behind an application lock.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const tripColumns = `id, creator_id, destination, budget_per_person, start_date, end_date,
	female_allowed, male_capacity, female_capacity, male_filled, female_filled,
	status, itinerary, created_at, updated_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var t models.Trip
	err := row.Scan(&t.ID, &t.CreatorID, &t.Destination, &t.BudgetPerPerson,
		&t.StartDate, &t.EndDate, &t.FemaleAllowed, &t.MaleCapacity,
		&t.FemaleCapacity, &t.MaleFilled, &t.FemaleFilled, &t.Status,
		&t.Itinerary, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) CreateTrip(ctx context.Context, t *models.Trip) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO trips (`+tripColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID, t.CreatorID, t.Destination, t.BudgetPerPerson, t.StartDate, t.EndDate,
		t.FemaleAllowed, t.MaleCapacity, t.FemaleCapacity, t.MaleFilled, t.FemaleFilled,
		t.Status, t.Itinerary, t.CreatedAt, t.UpdatedAt)
	return err
}

func (s *PostgresStore) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	return scanTrip(s.pool.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
}

func (s *PostgresStore) UpdateTrip(ctx context.Context, t *models.Trip) error {
	cmd, err := s.pool.Exec(ctx,
		`UPDATE trips
		    SET destination = $1,
		        budget_per_person = $2,
		        start_date = $3,
		        end_date = $4,
		        female_allowed = $5,
		        male_capacity = $6,
		        female_capacity = $7,
		        status = $8,
		        updated_at = $9
		  WHERE id = $10 AND male_filled <= $6 AND female_filled <= $7`,
		t.Destination, t.BudgetPerPerson, t.StartDate, t.EndDate, t.FemaleAllowed,
		t.MaleCapacity, t.FemaleCapacity, t.Status, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Either the trip is gone or an approval raced the caller's snapshot
		// and the new capacities undercut the filled counters.
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrCapacityBelowFilled
		}
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) listTrips(ctx context.Context, query string, args ...any) ([]models.Trip, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]models.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

func (s *PostgresStore) ListTripsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Trip, error) {
	return s.listTrips(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE creator_id = $1 ORDER BY start_date ASC`,
		creatorID)
}

func (s *PostgresStore) ListOpenUpcomingTrips(ctx context.Context, now time.Time, limit, offset int) ([]models.Trip, error) {
	return s.listTrips(ctx,
		`SELECT `+tripColumns+` FROM trips
		  WHERE status = $1 AND start_date > $2
		  ORDER BY start_date ASC
		  LIMIT $3 OFFSET $4`,
		models.TripStatusOpen, now, limit, offset)
}

func (s *PostgresStore) ListPastTripsForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Trip, error) {
	return s.listTrips(ctx,
		`SELECT `+tripColumns+` FROM trips t
		  WHERE t.end_date < $2
		    AND (t.creator_id = $1 OR EXISTS (
		        SELECT 1 FROM join_requests jr
		         WHERE jr.trip_id = t.id AND jr.requester_id = $1 AND jr.status = 'approved'))
		  ORDER BY t.end_date DESC`,
		userID, now)
}

func (s *PostgresStore) SetItinerary(ctx context.Context, tripID uuid.UUID, text string, updatedAt time.Time) error {
	cmd, err := s.pool.Exec(ctx,
		`UPDATE trips SET itinerary = $1, updated_at = $2 WHERE id = $3`,
		text, updatedAt, tripID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateRequest(ctx context.Context, r *models.JoinRequest) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO join_requests (id, trip_id, requester_id, requested_gender, status, requested_at, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.TripID, r.RequesterID, r.RequestedGender, r.Status, r.RequestedAt, r.DecidedAt)
	if err != nil {
		// Partial unique index on (trip_id, requester_id) for pending and
		// approved rows enforces the at-most-one-active invariant.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (s *PostgresStore) HasActiveRequest(ctx context.Context, tripID, requesterID uuid.UUID) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM join_requests
		     WHERE trip_id = $1 AND requester_id = $2 AND status IN ('pending', 'approved'))`,
		tripID, requesterID).Scan(&ok)
	return ok, err
}

func (s *PostgresStore) GetRequest(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	var r models.JoinRequest
	err := s.pool.QueryRow(ctx,
		`SELECT id, trip_id, requester_id, requested_gender, status, requested_at, decided_at
		   FROM join_requests WHERE id = $1`, id).
		Scan(&r.ID, &r.TripID, &r.RequesterID, &r.RequestedGender, &r.Status, &r.RequestedAt, &r.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// statusRecompute mirrors models.Trip.DeriveStatus in SQL so the status the
// clients see is always consistent with the counters written in the same
// transaction.
const statusRecompute = `
	UPDATE trips
	   SET status = CASE
	       WHEN status = 'closed' THEN 'closed'
	       WHEN male_filled >= male_capacity
	            AND (NOT female_allowed OR female_filled >= female_capacity) THEN 'full'
	       ELSE 'open'
	   END,
	       updated_at = $2
	 WHERE id = $1`

func (s *PostgresStore) ApproveRequest(ctx context.Context, requestID uuid.UUID, decidedAt time.Time) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var tripID uuid.UUID
	var gender, status string
	err = tx.QueryRow(ctx,
		`SELECT trip_id, requested_gender, status FROM join_requests WHERE id = $1 FOR UPDATE`,
		requestID).Scan(&tripID, &gender, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if status != models.RequestStatusPending {
		return ErrAlreadyDecided
	}

	// Compare-and-increment: no row is touched unless a slot remains for
	// this gender, so a racing approval of the last slot loses here.
	var cmd pgconn.CommandTag
	if gender == models.GenderMale {
		cmd, err = tx.Exec(ctx,
			`UPDATE trips SET male_filled = male_filled + 1
			  WHERE id = $1 AND male_filled < male_capacity`, tripID)
	} else {
		cmd, err = tx.Exec(ctx,
			`UPDATE trips SET female_filled = female_filled + 1
			  WHERE id = $1 AND female_filled < female_capacity AND female_allowed`, tripID)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCapacityFull
	}

	if _, err := tx.Exec(ctx,
		`UPDATE join_requests SET status = $1, decided_at = $2 WHERE id = $3`,
		models.RequestStatusApproved, decidedAt, requestID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, statusRecompute, tripID, decidedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) DenyRequest(ctx context.Context, requestID uuid.UUID, decidedAt time.Time) error {
	cmd, err := s.pool.Exec(ctx,
		`UPDATE join_requests SET status = $1, decided_at = $2
		  WHERE id = $3 AND status = $4`,
		models.RequestStatusDenied, decidedAt, requestID, models.RequestStatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM join_requests WHERE id = $1)`, requestID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrAlreadyDecided
		}
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListPendingByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.PendingRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT jr.id, jr.trip_id, jr.requester_id, jr.requested_gender, jr.status,
		        jr.requested_at, jr.decided_at, t.destination,
		        COALESCE(u.name, ''), COALESCE(u.email, '')
		   FROM join_requests jr
		   JOIN trips t ON t.id = jr.trip_id
		   LEFT JOIN users u ON u.id = jr.requester_id
		  WHERE t.creator_id = $1 AND jr.status = $2
		  ORDER BY jr.requested_at ASC`,
		creatorID, models.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.PendingRequest, 0)
	for rows.Next() {
		var p models.PendingRequest
		if err := rows.Scan(&p.ID, &p.TripID, &p.RequesterID, &p.RequestedGender,
			&p.Status, &p.RequestedAt, &p.DecidedAt, &p.TripDestination,
			&p.RequesterName, &p.RequesterEmail); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s *PostgresStore) IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM trips WHERE id = $1 AND creator_id = $2
		    UNION ALL
		    SELECT 1 FROM join_requests
		     WHERE trip_id = $1 AND requester_id = $2 AND status = 'approved')`,
		tripID, userID).Scan(&ok)
	return ok, err
}
