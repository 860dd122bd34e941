package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jg18/fs2open.github.com/internal/scenario"
)

// ErrMissionNotFound is returned when no mission with the requested name is stored.
var ErrMissionNotFound = errors.New("db: mission not found")

// MissionRepository stores and loads authored missions.
type MissionRepository interface {
	Save(ctx context.Context, m *scenario.Mission) error
	Load(ctx context.Context, name string) (*scenario.Mission, error)
	List(ctx context.Context) ([]MissionSummary, error)
	Delete(ctx context.Context, name string) error
}

// MissionSummary is one row of the mission catalogue.
type MissionSummary struct {
	Name        string
	Description string
	Ships       int
	UpdatedAt   time.Time
}

// PostgresMissionRepository implements MissionRepository on PostgreSQL.
type PostgresMissionRepository struct {
	pool *pgxpool.Pool
}

var _ MissionRepository = (*PostgresMissionRepository)(nil)

// NewPostgresMissionRepository creates a repository on the given pool.
func NewPostgresMissionRepository(pool *pgxpool.Pool) *PostgresMissionRepository {
	return &PostgresMissionRepository{pool: pool}
}

// Save validates and writes the mission, replacing any stored mission with the same name.
// Wings, waypoints, ships and goals are rewritten in one transaction.
func (r *PostgresMissionRepository) Save(ctx context.Context, m *scenario.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for mission %q: %w", m.Name, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO missions (name, description, all_teams_attack)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE
		 SET description = EXCLUDED.description,
		     all_teams_attack = EXCLUDED.all_teams_attack,
		     updated_at = now()
		 RETURNING mission_id`,
		m.Name, m.Description, m.AllTeamsAttack,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("upserting mission %q: %w", m.Name, err)
	}

	// Goals go with their ships through the cascading foreign key.
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM mission_wings WHERE mission_id = $1`, id)
	batch.Queue(`DELETE FROM mission_waypoints WHERE mission_id = $1`, id)
	batch.Queue(`DELETE FROM mission_ships WHERE mission_id = $1`, id)
	br := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return fmt.Errorf("clearing mission %q: %w", m.Name, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing batch for mission %q: %w", m.Name, err)
	}

	if err := copyRows(ctx, tx, "mission_wings",
		[]string{"mission_id", "seq", "name", "team"}, wingRows(id, m)); err != nil {
		return fmt.Errorf("saving wings of %q: %w", m.Name, err)
	}
	if err := copyRows(ctx, tx, "mission_waypoints",
		[]string{"mission_id", "seq", "name", "points"}, waypointRows(id, m)); err != nil {
		return fmt.Errorf("saving waypoints of %q: %w", m.Name, err)
	}
	if err := copyRows(ctx, tx, "mission_ships",
		[]string{"mission_id", "seq", "name", "class", "team", "wing", "ai_class",
			"pos_x", "pos_y", "pos_z", "facing", "speed", "hull", "player", "no_ai", "flags"},
		shipRows(id, m)); err != nil {
		return fmt.Errorf("saving ships of %q: %w", m.Name, err)
	}
	if err := copyRows(ctx, tx, "mission_goals",
		[]string{"mission_id", "ship_seq", "seq", "goal_type", "target", "priority", "subsystem",
			"distance", "script", "backtrack", "docker_point", "dockee_point"},
		goalRows(id, m)); err != nil {
		return fmt.Errorf("saving goals of %q: %w", m.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing mission %q: %w", m.Name, err)
	}
	return nil
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows))
	return err
}

func wingRows(id int64, m *scenario.Mission) [][]any {
	rows := make([][]any, 0, len(m.Wings))
	for i, w := range m.Wings {
		rows = append(rows, []any{id, i, w.Name, w.Team})
	}
	return rows
}

func waypointRows(id int64, m *scenario.Mission) [][]any {
	rows := make([][]any, 0, len(m.Waypoints))
	for i, wp := range m.Waypoints {
		rows = append(rows, []any{id, i, wp.Name, flatten(wp.Points)})
	}
	return rows
}

func shipRows(id int64, m *scenario.Mission) [][]any {
	rows := make([][]any, 0, len(m.Ships))
	for i, s := range m.Ships {
		var facing []float64
		if s.Facing != nil {
			facing = s.Facing[:]
		}
		flags := s.Flags
		if flags == nil {
			flags = []string{}
		}
		rows = append(rows, []any{
			id, i, s.Name, s.Class, s.Team, s.Wing, s.AIClass,
			s.Pos[0], s.Pos[1], s.Pos[2], facing, s.Speed, s.Hull, s.Player, s.NoAI, flags,
		})
	}
	return rows
}

func goalRows(id int64, m *scenario.Mission) [][]any {
	var rows [][]any
	for i, s := range m.Ships {
		for j, g := range s.Goals {
			rows = append(rows, []any{
				id, i, j, g.Type, g.Target, g.Priority, g.Subsystem,
				g.Distance, g.Script, g.Backtrack, g.DockerPoint, g.DockeePoint,
			})
		}
	}
	return rows
}

func flatten(pts []scenario.Vec) []float64 {
	out := make([]float64, 0, 3*len(pts))
	for _, p := range pts {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func unflatten(vals []float64) ([]scenario.Vec, error) {
	if len(vals)%3 != 0 {
		return nil, fmt.Errorf("point array has %d values, want a multiple of 3", len(vals))
	}
	pts := make([]scenario.Vec, 0, len(vals)/3)
	for i := 0; i < len(vals); i += 3 {
		pts = append(pts, scenario.Vec{vals[i], vals[i+1], vals[i+2]})
	}
	return pts, nil
}

// Load reads the named mission back. Returns ErrMissionNotFound if it is not stored.
func (r *PostgresMissionRepository) Load(ctx context.Context, name string) (*scenario.Mission, error) {
	m := &scenario.Mission{Name: name}
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT mission_id, description, all_teams_attack FROM missions WHERE name = $1`, name,
	).Scan(&id, &m.Description, &m.AllTeamsAttack)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading %q: %w", name, ErrMissionNotFound)
		}
		return nil, fmt.Errorf("querying mission %q: %w", name, err)
	}

	if err := r.loadWings(ctx, id, m); err != nil {
		return nil, err
	}
	if err := r.loadWaypoints(ctx, id, m); err != nil {
		return nil, err
	}
	if err := r.loadShips(ctx, id, m); err != nil {
		return nil, err
	}
	if err := r.loadGoals(ctx, id, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresMissionRepository) loadWings(ctx context.Context, id int64, m *scenario.Mission) error {
	rows, err := r.pool.Query(ctx,
		`SELECT name, team FROM mission_wings WHERE mission_id = $1 ORDER BY seq`, id)
	if err != nil {
		return fmt.Errorf("querying wings of %q: %w", m.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var w scenario.WingDef
		if err := rows.Scan(&w.Name, &w.Team); err != nil {
			return fmt.Errorf("scanning wing of %q: %w", m.Name, err)
		}
		m.Wings = append(m.Wings, w)
	}
	return rows.Err()
}

func (r *PostgresMissionRepository) loadWaypoints(ctx context.Context, id int64, m *scenario.Mission) error {
	rows, err := r.pool.Query(ctx,
		`SELECT name, points FROM mission_waypoints WHERE mission_id = $1 ORDER BY seq`, id)
	if err != nil {
		return fmt.Errorf("querying waypoints of %q: %w", m.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			wp   scenario.WaypointDef
			vals []float64
		)
		if err := rows.Scan(&wp.Name, &vals); err != nil {
			return fmt.Errorf("scanning waypoints of %q: %w", m.Name, err)
		}
		if wp.Points, err = unflatten(vals); err != nil {
			return fmt.Errorf("waypoint list %q: %w", wp.Name, err)
		}
		m.Waypoints = append(m.Waypoints, wp)
	}
	return rows.Err()
}

func (r *PostgresMissionRepository) loadShips(ctx context.Context, id int64, m *scenario.Mission) error {
	rows, err := r.pool.Query(ctx,
		`SELECT name, class, team, wing, ai_class, pos_x, pos_y, pos_z, facing,
		        speed, hull, player, no_ai, flags
		 FROM mission_ships WHERE mission_id = $1 ORDER BY seq`, id)
	if err != nil {
		return fmt.Errorf("querying ships of %q: %w", m.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s      scenario.ShipDef
			facing []float64
		)
		err := rows.Scan(&s.Name, &s.Class, &s.Team, &s.Wing, &s.AIClass,
			&s.Pos[0], &s.Pos[1], &s.Pos[2], &facing,
			&s.Speed, &s.Hull, &s.Player, &s.NoAI, &s.Flags)
		if err != nil {
			return fmt.Errorf("scanning ship of %q: %w", m.Name, err)
		}
		if len(facing) == 3 {
			s.Facing = &scenario.Vec{facing[0], facing[1], facing[2]}
		}
		if len(s.Flags) == 0 {
			s.Flags = nil
		}
		m.Ships = append(m.Ships, s)
	}
	return rows.Err()
}

func (r *PostgresMissionRepository) loadGoals(ctx context.Context, id int64, m *scenario.Mission) error {
	rows, err := r.pool.Query(ctx,
		`SELECT ship_seq, goal_type, target, priority, subsystem, distance, script,
		        backtrack, docker_point, dockee_point
		 FROM mission_goals WHERE mission_id = $1 ORDER BY ship_seq, seq`, id)
	if err != nil {
		return fmt.Errorf("querying goals of %q: %w", m.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ship int
			g    scenario.GoalDef
		)
		err := rows.Scan(&ship, &g.Type, &g.Target, &g.Priority, &g.Subsystem, &g.Distance,
			&g.Script, &g.Backtrack, &g.DockerPoint, &g.DockeePoint)
		if err != nil {
			return fmt.Errorf("scanning goal of %q: %w", m.Name, err)
		}
		if ship < 0 || ship >= len(m.Ships) {
			return fmt.Errorf("goal of %q refers to ship %d of %d", m.Name, ship, len(m.Ships))
		}
		m.Ships[ship].Goals = append(m.Ships[ship].Goals, g)
	}
	return rows.Err()
}

// List returns every stored mission ordered by name.
func (r *PostgresMissionRepository) List(ctx context.Context) ([]MissionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.name, m.description, count(s.seq), m.updated_at
		 FROM missions m
		 LEFT JOIN mission_ships s ON s.mission_id = m.mission_id
		 GROUP BY m.mission_id
		 ORDER BY m.name`)
	if err != nil {
		return nil, fmt.Errorf("querying missions: %w", err)
	}
	defer rows.Close()

	var out []MissionSummary
	for rows.Next() {
		var s MissionSummary
		if err := rows.Scan(&s.Name, &s.Description, &s.Ships, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning mission summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes the named mission and everything under it.
func (r *PostgresMissionRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM missions WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting mission %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting %q: %w", name, ErrMissionNotFound)
	}
	return nil
}
