package parser

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcboeker/go-duckdb"
	"github.com/scene-viewer/backend/internal/models"
)

// SceneStore persists one session's resolved scene in a temporary
// DuckDB file. The viewer frontend scrolls and zooms over large
// generated annotation sets, so primitives are queried by viewport
// bounding box instead of shipping the whole scene on every pan.
type SceneStore struct {
	db         *sql.DB
	dbPath     string
	pointCount int
	lineCount  int
}

// NewSceneStore creates a store for a session in the given temp directory.
func NewSceneStore(tempDir string, sessionID string) (*SceneStore, error) {
	dbPath := filepath.Join(tempDir, fmt.Sprintf("scene_%s.duckdb", sessionID))

	connector, err := duckdb.NewConnector(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}
	db := sql.OpenDB(connector)

	// seq preserves declaration order across queries.
	stmts := []string{
		`CREATE TABLE points (
			seq   INTEGER PRIMARY KEY,
			x     INTEGER NOT NULL,
			y     INTEGER NOT NULL,
			label VARCHAR NOT NULL
		)`,
		`CREATE TABLE lines (
			seq INTEGER PRIMARY KEY,
			x1  INTEGER NOT NULL,
			y1  INTEGER NOT NULL,
			x2  INTEGER NOT NULL,
			y2  INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			os.Remove(dbPath)
			return nil, fmt.Errorf("creating scene tables: %w", err)
		}
	}

	return &SceneStore{db: db, dbPath: dbPath}, nil
}

// LoadScene writes a parsed scene into the store using the native
// Appender API and creates the spatial indexes.
func (ss *SceneStore) LoadScene(scene *models.Scene) error {
	conn, err := ss.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("getting connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}

		pa, err := duckdb.NewAppenderFromConn(dConn, "", "points")
		if err != nil {
			return fmt.Errorf("creating points appender: %w", err)
		}
		for i, p := range scene.Points {
			if err := pa.AppendRow(int32(i), int32(p.X), int32(p.Y), p.Label); err != nil {
				pa.Close()
				return fmt.Errorf("appending point %d: %w", i, err)
			}
		}
		if err := pa.Close(); err != nil {
			return fmt.Errorf("flushing points: %w", err)
		}

		la, err := duckdb.NewAppenderFromConn(dConn, "", "lines")
		if err != nil {
			return fmt.Errorf("creating lines appender: %w", err)
		}
		for i, l := range scene.Lines {
			if err := la.AppendRow(int32(i), int32(l.X1), int32(l.Y1), int32(l.X2), int32(l.Y2)); err != nil {
				la.Close()
				return fmt.Errorf("appending line %d: %w", i, err)
			}
		}
		if err := la.Close(); err != nil {
			return fmt.Errorf("flushing lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Indexes after the bulk load, not during it.
	if _, err := ss.db.Exec("CREATE INDEX idx_points_xy ON points(x, y)"); err != nil {
		fmt.Printf("[SceneStore] Warning: idx_points_xy creation failed: %v\n", err)
	}
	if _, err := ss.db.Exec("CREATE INDEX idx_points_label ON points(label)"); err != nil {
		fmt.Printf("[SceneStore] Warning: idx_points_label creation failed: %v\n", err)
	}

	ss.pointCount = len(scene.Points)
	ss.lineCount = len(scene.Lines)
	return nil
}

// PointCount returns the number of stored points.
func (ss *SceneStore) PointCount() int {
	return ss.pointCount
}

// LineCount returns the number of stored lines.
func (ss *SceneStore) LineCount() int {
	return ss.lineCount
}

// GetScene reads the full scene back in declaration order.
func (ss *SceneStore) GetScene(ctx context.Context) (*models.Scene, error) {
	scene := models.NewScene()

	rows, err := ss.db.QueryContext(ctx, "SELECT x, y, label FROM points ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	for rows.Next() {
		var p models.PointDecl
		if err := rows.Scan(&p.X, &p.Y, &p.Label); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning point: %w", err)
		}
		scene.Points = append(scene.Points, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = ss.db.QueryContext(ctx, "SELECT x1, y1, x2, y2 FROM lines ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l models.ResolvedLine
		if err := rows.Scan(&l.X1, &l.Y1, &l.X2, &l.Y2); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		scene.Lines = append(scene.Lines, l)
	}
	return scene, rows.Err()
}

// QueryViewport returns the primitives intersecting the axis-aligned
// box [x0,x1]x[y0,y1], in declaration order. A line is included when the
// box overlaps its endpoint bounding box.
func (ss *SceneStore) QueryViewport(ctx context.Context, x0, y0, x1, y1 int) (*models.Scene, error) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	scene := models.NewScene()

	rows, err := ss.db.QueryContext(ctx,
		`SELECT x, y, label FROM points
		 WHERE x BETWEEN ? AND ? AND y BETWEEN ? AND ?
		 ORDER BY seq`, x0, x1, y0, y1)
	if err != nil {
		return nil, fmt.Errorf("querying viewport points: %w", err)
	}
	for rows.Next() {
		var p models.PointDecl
		if err := rows.Scan(&p.X, &p.Y, &p.Label); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning point: %w", err)
		}
		scene.Points = append(scene.Points, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = ss.db.QueryContext(ctx,
		`SELECT x1, y1, x2, y2 FROM lines
		 WHERE LEAST(x1, x2) <= ? AND GREATEST(x1, x2) >= ?
		   AND LEAST(y1, y2) <= ? AND GREATEST(y1, y2) >= ?
		 ORDER BY seq`, x1, x0, y1, y0)
	if err != nil {
		return nil, fmt.Errorf("querying viewport lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l models.ResolvedLine
		if err := rows.Scan(&l.X1, &l.Y1, &l.X2, &l.Y2); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		scene.Lines = append(scene.Lines, l)
	}
	return scene, rows.Err()
}

// GetPointByLabel looks up a point by its label.
func (ss *SceneStore) GetPointByLabel(ctx context.Context, label string) (models.PointDecl, bool, error) {
	var p models.PointDecl
	err := ss.db.QueryRowContext(ctx,
		"SELECT x, y, label FROM points WHERE label = ?", label).Scan(&p.X, &p.Y, &p.Label)
	if err == sql.ErrNoRows {
		return models.PointDecl{}, false, nil
	}
	if err != nil {
		return models.PointDecl{}, false, fmt.Errorf("querying label %q: %w", label, err)
	}
	return p, true, nil
}

// Bounds returns the bounding box over all stored primitives.
// ok is false for an empty scene.
func (ss *SceneStore) Bounds(ctx context.Context) (minX, minY, maxX, maxY int, ok bool, err error) {
	row := ss.db.QueryRowContext(ctx, `
		SELECT MIN(lo_x), MIN(lo_y), MAX(hi_x), MAX(hi_y) FROM (
			SELECT x AS lo_x, y AS lo_y, x AS hi_x, y AS hi_y FROM points
			UNION ALL
			SELECT LEAST(x1, x2), LEAST(y1, y2), GREATEST(x1, x2), GREATEST(y1, y2) FROM lines
		)`)

	var nMinX, nMinY, nMaxX, nMaxY sql.NullInt64
	if err := row.Scan(&nMinX, &nMinY, &nMaxX, &nMaxY); err != nil {
		return 0, 0, 0, 0, false, fmt.Errorf("querying bounds: %w", err)
	}
	if !nMinX.Valid {
		return 0, 0, 0, 0, false, nil
	}
	return int(nMinX.Int64), int(nMinY.Int64), int(nMaxX.Int64), int(nMaxY.Int64), true, nil
}

// Close closes the database and removes the backing file.
func (ss *SceneStore) Close() error {
	if ss.db != nil {
		ss.db.Close()
		ss.db = nil
	}
	if ss.dbPath != "" {
		os.Remove(ss.dbPath)
	}
	return nil
}
