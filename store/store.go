// Package store 以 SQLite 保存采样结果。
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"emfield/sample"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNoRun 运行记录不存在
var ErrNoRun = errors.New("store: run not found")

// Run 一次采样运行的元数据
type Run struct {
	ID         string `db:"id"`
	Kind       string `db:"kind"`  // efield/potential/bfield/profile
	Scene      string `db:"scene"` // 场景网表文本
	Rows       int    `db:"n_rows"`
	Cols       int    `db:"n_cols"`
	Components int    `db:"components"`
	CreatedAt  int64  `db:"created_at"` // unix 毫秒
}

// DB SQLite 连接
type DB struct {
	conn *sqlx.DB
}

// Open 打开或创建数据库
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close 关闭连接
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		scene TEXT NOT NULL,
		n_rows INTEGER NOT NULL,
		n_cols INTEGER NOT NULL,
		components INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		comp INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL,
		value REAL,
		PRIMARY KEY (run_id, comp, idx)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun 保存一次采样，返回新生成的运行 ID
// NaN 保存为 NULL
func (db *DB) SaveRun(run Run, s sample.Samples) (string, error) {
	run.ID = uuid.NewString()
	run.Rows, run.Cols, run.Components = s.Rows, s.Cols, len(s.Values)
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixMilli()
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs (id, kind, scene, n_rows, n_cols, components, created_at)
		VALUES (:id, :kind, :scene, :n_rows, :n_cols, :components, :created_at)`, run); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO samples (run_id, idx, comp, x, y, z, value) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for c, values := range s.Values {
		for k, v := range values {
			value := sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
			// 只有三维格点保存 z
			var z sql.NullFloat64
			if s.Zs != nil {
				z = sql.NullFloat64{Float64: s.Points[2][k], Valid: true}
			}
			if _, err := stmt.Exec(run.ID, k, c, s.Points[0][k], s.Points[1][k], z, value); err != nil {
				return "", fmt.Errorf("insert sample %d/%d: %w", c, k, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Debug("run saved", "id", run.ID, "kind", run.Kind, "samples", s.Len())
	return run.ID, nil
}

// Runs 按创建时间列出所有运行
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT id, kind, scene, n_rows, n_cols, components, created_at FROM runs ORDER BY created_at, rowid")
	return runs, err
}

// Run 读取运行元数据
func (db *DB) Run(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT id, kind, scene, n_rows, n_cols, components, created_at FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return run, fmt.Errorf("%w: %s", ErrNoRun, id)
	}
	return run, err
}

type sampleRow struct {
	Idx   int             `db:"idx"`
	Comp  int             `db:"comp"`
	X     float64         `db:"x"`
	Y     float64         `db:"y"`
	Z     sql.NullFloat64 `db:"z"`
	Value sql.NullFloat64 `db:"value"`
}

// Samples 读取运行的采样结果
func (db *DB) Samples(id string) (sample.Samples, error) {
	run, err := db.Run(id)
	if err != nil {
		return sample.Samples{}, err
	}
	var rows []sampleRow
	if err := db.conn.Select(&rows, "SELECT idx, comp, x, y, z, value FROM samples WHERE run_id = ? ORDER BY comp, idx", id); err != nil {
		return sample.Samples{}, err
	}

	n := run.Rows * run.Cols
	points := [][]float64{make([]float64, n), make([]float64, n)}
	lattice := len(rows) > 0 && rows[0].Z.Valid
	if lattice {
		points = append(points, make([]float64, n))
	}
	values := make([][]float64, run.Components)
	for c := range values {
		values[c] = make([]float64, n)
	}
	for _, r := range rows {
		if r.Comp >= run.Components || r.Idx >= n {
			return sample.Samples{}, fmt.Errorf("store: sample %d/%d out of range", r.Comp, r.Idx)
		}
		points[0][r.Idx], points[1][r.Idx] = r.X, r.Y
		if lattice {
			points[2][r.Idx] = r.Z.Float64
		}
		values[r.Comp][r.Idx] = math.NaN()
		if r.Value.Valid {
			values[r.Comp][r.Idx] = r.Value.Float64
		}
	}
	return sample.Samples{
		Grid:   sample.Restore(run.Rows, run.Cols, points, lattice),
		Values: values,
	}, nil
}
