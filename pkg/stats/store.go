// Package stats 用 SQLite 保存每次运行的结果，用于比较关卡和技能方案
package stats

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/decker502/lemmings/pkg/types"
)

// Run 一次运行的结果
type Run struct {
	ID         string `db:"id"`
	LevelID    string `db:"level_id"`
	Seed       int64  `db:"seed"`
	Outcome    string `db:"outcome"`
	Ticks      int64  `db:"ticks"`
	Released   int    `db:"released"`
	Saved      int    `db:"saved"`
	Needed     int    `db:"needed"`
	SkillsUsed int    `db:"skills_used"`
	StartedAt  int64  `db:"started_at"` // Unix 秒
	DurationMS int64  `db:"duration_ms"`

	// Skills 每种技能的使用次数，单独存放在 run_skills 表
	Skills map[types.SkillType]int `db:"-"`
}

// LevelSummary 单个关卡的汇总
type LevelSummary struct {
	LevelID   string `db:"level_id"`
	Runs      int    `db:"runs"`
	Wins      int    `db:"wins"`
	BestSaved int    `db:"best_saved"`
	BestTicks int64  `db:"best_ticks"` // 成功运行中最少的 tick 数，0 表示没有成功记录
}

// Store 运行记录存储
type Store struct {
	conn *sqlx.DB
}

// Open 打开或创建数据库
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats db: %w", err)
	}
	// PRAGMA 只作用于当前连接，限制为单连接保证设置一直生效
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := initPragmas(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure stats db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate stats db: %w", err)
	}
	return s, nil
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.conn.Close()
}

// pragmas 打开数据库后执行的连接设置
var pragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA foreign_keys=ON;",
	"PRAGMA busy_timeout=5000;",
}

func initPragmas(conn *sqlx.DB) error {
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("failed to run %q: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		level_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		released INTEGER NOT NULL,
		saved INTEGER NOT NULL,
		needed INTEGER NOT NULL,
		skills_used INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_skills (
		run_id TEXT NOT NULL REFERENCES runs(id),
		skill TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, skill)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// NewRunID 生成运行ID
func NewRunID() string {
	return uuid.NewString()
}

// RecordRun 保存一次运行；ID 为空时自动生成
func (s *Store) RecordRun(run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().Unix()
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, level_id, seed, outcome, ticks, released, saved, needed, skills_used, started_at, duration_ms)
		VALUES (:id, :level_id, :seed, :outcome, :ticks, :released, :saved, :needed, :skills_used, :started_at, :duration_ms)`,
		run)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	// 固定顺序写入，便于比较数据库内容
	skills := make([]types.SkillType, 0, len(run.Skills))
	for skill, n := range run.Skills {
		if n > 0 {
			skills = append(skills, skill)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i] < skills[j] })
	for _, skill := range skills {
		if _, err := tx.Exec("INSERT INTO run_skills (run_id, skill, count) VALUES (?, ?, ?)",
			run.ID, skill.String(), run.Skills[skill]); err != nil {
			return fmt.Errorf("failed to insert skill usage for run %s: %w", run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("[Stats] Recorded run %s on %s: %s, saved %d/%d", run.ID, run.LevelID, run.Outcome, run.Saved, run.Needed)
	return nil
}

// Run 读取一次运行（包括技能使用）
func (s *Store) Run(id string) (*Run, error) {
	var run Run
	if err := s.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	var rows []struct {
		Skill string `db:"skill"`
		Count int    `db:"count"`
	}
	if err := s.conn.Select(&rows, "SELECT skill, count FROM run_skills WHERE run_id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to load skills for run %s: %w", id, err)
	}
	run.Skills = make(map[types.SkillType]int, len(rows))
	for _, r := range rows {
		skill, err := types.ParseSkill(r.Skill)
		if err != nil {
			log.Printf("[Stats] Warning: run %s has unknown skill %q", id, r.Skill)
			continue
		}
		run.Skills[skill] = r.Count
	}
	return &run, nil
}

// RecentRuns 返回关卡最近的运行记录（levelID 为空表示所有关卡）
func (s *Store) RecentRuns(levelID string, limit int) ([]Run, error) {
	var runs []Run
	var err error
	if levelID == "" {
		err = s.conn.Select(&runs, "SELECT * FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	} else {
		err = s.conn.Select(&runs, "SELECT * FROM runs WHERE level_id = ? ORDER BY started_at DESC, rowid DESC LIMIT ?", levelID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// Summaries 按关卡汇总
func (s *Store) Summaries() ([]LevelSummary, error) {
	var out []LevelSummary
	err := s.conn.Select(&out, `SELECT
			level_id,
			COUNT(*) AS runs,
			SUM(CASE WHEN outcome = 'succeeded' THEN 1 ELSE 0 END) AS wins,
			MAX(saved) AS best_saved,
			COALESCE(MIN(CASE WHEN outcome = 'succeeded' THEN ticks END), 0) AS best_ticks
		FROM runs
		GROUP BY level_id
		ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize runs: %w", err)
	}
	return out, nil
}
