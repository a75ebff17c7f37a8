package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/GAURAV130105/attendance-system/internal/attendance"
	"github.com/GAURAV130105/attendance-system/internal/config"
	"github.com/GAURAV130105/attendance-system/internal/database"
	"github.com/GAURAV130105/attendance-system/internal/database/postgres"
	"github.com/GAURAV130105/attendance-system/internal/enroll"
	"github.com/GAURAV130105/attendance-system/internal/extractor"
	"github.com/GAURAV130105/attendance-system/internal/recognize"
)

// core wires configuration, storage, the live index and the services
// together for CLI commands.
type core struct {
	cfg        *config.Config
	pool       *postgres.Pool
	students   *postgres.StudentRepository
	encodings  *postgres.EncodingRepository
	courses    *postgres.CourseRepository
	attendance *postgres.AttendanceRepository
	index      *database.EncodingIndex
	matcher    *recognize.Matcher
	enrollment *enroll.Manager
	capture    *attendance.Service
}

// newCore connects to PostgreSQL and loads the encoding index. Every
// command that touches the matching pipeline starts here.
func newCore(ctx context.Context) (*core, error) {
	cfg := config.Load()

	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	c := &core{
		cfg:        cfg,
		pool:       pool,
		students:   postgres.NewStudentRepository(pool),
		encodings:  postgres.NewEncodingRepository(pool),
		courses:    postgres.NewCourseRepository(pool),
		attendance: postgres.NewAttendanceRepository(pool),
	}

	c.index = database.NewEncodingIndex(cfg.Matching.Dim)
	encodings, err := c.encodings.All(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load encodings: %w", err)
	}
	if err := c.index.Load(encodings); err != nil {
		// Stale rows with a wrong dimensionality are skipped, not fatal.
		log.Printf("index load: %v", err)
	}
	if cfg.Matching.HNSWEnabled {
		c.index.EnableHNSW()
	}

	c.matcher, err = recognize.NewMatcher(c.index, cfg.Matching.Threshold)
	if err != nil {
		pool.Close()
		return nil, err
	}

	ext := extractor.NewClient(cfg.Extractor.URL, cfg.Extractor.Timeout)
	c.enrollment = enroll.NewManager(c.students, c.encodings, c.index, c.matcher, ext)
	recorder := attendance.NewRecorder(c.courses, c.attendance)
	c.capture = attendance.NewService(ext, c.matcher, recorder)

	return c, nil
}

// Close releases the database pool.
func (c *core) Close() {
	if err := c.pool.Close(); err != nil {
		log.Printf("closing pool: %v", err)
	}
}
