package bolt

import (
	"context"
	"fmt"

	"github.com/kbukum/typedflow/component"
	"github.com/kbukum/typedflow/logger"
)

// Component owns a DB for the component registry.
type Component struct {
	path string
	opts Options
	db   *DB
	log  *logger.Logger
}

// NewComponent creates a bolt component for the file at path.
func NewComponent(path string, opts Options, log *logger.Logger) *Component {
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{
		path: path,
		opts: opts,
		log:  log.WithComponent("bolt"),
	}
}

// DB returns the open database, or nil if not started.
func (c *Component) DB() *DB { return c.db }

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "bolt" }

// Start opens the database file.
func (c *Component) Start(_ context.Context) error {
	db, err := OpenDB(c.path, c.opts)
	if err != nil {
		return fmt.Errorf("bolt start: %w", err)
	}
	c.db = db
	return nil
}

// Stop closes the database file.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	c.log.Info("Closing bolt database", map[string]interface{}{"path": c.path})
	err := c.db.Close()
	c.db = nil
	return err
}

// Health reports whether the database answers a read transaction.
func (c *Component) Health(_ context.Context) component.Health {
	if c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "bolt not opened"}
	}
	if err := c.db.Ping(); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary info for the startup log.
func (c *Component) Describe() component.Description {
	return component.Description{Name: "bbolt", Type: "store", Details: c.path}
}
