package audit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Verb string

const (
	VerbCreate Verb = "CREATE"
	VerbUpdate Verb = "UPDATE"
	VerbDelete Verb = "DELETE"
	VerbDetach Verb = "DETACH"
	VerbLogin  Verb = "LOGIN"
	VerbLogout Verb = "LOGOUT"
)

const (
	EntityUser        = "User"
	EntityProduct     = "Product"
	EntityAppointment = "Appointment"
	EntityActivityLog = "ActivityLog"
)

type Entry struct {
	Actor      access.Actor
	Verb       Verb
	EntityType string
	EntityID   *uint
}

// Action is the stored label: "VERB EntityType", or just the verb for
// session events.
func (e Entry) Action() string {
	if e.EntityType == "" {
		return string(e.Verb)
	}
	return string(e.Verb) + " " + e.EntityType
}

// Recorder is what use cases depend on. Record never fails the caller.
type Recorder interface {
	Record(ctx context.Context, actor access.Actor, verb Verb, entityType string, entityID uint)
}

type Logger struct {
	db       *gorm.DB
	log      *zap.Logger
	failures prometheus.Counter
	now      func() time.Time
}

func New(gdb *gorm.DB, log *zap.Logger, failures prometheus.Counter) *Logger {
	return &Logger{
		db:       gdb,
		log:      log,
		failures: failures,
		now:      time.Now,
	}
}

// Write appends one activity log row. Inside a transaction the insert runs
// under a savepoint so a failed audit write leaves the caller's transaction
// usable.
func (l *Logger) Write(ctx context.Context, e Entry) error {
	row := models.ActivityLog{
		Role:     e.Actor.Roles.String(),
		Action:   e.Action(),
		EntityID: e.EntityID,
		DateTime: l.now().UTC(),
	}
	if e.Actor.ID != 0 {
		id := e.Actor.ID
		row.UserID = &id
	}
	if e.EntityType != "" {
		et := e.EntityType
		row.EntityType = &et
	}

	conn := db.Conn(ctx, l.db)
	if db.InTransaction(ctx) {
		return conn.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&row).Error
		})
	}
	return conn.Create(&row).Error
}

func (l *Logger) Record(
	ctx context.Context,
	actor access.Actor,
	verb Verb,
	entityType string,
	entityID uint,
) {
	id := entityID
	e := Entry{Actor: actor, Verb: verb, EntityType: entityType, EntityID: &id}

	if err := l.Write(ctx, e); err != nil {
		l.fail(e, err)
	}
}

func (l *Logger) fail(e Entry, err error) {
	if l.failures != nil {
		l.failures.Inc()
	}
	l.log.Error("audit write failed",
		zap.Uint("actor_id", e.Actor.ID),
		zap.String("action", e.Action()),
		zap.Error(err),
	)
}

var _ Recorder = (*Logger)(nil)
