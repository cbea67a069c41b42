package revalidate

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub/v2"

	"github.com/jsa498/devflow/pkg/logger"
)

// Dashboard and content paths whose cached renderings go stale after a
// successful purchase.
const (
	PathDashboard = "/dashboard"
	PathCourses   = "/courses"
)

// CoursePath is the cached page for one course.
func CoursePath(slug string) string {
	if slug == "" {
		return PathCourses
	}
	return PathCourses + "/" + slug
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Notifier emits cache-invalidation events for the presentation layer.
// Publishing is fire-and-forget: a failed publish is logged and otherwise
// ignored, since the page re-renders from the database on next load anyway.
type Notifier struct {
	pub  publisher
	logg *logger.Logger
}

type event struct {
	Paths     []string  `json:"paths"`
	EmittedAt time.Time `json:"emitted_at"`
}

// NewNotifier wraps a publisher. A nil publisher yields a notifier whose
// Notify is a no-op, for deployments without the revalidation pipeline.
func NewNotifier(pub publisher, logg *logger.Logger) *Notifier {
	return &Notifier{pub: pub, logg: logg}
}

// Notify signals that the cached renderings of paths are stale. Never
// returns an error and never blocks on publish confirmation.
func (n *Notifier) Notify(ctx context.Context, paths ...string) {
	if n == nil || n.pub == nil || len(paths) == 0 {
		return
	}

	payload, err := json.Marshal(event{Paths: paths, EmittedAt: time.Now().UTC()})
	if err != nil {
		if n.logg != nil {
			n.logg.Error(ctx, "marshal revalidation event", err)
		}
		return
	}

	result := n.pub.Publish(ctx, &pubsub.Message{Data: payload})
	go func() {
		if _, err := result.Get(context.WithoutCancel(ctx)); err != nil && n.logg != nil {
			n.logg.Warn(n.logg.WithField(ctx, "paths", paths), "revalidation publish failed")
		}
	}()
}
