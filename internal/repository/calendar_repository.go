package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"buildlog/internal/models"
)

type CalendarRepositoryImpl struct {
	db *sqlx.DB
}

type UpdateEventRequest struct {
	ScheduledDate *time.Time `json:"scheduledDate"`
	Caption       *string    `json:"caption"`
	Hashtags      []string   `json:"hashtags"`
}

const insertEventQuery = `
	INSERT INTO calendar_events
	(event_id, scheduled_date, photo_id, build_id, caption, hashtags, build_context, created_at)
	VALUES
	(:event_id, :scheduled_date, :photo_id, :build_id, :caption, :hashtags, :build_context, :created_at)
`

func NewCalendarRepository(db *sqlx.DB) *CalendarRepositoryImpl {
	return &CalendarRepositoryImpl{db: db}
}

func (r *CalendarRepositoryImpl) Create(ctx context.Context, event *models.CalendarEvent) error {
	query := insertEventQuery

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Hashtags == nil {
		event.Hashtags = pq.StringArray{}
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}

	return nil
}

// GetRange returns events with scheduled_date inside [from, to], inclusive on
// both ends, with their photo and build views populated.
func (r *CalendarRepositoryImpl) GetRange(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	query := `
		SELECT * FROM calendar_events
		WHERE scheduled_date >= $1 AND scheduled_date <= $2
		ORDER BY scheduled_date
	`

	var events []models.CalendarEvent
	err := r.db.SelectContext(ctx, &events, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	if err := r.attachRecords(ctx, events); err != nil {
		return nil, err
	}

	return events, nil
}

// GetByDay returns the events of one calendar day, bounded by local midnight
// and the last instant before the next midnight.
func (r *CalendarRepositoryImpl) GetByDay(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	return r.GetRange(ctx, start, end)
}

func (r *CalendarRepositoryImpl) Update(ctx context.Context, eventID string, req UpdateEventRequest) error {
	var event models.CalendarEvent
	err := r.db.GetContext(ctx, &event, `SELECT * FROM calendar_events WHERE event_id = $1`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get calendar event: %w", err)
	}

	if req.ScheduledDate != nil {
		event.ScheduledDate = *req.ScheduledDate
	}
	if req.Caption != nil {
		event.Caption = *req.Caption
	}
	if req.Hashtags != nil {
		event.Hashtags = pq.StringArray(req.Hashtags)
	}

	query := `
		UPDATE calendar_events SET
			scheduled_date = :scheduled_date,
			caption = :caption,
			hashtags = :hashtags
		WHERE event_id = :event_id
	`

	result, err := r.db.NamedExecContext(ctx, query, &event)
	if err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *CalendarRepositoryImpl) Delete(ctx context.Context, eventID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// attachRecords fills the derived photo and build views for a slice of
// events, one query per record kind.
func (r *CalendarRepositoryImpl) attachRecords(ctx context.Context, events []models.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}

	photoIDs := make([]string, 0, len(events))
	buildIDs := make([]string, 0, len(events))
	for _, e := range events {
		photoIDs = append(photoIDs, e.PhotoID)
		if e.BuildID != nil {
			buildIDs = append(buildIDs, *e.BuildID)
		}
	}

	query, args, err := sqlx.In(`SELECT * FROM photos WHERE photo_id IN (?)`, photoIDs)
	if err != nil {
		return fmt.Errorf("failed to build photo query: %w", err)
	}

	var photos []models.Photo
	if err := r.db.SelectContext(ctx, &photos, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load event photos: %w", err)
	}

	photosByID := make(map[string]models.Photo, len(photos))
	for _, p := range photos {
		photosByID[p.PhotoID] = p
	}

	buildsByID := map[string]models.Build{}
	if len(buildIDs) > 0 {
		query, args, err = sqlx.In(`SELECT * FROM builds WHERE build_id IN (?)`, buildIDs)
		if err != nil {
			return fmt.Errorf("failed to build build query: %w", err)
		}

		var builds []models.Build
		if err := r.db.SelectContext(ctx, &builds, r.db.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to load event builds: %w", err)
		}

		for _, b := range builds {
			buildsByID[b.BuildID] = b
		}
	}

	for i := range events {
		if p, ok := photosByID[events[i].PhotoID]; ok {
			photo := p
			events[i].Photo = &photo
		}
		if events[i].BuildID != nil {
			if b, ok := buildsByID[*events[i].BuildID]; ok {
				build := b
				events[i].Build = &build
			}
		}
	}

	return nil
}
