package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

type ScheduleRequest struct {
	PhotoID       string    `json:"photoId"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Caption       string    `json:"caption"`
	Hashtags      []string  `json:"hashtags"`
}

type CalendarService interface {
	Schedule(ctx context.Context, req ScheduleRequest) (*models.CalendarEvent, error)
	GetRange(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
	GetByDay(ctx context.Context, day time.Time) ([]models.CalendarEvent, error)
	Update(ctx context.Context, eventID string, req repository.UpdateEventRequest) error
	Unschedule(ctx context.Context, eventID string) error
}

type calendarService struct {
	calendarRepo repository.CalendarRepository
	photoRepo    repository.PhotoRepository
	buildRepo    repository.BuildRepository
}

func NewCalendarService(calendarRepo repository.CalendarRepository, photoRepo repository.PhotoRepository, buildRepo repository.BuildRepository) CalendarService {
	return &calendarService{
		calendarRepo: calendarRepo,
		photoRepo:    photoRepo,
		buildRepo:    buildRepo,
	}
}

// Schedule creates a calendar event for a photo, snapshotting the post
// content at scheduling time. When the photo is assigned, the owning build is
// referenced and summarized into the snapshot.
func (c *calendarService) Schedule(ctx context.Context, req ScheduleRequest) (*models.CalendarEvent, error) {
	photo, err := c.photoRepo.GetByID(ctx, req.PhotoID)
	if err != nil {
		return nil, err
	}

	event := &models.CalendarEvent{
		ScheduledDate: req.ScheduledDate,
		PhotoID:       photo.PhotoID,
		PostContent: models.PostContent{
			Caption:  req.Caption,
			Hashtags: pq.StringArray(req.Hashtags),
		},
	}

	if photo.Assigned() {
		build, err := c.buildRepo.GetByID(ctx, *photo.BuildID)
		if err != nil {
			return nil, err
		}
		event.BuildID = &build.BuildID
		context := fmt.Sprintf("%s (%s, %s)", build.Name, build.WoodType, build.Style)
		event.BuildContext = &context
	}

	if err := c.calendarRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (c *calendarService) GetRange(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	return c.calendarRepo.GetRange(ctx, from, to)
}

func (c *calendarService) GetByDay(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	return c.calendarRepo.GetByDay(ctx, day)
}

func (c *calendarService) Update(ctx context.Context, eventID string, req repository.UpdateEventRequest) error {
	return c.calendarRepo.Update(ctx, eventID, req)
}

func (c *calendarService) Unschedule(ctx context.Context, eventID string) error {
	return c.calendarRepo.Delete(ctx, eventID)
}
