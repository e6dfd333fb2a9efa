package models

import (
	"time"

	"github.com/lib/pq"
)

// Build stages, in shop order.
const (
	StagePlanning      = "Planning"
	StageWoodSelection = "Wood Selection"
	StageRoughShaping  = "Rough Shaping"
	StageJoinery       = "Joinery"
	StageAssembly      = "Assembly"
	StageFinishing     = "Finishing"
	StageSetup         = "Setup"
	StageComplete      = "Complete"
)

func BuildStages() []string {
	return []string{
		StagePlanning,
		StageWoodSelection,
		StageRoughShaping,
		StageJoinery,
		StageAssembly,
		StageFinishing,
		StageSetup,
		StageComplete,
	}
}

func IsValidStage(stage string) bool {
	for _, s := range BuildStages() {
		if s == stage {
			return true
		}
	}
	return false
}

type Build struct {
	BuildID    string    `json:"buildId" db:"build_id" validate:"required"`
	Name       string    `json:"name" db:"name" validate:"required,max=200"`
	WoodType   string    `json:"woodType" db:"wood_type" validate:"required,max=100"`
	Style      string    `json:"style" db:"style" validate:"required,max=100"`
	StartDate  time.Time `json:"startDate" db:"start_date" validate:"required"`
	ClientName *string   `json:"clientName,omitempty" db:"client_name"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	// Photos is a derived view of the photos table (photos.build_id is the
	// source of truth); it is populated on read and never persisted here.
	Photos []Photo `json:"photos" db:"-"`
}

type Photo struct {
	PhotoID       string     `json:"photoId" db:"photo_id" validate:"required"`
	SourceID      string     `json:"sourceId" db:"source_id" validate:"required"`
	URL           string     `json:"url" db:"url" validate:"required"`
	ThumbnailURL  string     `json:"thumbnailUrl" db:"thumbnail_url" validate:"required"`
	TakenAt       time.Time  `json:"takenAt" db:"taken_at" validate:"required"`
	Filename      string     `json:"filename" db:"filename" validate:"required,max=255"`
	BuildID       *string    `json:"buildId,omitempty" db:"build_id"`
	Caption       *string    `json:"caption,omitempty" db:"caption"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty" db:"scheduled_date"`
	Posted        bool       `json:"posted" db:"posted"`
	Width         *int       `json:"width,omitempty" db:"width"`
	Height        *int       `json:"height,omitempty" db:"height"`
	CameraMake    *string    `json:"cameraMake,omitempty" db:"camera_make"`
	CameraModel   *string    `json:"cameraModel,omitempty" db:"camera_model"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

func (p *Photo) Assigned() bool {
	return p.BuildID != nil && *p.BuildID != ""
}

type ContentTemplate struct {
	TemplateID string         `json:"templateId" db:"template_id" validate:"required"`
	Name       string         `json:"name" db:"name" validate:"required,max=200"`
	Stage      string         `json:"stage" db:"stage" validate:"required"`
	Template   string         `json:"template" db:"template" validate:"required"`
	Variables  pq.StringArray `json:"variables" db:"variables"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
}

// PostContent is the content snapshot captured when a photo is scheduled.
// It is denormalized into the calendar event so the event survives later
// caption edits on the photo.
type PostContent struct {
	Caption      string         `json:"caption" db:"caption"`
	Hashtags     pq.StringArray `json:"hashtags" db:"hashtags"`
	BuildContext *string        `json:"buildContext,omitempty" db:"build_context"`
}

type CalendarEvent struct {
	EventID       string    `json:"eventId" db:"event_id" validate:"required"`
	ScheduledDate time.Time `json:"scheduledDate" db:"scheduled_date" validate:"required"`
	PhotoID       string    `json:"photoId" db:"photo_id" validate:"required"`
	BuildID       *string   `json:"buildId,omitempty" db:"build_id"`
	PostContent
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	// Photo and Build are derived views populated on read, like Build.Photos.
	Photo *Photo `json:"photo,omitempty" db:"-"`
	Build *Build `json:"build,omitempty" db:"-"`
}

// Snapshot is the bundle exchanged by export/import. Field shapes match the
// stored records exactly; import preserves ids and timestamps verbatim.
type Snapshot struct {
	Builds    []Build           `json:"builds"`
	Photos    []Photo           `json:"photos"`
	Templates []ContentTemplate `json:"templates"`
	Events    []CalendarEvent   `json:"events"`
}

type Stats struct {
	TotalBuilds      int `json:"totalBuilds" db:"total_builds"`
	TotalPhotos      int `json:"totalPhotos" db:"total_photos"`
	AssignedPhotos   int `json:"assignedPhotos" db:"assigned_photos"`
	UnassignedPhotos int `json:"unassignedPhotos" db:"unassigned_photos"`
	ScheduledEvents  int `json:"scheduledEvents" db:"scheduled_events"`
}
