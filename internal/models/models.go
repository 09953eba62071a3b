package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Trip statuses
const (
	TripPlanning  = "PLANNING"
	TripOngoing   = "ONGOING"
	TripCompleted = "COMPLETED"
	TripCancelled = "CANCELLED"
)

// TripStatusDescriptions maps each status to its label
var TripStatusDescriptions = map[string]string{
	TripPlanning:  "Planning",
	TripOngoing:   "Ongoing",
	TripCompleted: "Completed",
	TripCancelled: "Cancelled",
}

// TagCategories lists the categories a tag may belong to
var TagCategories = []string{
	"LOCATION", "ACTIVITY", "FOOD", "TRANSPORT", "ACCOMMODATION", "WEATHER",
	"MOOD", "PEOPLE", "CULTURE", "NATURE", "CITY", "COUNTRYSIDE", "MOUNTAIN",
	"BEACH", "MUSEUM", "SHOPPING", "NIGHTLIFE", "OTHER",
}

// BaseModel provides common fields for all models
type BaseModel struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User represents a journal account
type User struct {
	BaseModel
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Nickname     string
}

// Trip is a journey owned by a user
type Trip struct {
	BaseModel
	UserID      int64     `gorm:"index;not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	Status      string    `gorm:"not null;default:PLANNING"`
	Destination string
	Budget      *int64

	User       User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TravelLogs []TravelLog `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// Duration returns the trip length in days, counting both ends
func (t *Trip) Duration() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// TravelLog is one journal entry of a trip
type TravelLog struct {
	BaseModel
	TripID   int64     `gorm:"index;not null"`
	Title    string    `gorm:"not null"`
	Content  string    `gorm:"type:text"`
	LogDate  time.Time `gorm:"not null"`
	Location string
	Mood     string
	Expenses *int64
	Rating   *int

	Trip   Trip          `gorm:"foreignKey:TripID"`
	Tags   []Tag         `gorm:"many2many:travel_log_tags;constraint:OnDelete:CASCADE"`
	Photos []TravelPhoto `gorm:"foreignKey:TravelLogID;constraint:OnDelete:CASCADE"`
}

// Tag labels travel logs
type Tag struct {
	BaseModel
	Name     string `gorm:"uniqueIndex;not null"`
	Category string `gorm:"not null"`
	Color    string
}

// TravelPhoto is an uploaded image attached to a travel log
type TravelPhoto struct {
	BaseModel
	TravelLogID  int64  `gorm:"index;not null"`
	OriginalName string `gorm:"not null"`
	StoredName   string `gorm:"uniqueIndex;not null"`
	ContentType  string
	Size         int64
	DisplayOrder int
}

// BeforeCreate generates a ULID-based stored name if it's empty
func (p *TravelPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.StoredName == "" {
		p.StoredName = ulid.Make().String()
	}
	return nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&User{}, &Trip{}, &TravelLog{}, &Tag{}, &TravelPhoto{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by ID
func FindByID[T any](db *gorm.DB, id int64, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any](db *gorm.DB, id int64, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
