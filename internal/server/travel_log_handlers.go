package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/tripjournal/tripjournal/internal/models"
)

// maxPhotos is the number of photos a single travel log submission may carry
const maxPhotos = 5

// TravelLogRequest represents a travel log create request
type TravelLogRequest struct {
	Title    string  `json:"title" validate:"required,max=100"`
	Content  string  `json:"content" validate:"max=2000"`
	LogDate  string  `json:"logDate" validate:"required,datetime=2006-01-02"`
	Location string  `json:"location" validate:"max=100"`
	Mood     string  `json:"mood" validate:"max=50"`
	Expenses *int64  `json:"expenses" validate:"omitempty,min=0"`
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	TagIDs   []int64 `json:"tagIds"`
}

// TripRef is the short trip reference embedded in a travel log
type TripRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// TravelLogDTO is a travel log as returned by the API
type TravelLogDTO struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	LogDate       string   `json:"logDate"`
	Location      string   `json:"location"`
	Mood          string   `json:"mood"`
	Expenses      *int64   `json:"expenses"`
	Rating        *int     `json:"rating"`
	CreatedAt     string   `json:"createdAt"`
	Trip          *TripRef `json:"trip,omitempty"`
	CoverImageURL string   `json:"coverImageUrl,omitempty"`
}

// PhotoDTO is an uploaded photo as returned by the API
type PhotoDTO struct {
	ID               int64  `json:"id"`
	URL              string `json:"url"`
	OriginalFilename string `json:"originalFilename"`
	DisplayOrder     int    `json:"displayOrder"`
}

func photoURL(p *models.TravelPhoto) string {
	return "/uploads/" + p.StoredName
}

func travelLogDTO(l *models.TravelLog) TravelLogDTO {
	dto := TravelLogDTO{
		ID:        l.ID,
		Title:     l.Title,
		Content:   l.Content,
		LogDate:   l.LogDate.Format(dateLayout),
		Location:  l.Location,
		Mood:      l.Mood,
		Expenses:  l.Expenses,
		Rating:    l.Rating,
		CreatedAt: l.CreatedAt.Format(timestampLayout),
	}
	if l.Trip.ID != 0 {
		dto.Trip = &TripRef{ID: l.Trip.ID, Title: l.Trip.Title}
	}
	if len(l.Photos) > 0 {
		dto.CoverImageURL = photoURL(&l.Photos[0])
	}
	return dto
}

func tagDTOs(tags []models.Tag) []TagDTO {
	dtos := make([]TagDTO, len(tags))
	for i := range tags {
		dtos[i] = tagDTO(&tags[i])
	}
	return dtos
}

func (s *Server) listTravelLogs(c *gin.Context) {
	sess := mustSession(c)

	page := queryInt(c, "page", 0)
	size := queryInt(c, "size", 10)
	if size == 0 || size > 100 {
		size = 10
	}

	query := s.db.Model(&models.TravelLog{}).
		Joins("JOIN trips ON trips.id = travel_logs.trip_id").
		Where("trips.user_id = ?", sess.UserID)

	if raw := c.Query("tripId"); raw != "" {
		tripID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid tripId")
			return
		}
		query = query.Where("travel_logs.trip_id = ?", tripID)
	}
	if location := strings.TrimSpace(c.Query("location")); location != "" {
		query = query.Where("travel_logs.location LIKE ?", "%"+location+"%")
	}
	if raw := c.Query("logDate"); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid logDate")
			return
		}
		query = query.Where("travel_logs.log_date >= ? AND travel_logs.log_date < ?", day, day.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count travel logs")
		respondError(c, http.StatusInternalServerError, "Failed to list travel logs")
		return
	}

	var logs []models.TravelLog
	err := query.Preload("Trip").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("display_order") }).
		Order("travel_logs.log_date DESC").Order("travel_logs.id DESC").
		Offset(page * size).Limit(size).Find(&logs).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list travel logs")
		respondError(c, http.StatusInternalServerError, "Failed to list travel logs")
		return
	}

	dtos := make([]TravelLogDTO, len(logs))
	for i := range logs {
		dtos[i] = travelLogDTO(&logs[i])
	}
	respond(c, http.StatusOK, "Travel logs retrieved", newPage(dtos, total, page, size))
}

// readTravelLogRequest decodes either a JSON body or a multipart form with a
// JSON "data" part and optional "files" parts
func (s *Server) readTravelLogRequest(c *gin.Context) (*TravelLogRequest, []*multipart.FileHeader, bool) {
	var req TravelLogRequest

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if !s.bindJSON(c, &req) {
			return nil, nil, false
		}
		return &req, nil, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart body: "+err.Error())
		return nil, nil, false
	}
	data := form.Value["data"]
	if len(data) == 0 {
		respondError(c, http.StatusBadRequest, "Missing data part")
		return nil, nil, false
	}
	if err := json.Unmarshal([]byte(data[0]), &req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid data part: "+err.Error())
		return nil, nil, false
	}
	if !s.validate(c, &req) {
		return nil, nil, false
	}

	files := form.File["files"]
	if len(files) > maxPhotos {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("At most %d photos may be uploaded", maxPhotos))
		return nil, nil, false
	}
	return &req, files, true
}

func (s *Server) createTravelLog(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Query("tripId"), 10, 64)
	if err != nil || tripID <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid tripId")
		return
	}
	trip, ok := s.findTrip(c, tripID)
	if !ok {
		return
	}

	req, files, ok := s.readTravelLogRequest(c)
	if !ok {
		return
	}

	logDate, err := time.Parse(dateLayout, req.LogDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "logDate must be a date")
		return
	}

	var tags []models.Tag
	// A repeated id tags the log once
	tagIDs := slices.Compact(slices.Sorted(slices.Values(req.TagIDs)))
	if len(tagIDs) > 0 {
		if err := s.db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to load tags")
			respondError(c, http.StatusInternalServerError, "Failed to create travel log")
			return
		}
		if len(tags) != len(tagIDs) {
			respondError(c, http.StatusBadRequest, "Unknown tag id")
			return
		}
	}

	entry := &models.TravelLog{
		TripID:   trip.ID,
		Title:    req.Title,
		Content:  req.Content,
		LogDate:  logDate,
		Location: req.Location,
		Mood:     req.Mood,
		Expenses: req.Expenses,
		Rating:   req.Rating,
		Tags:     tags,
	}

	var saved []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Trip").Create(entry).Error; err != nil {
			return err
		}
		for i, fh := range files {
			photo, err := s.storePhoto(fh, entry.ID, i)
			if err != nil {
				return err
			}
			saved = append(saved, photo.StoredName)
			if err := tx.Create(photo).Error; err != nil {
				return err
			}
			entry.Photos = append(entry.Photos, *photo)
		}
		return nil
	})
	if err != nil {
		for _, name := range saved {
			_ = os.Remove(filepath.Join(s.config.UploadDir, name))
		}
		s.logger.Error().Err(err).Int64("trip_id", trip.ID).Msg("Failed to create travel log")
		respondError(c, http.StatusInternalServerError, "Failed to create travel log")
		return
	}

	entry.Trip = *trip
	s.logger.Info().
		Int64("travel_log_id", entry.ID).
		Int64("trip_id", trip.ID).
		Int("photos", len(files)).
		Msg("Travel log created")
	respond(c, http.StatusCreated, "Travel log created", travelLogDTO(entry))
}

// storePhoto writes an upload under the upload directory with a ULID name
func (s *Server) storePhoto(fh *multipart.FileHeader, logID int64, order int) (*models.TravelPhoto, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	name := ulid.Make().String() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.config.UploadDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	return &models.TravelPhoto{
		TravelLogID:  logID,
		OriginalName: fh.Filename,
		StoredName:   name,
		ContentType:  fh.Header.Get("Content-Type"),
		Size:         size,
		DisplayOrder: order,
	}, nil
}

// findTravelLog loads a travel log whose trip belongs to the session user
func (s *Server) findTravelLog(c *gin.Context, id int64, preloads ...string) (*models.TravelLog, bool) {
	sess := mustSession(c)

	var entry models.TravelLog
	if err := models.FindByIDWithPreload(s.db, id, &entry, append([]string{"Trip"}, preloads...)...); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Travel log not found")
			return nil, false
		}
		s.logger.Error().Err(err).Int64("travel_log_id", id).Msg("Failed to load travel log")
		respondError(c, http.StatusInternalServerError, "Failed to load travel log")
		return nil, false
	}
	if entry.Trip.UserID != sess.UserID {
		respondError(c, http.StatusForbidden, "You do not have access to this travel log")
		return nil, false
	}
	return &entry, true
}

func (s *Server) getTravelLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, ok := s.findTravelLog(c, id, "Photos")
	if !ok {
		return
	}
	respond(c, http.StatusOK, "", travelLogDTO(entry))
}

func (s *Server) getTravelLogTags(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, ok := s.findTravelLog(c, id, "Tags")
	if !ok {
		return
	}
	respond(c, http.StatusOK, "", tagDTOs(entry.Tags))
}

func (s *Server) deleteTravelLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, ok := s.findTravelLog(c, id, "Photos")
	if !ok {
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entry).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("travel_log_id = ?", entry.ID).Delete(&models.TravelPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TravelLog{}, entry.ID).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("travel_log_id", id).Msg("Failed to delete travel log")
		respondError(c, http.StatusInternalServerError, "Failed to delete travel log")
		return
	}

	for _, p := range entry.Photos {
		if err := os.Remove(filepath.Join(s.config.UploadDir, p.StoredName)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", p.StoredName).Msg("Failed to remove photo file")
		}
	}

	s.logger.Info().Int64("travel_log_id", id).Msg("Travel log deleted")
	respond(c, http.StatusOK, "Travel log deleted", nil)
}

func (s *Server) listPhotos(c *gin.Context) {
	id, ok := pathID(c, "travelLogId")
	if !ok {
		return
	}
	entry, ok := s.findTravelLog(c, id)
	if !ok {
		return
	}

	var photos []models.TravelPhoto
	if err := s.db.Where("travel_log_id = ?", entry.ID).Order("display_order").Find(&photos).Error; err != nil {
		s.logger.Error().Err(err).Int64("travel_log_id", id).Msg("Failed to list photos")
		respondError(c, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	dtos := make([]PhotoDTO, len(photos))
	for i := range photos {
		dtos[i] = PhotoDTO{
			ID:               photos[i].ID,
			URL:              photoURL(&photos[i]),
			OriginalFilename: photos[i].OriginalName,
			DisplayOrder:     photos[i].DisplayOrder,
		}
	}
	respond(c, http.StatusOK, "", dtos)
}
