package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tripjournal/tripjournal/internal/models"
)

// dateLayout is how calendar dates travel over the wire
const dateLayout = time.DateOnly

// TripRequest represents a trip create or update request
type TripRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status" validate:"omitempty,oneof=PLANNING ONGOING COMPLETED CANCELLED"`
	Destination string `json:"destination" validate:"max=100"`
	Budget      *int64 `json:"budget" validate:"omitempty,min=0"`
}

// TripStatusInfo is a presentation hint for a status
type TripStatusInfo struct {
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// TripDTO is a trip as returned by the API
type TripDTO struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	Status            string          `json:"status"`
	StatusDescription string          `json:"statusDescription"`
	StatusInfo        *TripStatusInfo `json:"statusInfo"`
	Destination       string          `json:"destination"`
	Budget            *int64          `json:"budget"`
	Duration          int             `json:"duration"`
	CreatedAt         string          `json:"createdAt"`
}

var statusColors = map[string]string{
	models.TripPlanning:  "warning",
	models.TripOngoing:   "primary",
	models.TripCompleted: "success",
	models.TripCancelled: "danger",
}

var statusIcons = map[string]string{
	models.TripPlanning:  "bi-calendar-check",
	models.TripOngoing:   "bi-airplane",
	models.TripCompleted: "bi-check-circle",
	models.TripCancelled: "bi-x-circle",
}

func tripDTO(t *models.Trip) TripDTO {
	return TripDTO{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		StartDate:         t.StartDate.Format(dateLayout),
		EndDate:           t.EndDate.Format(dateLayout),
		Status:            t.Status,
		StatusDescription: models.TripStatusDescriptions[t.Status],
		StatusInfo: &TripStatusInfo{
			Description: models.TripStatusDescriptions[t.Status],
			Color:       statusColors[t.Status],
			Icon:        statusIcons[t.Status],
		},
		Destination: t.Destination,
		Budget:      t.Budget,
		Duration:    t.Duration(),
		CreatedAt:   t.CreatedAt.Format(timestampLayout),
	}
}

// applyTripRequest validates the date range and copies req onto trip
func applyTripRequest(trip *models.Trip, req *TripRequest) error {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return errors.New("startDate must be a date")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return errors.New("endDate must be a date")
	}
	if end.Before(start) {
		return errors.New("End date must not be before the start date")
	}

	status := req.Status
	if status == "" {
		status = models.TripPlanning
	}

	trip.Title = req.Title
	trip.Description = req.Description
	trip.StartDate = start
	trip.EndDate = end
	trip.Status = status
	trip.Destination = req.Destination
	trip.Budget = req.Budget
	return nil
}

// tripSortColumns maps sortBy values to columns
var tripSortColumns = map[string]string{
	"createdAt":   "created_at",
	"startDate":   "start_date",
	"endDate":     "end_date",
	"title":       "title",
	"destination": "destination",
}

func (s *Server) listTrips(c *gin.Context) {
	sess := mustSession(c)

	page := queryInt(c, "page", 0)
	size := queryInt(c, "size", 10)
	if size == 0 || size > 100 {
		size = 10
	}

	query := s.db.Model(&models.Trip{}).Where("user_id = ?", sess.UserID)

	// Unknown statuses are ignored rather than rejected
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		if _, ok := models.TripStatusDescriptions[status]; ok {
			query = query.Where("status = ?", status)
		}
	}
	if dest := strings.TrimSpace(c.Query("destination")); dest != "" {
		query = query.Where("destination LIKE ?", "%"+dest+"%")
	}
	if title := strings.TrimSpace(c.Query("title")); title != "" {
		query = query.Where("title LIKE ?", "%"+title+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count trips")
		respondError(c, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	column, ok := tripSortColumns[c.DefaultQuery("sortBy", "createdAt")]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(c.Query("sortDirection"), "ASC") {
		direction = "ASC"
	}

	var trips []models.Trip
	if err := query.Order(column + " " + direction).Order("id " + direction).
		Offset(page * size).Limit(size).Find(&trips).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list trips")
		respondError(c, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	dtos := make([]TripDTO, len(trips))
	for i := range trips {
		dtos[i] = tripDTO(&trips[i])
	}
	respond(c, http.StatusOK, "Trips retrieved", newPage(dtos, total, page, size))
}

func (s *Server) createTrip(c *gin.Context) {
	sess := mustSession(c)

	var req TripRequest
	if !s.bindJSON(c, &req) {
		return
	}

	trip := &models.Trip{UserID: sess.UserID}
	if err := applyTripRequest(trip, &req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.Create(trip).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create trip")
		respondError(c, http.StatusInternalServerError, "Failed to create trip")
		return
	}

	s.logger.Info().Int64("trip_id", trip.ID).Int64("user_id", sess.UserID).Msg("Trip created")
	respond(c, http.StatusCreated, "Trip created", tripDTO(trip))
}

// findTrip loads a trip owned by the session user, responding on failure
func (s *Server) findTrip(c *gin.Context, id int64) (*models.Trip, bool) {
	sess := mustSession(c)

	var trip models.Trip
	if err := models.FindByID(s.db, id, &trip); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Trip not found")
			return nil, false
		}
		s.logger.Error().Err(err).Int64("trip_id", id).Msg("Failed to load trip")
		respondError(c, http.StatusInternalServerError, "Failed to load trip")
		return nil, false
	}
	if trip.UserID != sess.UserID {
		respondError(c, http.StatusForbidden, "You do not have access to this trip")
		return nil, false
	}
	return &trip, true
}

func (s *Server) getTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trip, ok := s.findTrip(c, id)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "", tripDTO(trip))
}

func (s *Server) updateTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trip, ok := s.findTrip(c, id)
	if !ok {
		return
	}

	var req TripRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if err := applyTripRequest(trip, &req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.Save(trip).Error; err != nil {
		s.logger.Error().Err(err).Int64("trip_id", id).Msg("Failed to update trip")
		respondError(c, http.StatusInternalServerError, "Failed to update trip")
		return
	}
	respond(c, http.StatusOK, "Trip updated", tripDTO(trip))
}

func (s *Server) updateTripStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trip, ok := s.findTrip(c, id)
	if !ok {
		return
	}

	status := strings.ToUpper(c.Query("status"))
	if _, known := models.TripStatusDescriptions[status]; !known {
		respondError(c, http.StatusBadRequest, "Unknown status "+c.Query("status"))
		return
	}

	if err := s.db.Model(trip).Update("status", status).Error; err != nil {
		s.logger.Error().Err(err).Int64("trip_id", id).Msg("Failed to update trip status")
		respondError(c, http.StatusInternalServerError, "Failed to update trip status")
		return
	}
	trip.Status = status
	respond(c, http.StatusOK, "Trip status updated", tripDTO(trip))
}

func (s *Server) deleteTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trip, ok := s.findTrip(c, id)
	if !ok {
		return
	}

	var stored []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var logIDs []int64
		if err := tx.Model(&models.TravelLog{}).Where("trip_id = ?", trip.ID).Pluck("id", &logIDs).Error; err != nil {
			return err
		}
		if len(logIDs) > 0 {
			if err := tx.Model(&models.TravelPhoto{}).Where("travel_log_id IN ?", logIDs).Pluck("stored_name", &stored).Error; err != nil {
				return err
			}
			if err := tx.Where("travel_log_id IN ?", logIDs).Delete(&models.TravelPhoto{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM travel_log_tags WHERE travel_log_id IN ?", logIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", logIDs).Delete(&models.TravelLog{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(trip).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("trip_id", id).Msg("Failed to delete trip")
		respondError(c, http.StatusInternalServerError, "Failed to delete trip")
		return
	}

	for _, name := range stored {
		if err := os.Remove(filepath.Join(s.config.UploadDir, name)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("file", name).Msg("Failed to remove photo file")
		}
	}

	s.logger.Info().Int64("trip_id", id).Msg("Trip deleted")
	respond(c, http.StatusOK, "Trip deleted", nil)
}
