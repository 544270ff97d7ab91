package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tickethub/src/config"
	"tickethub/src/db"
	"tickethub/src/models"
	"tickethub/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// venueConflictExists reports whether another non-cancelled event occupies
// the same venue on the same calendar day at the same time. excludeID skips
// the event being updated.
func venueConflictExists(tx *gorm.DB, venue *types.Venue, date time.Time, timeOfDay string, excludeID uint) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	q := tx.Model(&models.Event{}).
		Where("LOWER(venue_name) = ? AND LOWER(venue_address) = ? AND LOWER(venue_city) = ?",
			strings.ToLower(venue.Name), strings.ToLower(venue.Address), strings.ToLower(venue.City)).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Where("time = ?", timeOfDay).
		Where("status <> ?", types.EVENT_CANCELLED)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateNewEvent creates an active event with availableTickets seeded from
// totalTickets, after checking the venue is free at that date and time.
func CreateNewEvent(organizerID uint, body *types.CreateEventRequestBody) (*models.Event, error) {
	date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	status := types.EVENT_ACTIVE
	if body.Status != "" {
		status = types.EventStatus(body.Status)
	}
	dbi := db.GetDb()
	var event models.Event
	err = dbi.Transaction(func(tx *gorm.DB) error {
		conflict, err := venueConflictExists(tx, &body.Venue, date, body.Time, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrVenueConflict
		}
		event = models.Event{
			Title:            body.Title,
			Slug:             fmt.Sprintf("%s-%s", slug.Make(body.Title), uuid.NewString()[:8]),
			Description:      body.Description,
			Category:         body.Category,
			Date:             date,
			Time:             body.Time,
			Venue:            body.Venue,
			Price:            body.Price,
			TotalTickets:     body.TotalTickets,
			AvailableTickets: body.TotalTickets,
			Image:            body.Image,
			Status:           status,
			OrganizerID:      organizerID,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent applies the provided fields. A totalTickets change shifts
// availableTickets by the same delta, clamped at zero so sold tickets are
// never resurrected. Changing date, time or venue re-runs the conflict check
// against other events.
func UpdateEvent(eventID uint, body *types.UpdateEventRequestBody) (*models.Event, error) {
	dbi := db.GetDb()
	var event models.Event
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if body.Title != nil {
			event.Title = *body.Title
		}
		if body.Description != nil {
			event.Description = *body.Description
		}
		if body.Category != nil {
			event.Category = *body.Category
		}
		placementChanged := false
		if body.Date != nil {
			date, err := time.Parse(config.TIME_PARSE_FORMAT, *body.Date)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
			event.Date = date
			placementChanged = true
		}
		if body.Time != nil {
			event.Time = *body.Time
			placementChanged = true
		}
		if body.Venue != nil {
			event.Venue = *body.Venue
			placementChanged = true
		}
		if body.Price != nil {
			event.Price = *body.Price
		}
		if body.TotalTickets != nil {
			delta := *body.TotalTickets - event.TotalTickets
			event.TotalTickets = *body.TotalTickets
			event.AvailableTickets += delta
			if event.AvailableTickets < 0 {
				event.AvailableTickets = 0
			}
		}
		if body.Image != nil {
			event.Image = *body.Image
		}
		if body.Status != nil {
			event.Status = types.EventStatus(*body.Status)
		}
		if placementChanged {
			conflict, err := venueConflictExists(tx, &event.Venue, event.Date, event.Time, event.ID)
			if err != nil {
				return err
			}
			if conflict {
				return ErrVenueConflict
			}
		}
		return tx.Save(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CancelEvent marks the event cancelled. Bookings are kept; the event just
// stops accepting new ones.
func CancelEvent(eventID uint) (*models.Event, error) {
	dbi := db.GetDb()
	var event models.Event
	if err := dbi.Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	event.Status = types.EVENT_CANCELLED
	if err := dbi.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns events matching the filters, soonest first. Without an
// explicit status filter only active events are shown.
func ListEvents(filters *types.EventQueryFilters) ([]models.Event, error) {
	q := db.GetDb().Model(&models.Event{})
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	} else {
		q = q.Where("status = ?", types.EVENT_ACTIVE)
	}
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	var events []models.Event
	if err := q.Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func GetEvent(eventID uint) (*models.Event, error) {
	var event models.Event
	err := db.GetDb().
		Preload("Organizer").
		Where(&models.Event{ID: eventID}).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
