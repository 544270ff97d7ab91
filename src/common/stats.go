package common

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tickethub/src/db"
	"tickethub/src/lib"
	"tickethub/src/models"
	"tickethub/src/types"
)

const statsCacheKey = "admin:stats"
const statsCacheTTL = 60 * time.Second

// GetAdminStats aggregates platform counters. Results are cached in redis
// for a minute; a cache failure falls through to the database and is only
// logged.
func GetAdminStats(ctx context.Context) (*types.AdminStats, error) {
	rd := lib.GetRedisClient()
	if rd != nil {
		cached, err := rd.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats types.AdminStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	dbi := db.GetDb()
	var stats types.AdminStats
	if err := dbi.Model(&models.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := dbi.Model(&models.Event{}).Where("status = ?", types.EVENT_ACTIVE).Count(&stats.ActiveEvents).Error; err != nil {
		return nil, err
	}
	if err := dbi.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}
	if err := dbi.Model(&models.Booking{}).Where("payment_status = ?", types.PAYMENT_COMPLETED).Count(&stats.CompletedBookings).Error; err != nil {
		return nil, err
	}
	if err := dbi.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	err := dbi.Model(&models.Booking{}).
		Where("payment_status = ?", types.PAYMENT_COMPLETED).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	if rd != nil {
		payload, err := json.Marshal(&stats)
		if err == nil {
			if err := rd.Set(ctx, statsCacheKey, string(payload), statsCacheTTL).Err(); err != nil {
				log.Printf("Error caching admin stats: %s\n", err.Error())
			}
		}
	}
	return &stats, nil
}

// ListAllBookings returns every booking, newest first, for the admin view.
func ListAllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.GetDb().
		Preload("Event").
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListPendingBookings returns pending, not-yet-reminded bookings the payment
// sweep would consider, oldest first.
func ListPendingBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.GetDb().
		Preload("Event").
		Preload("User").
		Where("payment_status = ? AND payment_reminder_sent = ?", types.PAYMENT_PENDING, false).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
