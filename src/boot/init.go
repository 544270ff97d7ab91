package boot

import (
	"log"
	"time"

	"tickethub/src/common"
	"tickethub/src/db"
	"tickethub/src/lib"
	"tickethub/src/models"
)

func InitDb() {
	dbi := db.GetDb()
	err := dbi.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("Error running migrations: %s\n", err.Error())
	}
}

// InitScheduler registers the reminder sweeps: event-day reminders every
// morning at nine, payment reminders every fifteen minutes, plus a one-shot
// payment sweep shortly after startup to catch bookings that went stale while
// the service was down.
func InitScheduler(d *common.Dispatcher) {
	_, err := lib.CreateCronJob("0 9 * * *", func() {
		if _, err := d.SendEventReminders(); err != nil {
			log.Printf("Error running event reminder sweep: %s\n", err.Error())
		}
	})
	if err != nil {
		log.Printf("Error scheduling event reminder sweep: %s\n", err.Error())
	}
	_, err = lib.CreateIntervalJob(15*time.Minute, func() {
		if _, err := d.SendPaymentReminders(false); err != nil {
			log.Printf("Error running payment reminder sweep: %s\n", err.Error())
		}
	})
	if err != nil {
		log.Printf("Error scheduling payment reminder sweep: %s\n", err.Error())
	}
	_, err = lib.CreateOneTimeJob(time.Now().Add(2*time.Minute), func() {
		if _, err := d.SendPaymentReminders(false); err != nil {
			log.Printf("Error running startup payment sweep: %s\n", err.Error())
		}
	})
	if err != nil {
		log.Printf("Error scheduling startup payment sweep: %s\n", err.Error())
	}

	sched, err := lib.GetScheduler()
	if err != nil {
		log.Printf("Error getting scheduler: %s\n", err.Error())
		return
	}
	sched.Start()
}
