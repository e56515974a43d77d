package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Circles     *CircleRepository
	Periods     *PeriodRepository
	Emergencies *EmergencyRepository
	Vouchers    *VoucherRepository
	Events      *EventRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Circles:     NewCircleRepository(database),
		Periods:     NewPeriodRepository(database),
		Emergencies: NewEmergencyRepository(database),
		Vouchers:    NewVoucherRepository(database),
		Events:      NewEventRepository(database),
	}
}
