package handler

import (
	apartmentdomain "apartment-chores-go/internal/domain/apartment"
	choredomain "apartment-chores-go/internal/domain/chore"
	userdomain "apartment-chores-go/internal/domain/user"
	"apartment-chores-go/internal/identity"
	"apartment-chores-go/pkg/logger"
)

type Handlers struct {
	Users      *userdomain.Service
	Apartments *apartmentdomain.Service
	Chores     *choredomain.Service
	Identity   *identity.Client
	log        logger.Logger
}

func New(users *userdomain.Service, apartments *apartmentdomain.Service, chores *choredomain.Service, idp *identity.Client, log logger.Logger) *Handlers {
	return &Handlers{
		Users:      users,
		Apartments: apartments,
		Chores:     chores,
		Identity:   idp,
		log:        log,
	}
}
