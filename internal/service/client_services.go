package service

import (
	"github.com/sprintboard/sprintboard/internal/adapter"
	"github.com/sprintboard/sprintboard/internal/logger"
)

type ClientServices struct {
	AuthService     AuthService
	TaskService     TaskService
	CalendarService CalendarService
	CalendarJob     CalendarJob
}

func NewClientServices(writer adapter.DocumentWriter, identity adapter.IdentityProvider, calendar adapter.CalendarAdapter, logger *logger.Logger) *ClientServices {
	authSvc := NewAuthService(identity, logger)
	calendarSvc := NewCalendarService(calendar, authSvc, logger)

	return &ClientServices{
		AuthService:     authSvc,
		TaskService:     NewTaskService(writer, logger),
		CalendarService: calendarSvc,
		CalendarJob:     NewCalendarJob(calendarSvc, logger),
	}
}
