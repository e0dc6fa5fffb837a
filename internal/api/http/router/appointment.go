package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/internal/api/http/handler"
	"github.com/Alijeyrad/scheduleease/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appts := api.Group("/appointments", authRequired)

	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Create)
	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.List)

	appts.Put("/attachments/:id", requirePerm(authorize.ResourceAttachment, authorize.ActionCreate), ah.AddAttachment)
	appts.Put("/notes/:id", requirePerm(authorize.ResourceNote, authorize.ActionCreate), ah.AddNotes)
	appts.Put("/participants/:id", requirePerm(authorize.ResourceParticipant, authorize.ActionCreate), ah.AssignParticipants)
	appts.Patch("/participants/:id/:participantId", requirePerm(authorize.ResourceParticipant, authorize.ActionDelete), ah.RemoveParticipant)

	appts.Patch("/cancel/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Cancel)
	appts.Patch("/complete/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Complete)
	appts.Patch("/reschedule/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Reschedule)

	appts.Get("/:id/calendar.ics", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.CalendarFile)
	appts.Get("/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.Get)
}
