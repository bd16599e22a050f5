package api

import (
	"log"

	intconfig "github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
	h "github.com/tripathiaman777/Railway-Ticket-Booking/internal/http/handlers"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/http/middleware"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, store repositories.Store, tickets services.TicketService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(h.NotFound)
	r.GET("/health", h.Health)
	r.GET("/api-docs", h.APIDocs)
	r.GET("/api-docs/openapi.yaml", h.APIDocsYAML)

	api := r.Group("/api/v1")
	api.GET("/db-check", h.DBCheck(store))

	th := h.TicketHandler{
		Tickets: tickets,
		Docs:    services.DocsService{Tickets: tickets},
	}
	ticket := api.Group("/ticket")
	{
		ticket.POST("/book", th.Book)
		ticket.POST("/cancel/:pnr", th.Cancel)
		ticket.GET("/booked", th.Booked)
		ticket.GET("/available", th.Available)
		ticket.GET("/pnr/:pnr", th.ByPNR)
		ticket.GET("/pnr/:pnr/e-ticket", th.ETicket)
		ticket.GET("/:id", th.Details)
	}
	return r
}
