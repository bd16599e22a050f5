package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/services"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	maxPNRLength  = 20
	minNameLength = 3
)

type passengerRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Age         *int   `json:"age" binding:"required,min=0,max=120"`
	Gender      string `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	HasChildren bool   `json:"hasChildren"`
}

type bookRequest struct {
	Passengers []passengerRequest `json:"passengers" binding:"required,min=1,max=5,dive"`
}

func (r bookRequest) inputs() ([]models.PassengerInput, error) {
	out := make([]models.PassengerInput, 0, len(r.Passengers))
	for i, p := range r.Passengers {
		name := utils.NormalizeSpace(p.Name)
		if utf8.RuneCountInString(name) < minNameLength {
			return nil, domain.ValidationError{Field: "passengers[" + strconv.Itoa(i) + "].name", Msg: "must be at least 3 characters"}
		}
		out = append(out, models.PassengerInput{
			Name:                  name,
			Age:                   *p.Age,
			Gender:                domain.Gender(p.Gender),
			TravelingWithChildren: p.HasChildren,
		})
	}
	return out, nil
}

// TicketHandler serves the /ticket group.
type TicketHandler struct {
	Tickets services.TicketService
	Docs    services.DocsService
}

func (h TicketHandler) Book(c *gin.Context) {
	var req bookRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	batch, err := req.inputs()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ticket, err := h.Tickets.BookTicket(c.Request.Context(), batch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Ticket booked successfully", "ticket": ticket})
}

func (h TicketHandler) Cancel(c *gin.Context) {
	pnr, ok := pnrParam(c)
	if !ok {
		return
	}
	res, err := h.Tickets.CancelTicket(c.Request.Context(), pnr)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h TicketHandler) Booked(c *gin.Context) {
	tickets, err := h.Tickets.ListBookedTickets(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tickets), "tickets": tickets})
}

func (h TicketHandler) Available(c *gin.Context) {
	summary, err := h.Tickets.GetAvailabilitySummary(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h TicketHandler) Details(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_ticket_id", "ticket id must be a positive integer", nil)
		return
	}
	ticket, err := h.Tickets.GetTicketDetails(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

func (h TicketHandler) ByPNR(c *gin.Context) {
	pnr, ok := pnrParam(c)
	if !ok {
		return
	}
	ticket, err := h.Tickets.GetTicketByPNR(c.Request.Context(), pnr)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// ETicket returns the e-ticket PDF as a download.
func (h TicketHandler) ETicket(c *gin.Context) {
	pnr, ok := pnrParam(c)
	if !ok {
		return
	}
	pdfBytes, filename, err := h.Docs.GenerateETicket(c.Request.Context(), pnr)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func pnrParam(c *gin.Context) (string, bool) {
	pnr := strings.TrimSpace(c.Param("pnr"))
	if pnr == "" || len(pnr) > maxPNRLength {
		respondError(c, http.StatusBadRequest, "invalid_pnr", "pnr must be 1 to 20 characters", nil)
		return "", false
	}
	return pnr, true
}
