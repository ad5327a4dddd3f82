package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ticketdomain "github.com/upeonet/mtandao/internal/ticket/domain"
)

type createTicketRequest struct {
	CustomerID string `json:"customer_id"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Priority   string `json:"priority"`
}

func (s *Server) CreateTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID := strings.TrimSpace(req.CustomerID)
	if !user.Role.Staff() {
		// Customers can only file tickets against their own account.
		if user.CustomerID == nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		customerID = user.CustomerID.String()
	}

	resp, err := s.ticketSvc.Create(c.Request.Context(), ticketdomain.CreateTicketRequest{
		CustomerID: customerID,
		OpenedBy:   user.ID,
		Subject:    strings.TrimSpace(req.Subject),
		Body:       strings.TrimSpace(req.Body),
		Priority:   strings.TrimSpace(req.Priority),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTickets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		Status string `form:"status"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := ticketdomain.ListTicketRequest{
		Status: strings.TrimSpace(query.Status),
		Limit:  query.Limit,
	}
	if !user.Role.Staff() {
		if user.CustomerID == nil {
			c.JSON(http.StatusOK, gin.H{"data": []ticketdomain.Ticket{}})
			return
		}
		req.CustomerID = *user.CustomerID
	}

	resp, err := s.ticketSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTicketByID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.ticketSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if !user.Role.Staff() {
		if user.CustomerID == nil || *user.CustomerID != resp.CustomerID {
			AbortWithError(c, ErrForbidden)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type replyTicketRequest struct {
	Body string `json:"body"`
}

func (s *Server) ReplyTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req replyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if !user.Role.Staff() {
		ticket, err := s.ticketSvc.GetByID(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if user.CustomerID == nil || *user.CustomerID != ticket.CustomerID {
			AbortWithError(c, ErrForbidden)
			return
		}
	}

	resp, err := s.ticketSvc.Reply(c.Request.Context(), ticketdomain.ReplyRequest{
		TicketID: id,
		AuthorID: user.ID,
		Body:     strings.TrimSpace(req.Body),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type transitionTicketRequest struct {
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
}

func (s *Server) TransitionTicket(c *gin.Context) {
	var req transitionTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.Transition(c.Request.Context(), ticketdomain.TransitionRequest{
		TicketID:   strings.TrimSpace(c.Param("id")),
		Status:     strings.TrimSpace(req.Status),
		AssignedTo: strings.TrimSpace(req.AssignedTo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isTicketValidationError(err error) bool {
	switch err {
	case ticketdomain.ErrInvalidCustomer,
		ticketdomain.ErrInvalidSubject,
		ticketdomain.ErrInvalidBody,
		ticketdomain.ErrInvalidStatus,
		ticketdomain.ErrInvalidPriority,
		ticketdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
